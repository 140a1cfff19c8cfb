package graph

import (
	"html/template"
	"log/slog"
	"net/http"
)

var playgroundTmpl = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>{{.Title}}</title>
	<style>body { height: 100%; margin: 0; width: 100%; overflow: hidden; } #graphiql { height: 100vh; }</style>
	<script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
	<script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
	<link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css">
</head>
<body>
	<div id="graphiql">Loading...</div>
	<script src="https://unpkg.com/graphiql@3/graphiql.min.js" type="application/javascript"></script>
	<script>
		const fetcher = GraphiQL.createFetcher({ url: {{.Endpoint}} });
		ReactDOM.createRoot(document.getElementById('graphiql')).render(
			React.createElement(GraphiQL, { fetcher: fetcher, defaultQuery: {{.DefaultQuery}} })
		);
	</script>
</body>
</html>
`))

const defaultQuery = `# List every task
query {
  tasks {
    id
    description
    completed
  }
}
`

func servePlayground(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := playgroundTmpl.Execute(w, struct {
		Title        string
		Endpoint     string
		DefaultQuery string
	}{
		Title:        "taskgraph",
		Endpoint:     r.URL.Path,
		DefaultQuery: defaultQuery,
	})
	if err != nil {
		slog.Error("render graphiql", "error", err)
	}
}
