package server

import (
	"html/template"
	"net/http"

	"github.com/queuectl/queuectl/internal/store"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>queuectl dashboard</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; }
table { border-collapse: collapse; width: 100%; margin-top: 20px; }
th, td { border: 1px solid #ccc; padding: 8px; text-align: left; }
h1 { margin-bottom: 5px; }
.state-box { display: inline-block; padding: 8px 12px; margin-right: 10px; background: #eee; border-radius: 6px; }
</style>
</head>
<body>
<h1>queuectl dashboard</h1>

<h2>Summary</h2>
<div>
{{range $name, $count := .Stats.States}}
  <span class="state-box"><b>{{$name}}</b>: {{$count}}</span>
{{end}}
  <span class="state-box"><b>DLQ</b>: {{.Stats.DLQ}}</span>
  <span class="state-box"><b>Workers</b>: {{.Stats.Workers}}</span>
</div>

<h2>Recent Jobs</h2>
<table>
<tr><th>ID</th><th>Command</th><th>State</th><th>Attempts</th><th>Updated</th></tr>
{{range .Jobs}}
<tr>
<td>{{.ID}}</td>
<td>{{.Command}}</td>
<td>{{.State}}</td>
<td>{{.Attempts}}/{{.MaxRetries}}</td>
<td>{{.UpdatedAt.Format "2006-01-02 15:04:05"}}</td>
</tr>
{{end}}
</table>

<h2>Dead Letter Queue</h2>
<table>
<tr><th>Job ID</th><th>Reason</th><th>Time</th></tr>
{{range .DLQ}}
<tr>
<td>{{.JobID}}</td>
<td>{{.LastError}}</td>
<td>{{.FailedAt.Format "2006-01-02 15:04:05"}}</td>
</tr>
{{end}}
</table>

</body>
</html>
`))

type indexData struct {
	Stats *store.Stats
	Jobs  []store.Job
	DLQ   []store.DLQEntry
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jobs, err := s.store.ListJobs("all", 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	dlq, err := s.store.ListDLQ(50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData{Stats: stats, Jobs: jobs, DLQ: dlq}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
