package webui

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklab/internal/render"
)

// Page chrome around the engine-rendered fragments. Fragment values arrive
// as template.HTML because the render package has already escaped every
// task field; the chrome's own dynamic values (alert text, username) go
// through html/template's contextual escaping instead.

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>tasklab — login</title></head>
<body>
<h1>tasklab</h1>
{{if .Alert}}<div class="alert alert-danger" role="alert">{{.Alert}}</div>{{end}}
<form id="login-form" method="post" action="/login">
  <label for="username">Username</label>
  <input type="text" id="username" name="username" value="{{.Username}}">
  <label for="password">Password</label>
  <input type="password" id="password" name="password">
  <button type="submit">Log in</button>
</form>
</body>
</html>
`))

var workspaceTemplate = template.Must(template.New("workspace").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="{{.RefreshSeconds}}">
<title>tasklab — tasks</title>
</head>
<body>
<h1>tasklab</h1>
{{if .Alert}}<div id="alert" class="alert alert-info" role="alert">{{.Alert}}</div>{{end}}
<div id="main-ui">
  <form id="taskCreateForm" method="post" action="/tasks">
    <label for="scriptLang">Language</label>
    <input type="text" id="scriptLang" name="scriptLang">
    <label for="scriptName">Name</label>
    <input type="text" id="scriptName" name="scriptName">
    <label for="scriptCode">Code</label>
    <textarea id="scriptCode" name="scriptCode" rows="8"></textarea>
    <button type="submit">Create task</button>
  </form>
  <div id="taskListContainer" class="list-group">{{.List}}</div>
</div>
</body>
</html>
`))

var detailTemplate = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>tasklab — task {{.ID}}</title></head>
<body>
<h1>Task {{.ID}}</h1>
<div id="taskDetails"><div id="taskDetailsTable">{{.Detail}}</div></div>
<p><a href="/">Back to tasks</a></p>
</body>
</html>
`))

func (s *Server) renderLogin(c *gin.Context) {
	alert, _ := s.ctrl.ActiveAlert()
	s.renderPage(c, loginTemplate, gin.H{
		"Alert":    alert,
		"Username": s.cfg.Username,
	})
}

func (s *Server) renderWorkspace(c *gin.Context) {
	alert, _ := s.ctrl.ActiveAlert()

	refresh := int(s.cfg.PollInterval.Seconds())
	if refresh < 1 {
		refresh = 1
	}

	s.renderPage(c, workspaceTemplate, gin.H{
		"Alert":          alert,
		"RefreshSeconds": refresh,
		"List":           template.HTML(render.List(s.ctrl.Tasks())),
	})
}

func (s *Server) renderDetail(c *gin.Context, id, detail string) {
	s.renderPage(c, detailTemplate, gin.H{
		"ID":     id,
		"Detail": template.HTML(detail),
	})
}

func (s *Server) renderPage(c *gin.Context, tmpl *template.Template, data gin.H) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := tmpl.Execute(c.Writer, data); err != nil {
		s.logger.Error("render %s: %v", tmpl.Name(), err)
	}
}
