package webui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklab/internal/render"
)

func (s *Server) handleIndex(c *gin.Context) {
	if !s.ctrl.Authenticated() {
		s.renderLogin(c)
		return
	}
	s.renderWorkspace(c)
}

func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	// Rejections and transport failures both land in the controller's
	// transient alert; the redirected page shows it.
	if err := s.ctrl.Login(c.Request.Context(), username, password); err != nil {
		s.logger.Debug("login failed: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleCreateTask(c *gin.Context) {
	if !s.ctrl.Authenticated() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	lang := c.PostForm("scriptLang")
	name := c.PostForm("scriptName")
	code := c.PostForm("scriptCode")

	// The form posts and redirects, so a successful create comes back to a
	// fresh, cleared form; the new task shows up on a later poll tick, not
	// here.
	if _, err := s.ctrl.CreateTask(c.Request.Context(), lang, name, code); err != nil {
		s.logger.Debug("create task failed: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleTaskDetail(c *gin.Context) {
	if !s.ctrl.Authenticated() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	id := c.Param("id")
	if !s.ctrl.SelectTask(id) {
		// Stale id: the task left the snapshot between render and click.
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	rec, _ := s.ctrl.Selected()
	s.renderDetail(c, rec.ID(), render.Detail(rec))
}
