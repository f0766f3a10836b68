package webui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tasklab/internal/config"
	"tasklab/internal/controller"
	"tasklab/internal/gateway"
	"tasklab/internal/metrics"
	"tasklab/internal/session"
	"tasklab/internal/task"
)

type stubGateway struct {
	token     string
	authErr   error
	createdID string
	createErr error
}

func (g *stubGateway) Authenticate(ctx context.Context, username, password string) (string, error) {
	if g.authErr != nil {
		return "", g.authErr
	}
	return g.token, nil
}

func (g *stubGateway) CreateTask(ctx context.Context, lang, name, code string) (string, error) {
	if g.createErr != nil {
		return "", g.createErr
	}
	return g.createdID, nil
}

type stubPoller struct{ starts int }

func (p *stubPoller) Start()       { p.starts++ }
func (p *stubPoller) Active() bool { return p.starts > 0 }

type webFixture struct {
	server *Server
	ctrl   *controller.Controller
	cache  *task.Cache
	poller *stubPoller
}

func newWebFixture(t *testing.T, gw controller.Gateway) *webFixture {
	t.Helper()

	cfg, err := config.Load(
		config.WithEnv(func(string) (string, bool) { return "", false }),
		config.WithHomeDir(func() (string, error) { return "", errors.New("no home in tests") }),
	)
	require.NoError(t, err)

	cache := task.NewCache()
	poller := &stubPoller{}
	ctrl := controller.New(session.NewStore(), cache, gw, poller)

	return &webFixture{
		server: NewServer(ctrl, metrics.New(), cfg, nil),
		ctrl:   ctrl,
		cache:  cache,
		poller: poller,
	}
}

func (f *webFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (f *webFixture) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func record(fields map[string]any, order ...string) task.Record {
	var fs []task.Field
	for _, key := range order {
		fs = append(fs, task.Field{Key: key, Value: fields[key]})
	}
	return task.NewRecord(fs...)
}

func TestIndexShowsLoginWhenUnauthenticated(t *testing.T) {
	f := newWebFixture(t, &stubGateway{token: "tok"})

	rec := f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `id="login-form"`)
	require.NotContains(t, rec.Body.String(), `id="taskCreateForm"`)
}

func TestLoginSuccessShowsWorkspace(t *testing.T) {
	f := newWebFixture(t, &stubGateway{token: "tok"})

	rec := f.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	require.Equal(t, 1, f.poller.starts)

	page := f.get(t, "/")
	require.Contains(t, page.Body.String(), `id="taskCreateForm"`)
	require.Contains(t, page.Body.String(), `id="taskListContainer"`)
}

func TestLoginRejectionShowsCause(t *testing.T) {
	f := newWebFixture(t, &stubGateway{authErr: &gateway.AuthError{Cause: "bad password"}})

	rec := f.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"nope"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page := f.get(t, "/")
	require.Contains(t, page.Body.String(), "bad password")
	require.Contains(t, page.Body.String(), `id="login-form"`, "panel stays on login")
	require.Zero(t, f.poller.starts)
}

func TestWorkspaceRendersEscapedTaskList(t *testing.T) {
	f := newWebFixture(t, &stubGateway{token: "tok"})
	f.postForm(t, "/login", url.Values{"username": {"a"}, "password": {"b"}})

	f.cache.ReplaceAll([]task.Record{record(map[string]any{
		"id":    json.Number("1"),
		"name":  "<script>alert(1)</script>",
		"state": "queued",
	}, "id", "name", "state")})

	page := f.get(t, "/")
	require.NotContains(t, page.Body.String(), "<script>alert(1)</script>")
	require.Contains(t, page.Body.String(), "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestCreateTaskRedirectsAndAlerts(t *testing.T) {
	f := newWebFixture(t, &stubGateway{token: "tok", createdID: "42"})
	f.postForm(t, "/login", url.Values{"username": {"a"}, "password": {"b"}})

	rec := f.postForm(t, "/tasks", url.Values{
		"scriptLang": {"python"},
		"scriptName": {"x"},
		"scriptCode": {"print(1)"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page := f.get(t, "/")
	require.Contains(t, page.Body.String(), "Task #42 created")
	require.Zero(t, f.cache.Len(), "no optimistic cache update")
}

func TestTaskDetailPage(t *testing.T) {
	f := newWebFixture(t, &stubGateway{token: "tok"})
	f.postForm(t, "/login", url.Values{"username": {"a"}, "password": {"b"}})

	f.cache.ReplaceAll([]task.Record{record(map[string]any{
		"id":     json.Number("7"),
		"name":   "t",
		"state":  "done",
		"stdout": "hi\n",
	}, "id", "name", "state", "stdout")})

	page := f.get(t, "/tasks/7")
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), "<pre>hi\n</pre>")
	require.Contains(t, page.Body.String(), `<th scope="row">state</th><td>done</td>`)
}

func TestStaleTaskDetailRedirects(t *testing.T) {
	f := newWebFixture(t, &stubGateway{token: "tok"})
	f.postForm(t, "/login", url.Values{"username": {"a"}, "password": {"b"}})

	rec := f.get(t, "/tasks/999")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestDetailRequiresLogin(t *testing.T) {
	f := newWebFixture(t, &stubGateway{token: "tok"})

	rec := f.get(t, "/tasks/1")
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	f := newWebFixture(t, &stubGateway{token: "tok"})

	health := f.get(t, "/healthz")
	require.Equal(t, http.StatusOK, health.Code)
	require.Contains(t, health.Body.String(), `"status":"ok"`)

	m := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, m.Code)
}
