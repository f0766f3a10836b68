// Package controller owns the client's interaction state: which panel is
// visible, the transient alert, and the wiring between login/create/select
// events and the session store, gateway, cache, and poll scheduler. It is
// the explicit context object that replaces free-standing globals — every
// collaborator is a field, so lifecycle and coupling stay visible.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tasklab/internal/gateway"
	"tasklab/internal/logging"
	"tasklab/internal/session"
	"tasklab/internal/task"
)

// Panel identifies the single visible top-level panel.
type Panel int

const (
	// PanelLogin is the only panel reachable before authentication.
	PanelLogin Panel = iota
	// PanelWorkspace shows the create form and the task list.
	PanelWorkspace
	// PanelDetail shows one selected task.
	PanelDetail
)

func (p Panel) String() string {
	switch p {
	case PanelLogin:
		return "login"
	case PanelWorkspace:
		return "workspace"
	case PanelDetail:
		return "detail"
	default:
		return fmt.Sprintf("panel(%d)", int(p))
	}
}

// Gateway is the slice of the backend client the controller drives itself;
// task listing belongs to the poll scheduler, not to the controller.
type Gateway interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	CreateTask(ctx context.Context, lang, name, code string) (string, error)
}

// Poller is the scheduler surface the controller starts after login.
type Poller interface {
	Start()
	Active() bool
}

// Alert is a short-lived user-visible message.
type Alert struct {
	Text  string
	Until time.Time
}

// Controller coordinates one client session.
type Controller struct {
	mu sync.Mutex

	session *session.Store
	cache   *task.Cache
	gateway Gateway
	poller  Poller
	logger  logging.Logger

	alertDuration time.Duration
	now           func() time.Time

	panel    Panel
	alert    Alert
	selected task.Record
	hasSel   bool
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger attaches a logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithClock replaces the time source; tests freeze it.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithAlertDuration sets how long alerts stay visible.
func WithAlertDuration(d time.Duration) Option {
	return func(c *Controller) { c.alertDuration = d }
}

// New wires a controller. The poller stays idle until the first successful
// login.
func New(store *session.Store, cache *task.Cache, gw Gateway, poller Poller, opts ...Option) *Controller {
	c := &Controller{
		session:       store,
		cache:         cache,
		gateway:       gw,
		poller:        poller,
		logger:        logging.Nop(),
		alertDuration: 2 * time.Second,
		now:           time.Now,
		panel:         PanelLogin,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)
	return c
}

// Panel returns the currently visible panel.
func (c *Controller) Panel() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel
}

// Authenticated reports whether a credential is held.
func (c *Controller) Authenticated() bool {
	return c.session.HasCredential()
}

// Tasks returns the latest snapshot for rendering.
func (c *Controller) Tasks() []task.Record {
	return c.cache.All()
}

// Login authenticates and, on success, stores the credential, switches to
// the workspace panel, and starts the poll scheduler (which fires its
// immediate first poll). An authentication rejection becomes a transient
// alert and the panel stays on login; the error is also returned so
// non-interactive callers can surface it.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	token, err := c.gateway.Authenticate(ctx, username, password)
	if err != nil {
		var authErr *gateway.AuthError
		if errors.As(err, &authErr) {
			c.setAlert(authErr.Cause)
		} else {
			// Transport failure on login gets the same treatment: show it
			// and stay put, never crash the page.
			c.setAlert(err.Error())
		}
		return err
	}

	c.session.SetCredential(token)

	c.mu.Lock()
	c.panel = PanelWorkspace
	c.mu.Unlock()

	c.poller.Start()
	c.logger.Info("login succeeded for %q, polling started", username)
	return nil
}

// CreateTask submits a new task. The cache is not touched: the created task
// appears on the next poll tick. Success and failure both surface as
// transient alerts; failures are additionally returned.
func (c *Controller) CreateTask(ctx context.Context, lang, name, code string) (string, error) {
	id, err := c.gateway.CreateTask(ctx, lang, name, code)
	if err != nil {
		c.setAlert(err.Error())
		return "", err
	}

	c.setAlert(fmt.Sprintf("Task #%s created", id))
	return id, nil
}

// SelectTask looks the id up in the latest snapshot and, when found,
// switches to the detail panel. Not found is a defined outcome — the task
// may have dropped out of the snapshot since it was rendered — and leaves
// the workspace visible with a transient alert.
func (c *Controller) SelectTask(id string) bool {
	rec, found := c.cache.FindByID(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !found {
		c.alert = Alert{Text: "task " + id + " is not in the latest snapshot", Until: c.now().Add(c.alertDuration)}
		return false
	}
	c.selected = rec
	c.hasSel = true
	c.panel = PanelDetail
	return true
}

// Selected returns the task shown in the detail panel.
func (c *Controller) Selected() (task.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.hasSel
}

// Back returns from the detail panel to the workspace. The poll scheduler
// is unaffected.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.panel == PanelDetail {
		c.panel = PanelWorkspace
		c.hasSel = false
	}
}

// ActiveAlert returns the alert text while it has not expired.
func (c *Controller) ActiveAlert() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.alert.Text == "" || !c.now().Before(c.alert.Until) {
		return "", false
	}
	return c.alert.Text, true
}

// AlertDuration exposes the alert lifetime so shells can schedule re-renders.
func (c *Controller) AlertDuration() time.Duration {
	return c.alertDuration
}

func (c *Controller) setAlert(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alert = Alert{Text: text, Until: c.now().Add(c.alertDuration)}
}
