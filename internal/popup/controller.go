// Package popup is the interactive front end of dayplan: view a day's
// schedule, add, delete and copy tasks, and edit the alarm preferences.
//
// Controller holds the state and performs the operations; Model drives it
// from a bubbletea program and Render draws it.
package popup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dayplan/dayplan/internal/prefs"
	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/dayplan/dayplan/pkg/schedule"
	"github.com/google/uuid"
)

// ErrCancelled is returned when the user declines a confirmation.
var ErrCancelled = errors.New("cancelled by user")

// DeleteConfirmation is the question asked before a task is deleted.
const DeleteConfirmation = "Are you sure you want to delete this task?"

// Mode selects what the schedule pane is showing.
type Mode int

const (
	ModeToday Mode = iota
	ModeCustomDate
	ModeCopy
)

func (m Mode) String() string {
	switch m {
	case ModeToday:
		return "today"
	case ModeCustomDate:
		return "custom"
	case ModeCopy:
		return "copy"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// View is the schedule pane. Seq identifies the request whose response is
// (or will be) displayed.
type View struct {
	Mode     Mode
	Date     string
	Loading  bool
	Schedule schedule.Schedule
	Err      string
	Seq      uint64
}

// BannerKind tells success and error banners apart.
type BannerKind int

const (
	BannerSuccess BannerKind = iota
	BannerError
)

// Banner is a transient message shown above the schedule.
type Banner struct {
	ID   string
	Kind BannerKind
	Text string
}

// Service is the schedule service as seen by the popup.
type Service interface {
	Fetch(ctx context.Context, date string) (schedule.Schedule, error)
	AddTask(ctx context.Context, task *schedule.NewTaskRequest) error
	DeleteTask(ctx context.Context, taskID string) (string, error)
	CopySchedule(ctx context.Context, source, target string) (string, error)
}

// PrefStore persists the alarm preferences.
type PrefStore interface {
	Load() (prefs.Prefs, error)
	SetAlarmEnabled(on bool) (prefs.Prefs, error)
	SetVolume(v int) (prefs.Prefs, error)
}

// Options configures a Controller.
type Options struct {
	// Signal tells the notifier loop to refetch. It runs in the background;
	// failures are only logged.
	Signal func(context.Context) error
	Log    logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Controller owns the popup state. All methods are safe for concurrent use.
type Controller struct {
	svc    Service
	store  PrefStore
	signal func(context.Context) error
	log    logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	view    View
	seq     uint64
	banners []Banner
	prefs   prefs.Prefs

	wg sync.WaitGroup
}

// NewController creates a controller showing today's (not yet loaded)
// schedule with default preferences.
func NewController(svc Service, store PrefStore, opts Options) *Controller {
	if opts.Log == nil {
		opts.Log = logger.NewNopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		svc:    svc,
		store:  store,
		signal: opts.Signal,
		log:    opts.Log,
		now:    opts.Now,
		view:   View{Mode: ModeToday, Date: schedule.Today},
		prefs:  prefs.Default(),
	}
}

// State is a consistent copy of everything Render needs.
type State struct {
	View    View
	Banners []Banner
	Prefs   prefs.Prefs
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		View:    c.view,
		Banners: append([]Banner(nil), c.banners...),
		Prefs:   c.prefs,
	}
}

// View returns the schedule pane.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Prefs returns the loaded preferences.
func (c *Controller) Prefs() prefs.Prefs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// Open loads the persisted preferences and today's schedule.
func (c *Controller) Open(ctx context.Context) error {
	p, err := c.store.Load()
	if err != nil {
		c.log.Warning("load preferences: %v", err)
	}
	c.mu.Lock()
	c.prefs = p
	c.view.Mode = ModeToday
	c.view.Date = schedule.Today
	c.mu.Unlock()
	c.Fetch(ctx)
	return err
}

// SetMode switches the view mode. Today fetches immediately; the other modes
// only reveal their controls.
func (c *Controller) SetMode(ctx context.Context, m Mode) {
	c.mu.Lock()
	c.view.Mode = m
	if m == ModeToday {
		c.view.Date = schedule.Today
	}
	c.mu.Unlock()
	if m == ModeToday {
		c.Fetch(ctx)
	}
}

// SetDate shows the schedule for date.
func (c *Controller) SetDate(ctx context.Context, date string) {
	c.mu.Lock()
	c.view.Date = date
	c.mu.Unlock()
	c.Fetch(ctx)
}

// Request is an issued fetch. Only the most recent one may update the view.
type Request struct {
	Seq  uint64
	Date string
}

// Begin issues a fetch for the current date and puts the view in the
// loading state.
func (c *Controller) Begin() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.view.Seq = c.seq
	c.view.Loading = true
	c.view.Err = ""
	return Request{Seq: c.seq, Date: c.view.Date}
}

// Complete performs req and applies its result. It reports whether the
// result was displayed.
func (c *Controller) Complete(ctx context.Context, req Request) bool {
	s, err := c.svc.Fetch(ctx, req.Date)
	return c.apply(req, s, err)
}

func (c *Controller) apply(req Request, s schedule.Schedule, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if req.Seq != c.seq {
		c.log.Debug("discarding response #%d for %s, latest is #%d", req.Seq, req.Date, c.seq)
		return false
	}
	c.view.Loading = false
	if err != nil {
		c.view.Err = "Error loading schedule: " + err.Error()
		c.view.Schedule = nil
		return true
	}
	c.view.Err = ""
	c.view.Schedule = s
	return true
}

// Fetch loads the schedule for the current date.
func (c *Controller) Fetch(ctx context.Context) bool {
	return c.Complete(ctx, c.Begin())
}

// AddTask submits form. A blank date is sent as the current day's date. On
// success the schedule of the task's date is shown; on failure the returned
// error carries the alert text.
func (c *Controller) AddTask(ctx context.Context, form Form) error {
	req := form.Request()
	today := schedule.IsToday(req.Date)
	if today {
		req.Date = c.now().Format(schedule.DateLayout)
	}
	if err := c.svc.AddTask(ctx, req); err != nil {
		return fmt.Errorf("Error adding task: %s", err.Error())
	}
	c.mu.Lock()
	if today {
		c.view.Date = schedule.Today
		c.view.Mode = ModeToday
	} else {
		c.view.Date = req.Date
		c.view.Mode = ModeCustomDate
	}
	c.mu.Unlock()
	c.Fetch(ctx)
	return nil
}

// DeleteTask removes taskID after confirm approves. A declined confirmation
// returns ErrCancelled without contacting the service.
func (c *Controller) DeleteTask(ctx context.Context, taskID string, confirm func(question string) bool) error {
	if confirm != nil && !confirm(DeleteConfirmation) {
		return ErrCancelled
	}
	msg, err := c.svc.DeleteTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("Error deleting task: %s", err.Error())
	}
	c.log.Debug("deleted %s: %s", taskID, msg)
	c.Fetch(ctx)
	return nil
}

// CopySchedule copies yesterday's schedule into today and returns the banner
// announcing the outcome. Today's schedule is re-fetched on success.
func (c *Controller) CopySchedule(ctx context.Context) Banner {
	source, target := schedule.CopyDates(c.now())
	_, err := c.svc.CopySchedule(ctx, source, target)
	if err != nil {
		return c.pushBanner(BannerError, err.Error())
	}
	b := c.pushBanner(BannerSuccess, "Schedule copied successfully")
	c.mu.Lock()
	c.view.Date = schedule.Today
	c.mu.Unlock()
	c.Fetch(ctx)
	return b
}

func (c *Controller) pushBanner(kind BannerKind, text string) Banner {
	b := Banner{ID: uuid.NewString(), Kind: kind, Text: text}
	c.mu.Lock()
	c.banners = append([]Banner{b}, c.banners...)
	c.mu.Unlock()
	return b
}

// ExpireBanner removes the banner with id. It reports whether it was shown.
func (c *Controller) ExpireBanner(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, b := range c.banners {
		if b.ID == id {
			c.banners = append(c.banners[:i], c.banners[i+1:]...)
			return true
		}
	}
	return false
}

// SetAlarmEnabled persists the alarm toggle. The notification settings panel
// is visible exactly when it is on.
func (c *Controller) SetAlarmEnabled(on bool) error {
	p, err := c.store.SetAlarmEnabled(on)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.prefs = p
	c.mu.Unlock()
	return nil
}

// SetVolume persists the volume.
func (c *Controller) SetVolume(v int) error {
	p, err := c.store.SetVolume(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.prefs = p
	c.mu.Unlock()
	return nil
}

// Refresh re-fetches the current view and signals the notifier loop without
// waiting for it.
func (c *Controller) Refresh(ctx context.Context) {
	c.SendSignal()
	c.Fetch(ctx)
}

// SendSignal sends the refresh signal in the background.
func (c *Controller) SendSignal() {
	if c.signal == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.signal(context.Background()); err != nil {
			c.log.Warning("refresh signal: %v", err)
		}
	}()
}

// Wait blocks until background signals have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}
