package nativehost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/internal/prefs"
)

// Method names understood by the host.
const (
	MethodRefresh  = "refreshSchedule"
	MethodStatus   = "status"
	MethodVersion  = "version"
	MethodGetPrefs = "getPrefs"
	MethodSetPrefs = "setPrefs"
)

const requestTimeout = 5 * time.Second

// Client is the part of the daemon client the host forwards to.
type Client interface {
	Refresh(ctx context.Context) (*common.RefreshResult, error)
	Status(ctx context.Context) (*common.StatusResult, error)
	Version(ctx context.Context) (*common.VersionResult, error)
}

// PrefStore persists the alarm preferences shared with the popup.
type PrefStore interface {
	Load() (prefs.Prefs, error)
	Save(p prefs.Prefs) error
}

// SetPrefsParams updates only the fields that are present.
type SetPrefsParams struct {
	AlarmEnabled *bool `json:"alarmEnabled,omitempty"`
	Volume       *int  `json:"volume,omitempty"`
}

// Host serves requests from one browser connection.
type Host struct {
	client Client
	prefs  PrefStore
	stdin  io.Reader
	stdout io.Writer
}

// NewHost creates a host on the process's stdin and stdout.
func NewHost(client Client, store PrefStore) *Host {
	return &Host{
		client: client,
		prefs:  store,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

// Run serves requests until the browser closes stdin.
func (h *Host) Run(ctx context.Context) error {
	for {
		err := h.processOneMessage(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (h *Host) processOneMessage(ctx context.Context) error {
	data, err := ReadMessage(h.stdin)
	if err != nil {
		return err
	}
	req, err := ParseRequest(data)
	if err != nil {
		return WriteMessage(h.stdout, MakeErrorResponse(0, fmt.Errorf("invalid request: %w", err)))
	}
	return WriteMessage(h.stdout, h.handleRequest(ctx, req))
}

func (h *Host) handleRequest(ctx context.Context, req *Request) []byte {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var result any
	var err error
	switch req.method() {
	case MethodRefresh:
		result, err = h.client.Refresh(ctx)
	case MethodStatus:
		result, err = h.client.Status(ctx)
	case MethodVersion:
		result, err = h.client.Version(ctx)
	case MethodGetPrefs:
		result, err = h.prefs.Load()
	case MethodSetPrefs:
		var params SetPrefsParams
		if err = json.Unmarshal(req.Message, &params); err != nil {
			return MakeErrorResponse(req.ID, fmt.Errorf("invalid setPrefs params: %w", err))
		}
		result, err = h.setPrefs(params)
	default:
		return MakeErrorResponse(req.ID, fmt.Errorf("unknown method: %s", req.method()))
	}
	if err != nil {
		return MakeErrorResponse(req.ID, err)
	}
	return MakeSuccessResponse(req.ID, result)
}

func (h *Host) setPrefs(params SetPrefsParams) (prefs.Prefs, error) {
	p, _ := h.prefs.Load()
	if params.AlarmEnabled != nil {
		p.AlarmEnabled = *params.AlarmEnabled
	}
	if params.Volume != nil {
		p.Volume = *params.Volume
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, h.prefs.Save(p)
}
