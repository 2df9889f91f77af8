// Package dpcli is the client side of the daemon's JSON-RPC endpoint, used by
// the CLI, the popup and the native messaging host.
package dpcli

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/dayplan/dayplan/common"
)

// Options locate and authenticate against the daemon.
type Options struct {
	// Host defaults to 127.0.0.1.
	Host string
	// Port defaults to common.DefaultRPCPort.
	Port int
	// Token is the bearer secret shared with the daemon.
	Token string
	// HTTPClient overrides the transport used for requests.
	HTTPClient *http.Client
}

func (o *Options) baseURL() string {
	host := o.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := o.Port
	if port == 0 {
		port = common.DefaultRPCPort
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// bearer adds the Authorization header to every request.
type bearer struct {
	token string
	next  http.RoundTripper
}

func (b *bearer) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.RoundTrip(r)
}

func (o *Options) httpClient() *http.Client {
	base := o.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c := *base
	c.Transport = &bearer{token: o.Token, next: next}
	return &c
}

// Client issues RPC calls to the daemon over HTTP.
type Client struct {
	opts Options
	base string
	rpc  *jrpc2.Client
}

// NewClient creates a client. No connection is made until the first call.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	o := *opts
	base := o.baseURL()
	ch := jhttp.NewChannel(base+common.RPCPath, &jhttp.ChannelOptions{Client: o.httpClient()})
	return &Client{
		opts: o,
		base: base,
		rpc:  jrpc2.NewClient(ch, nil),
	}
}

// Close releases the client.
func (c *Client) Close() error {
	return c.rpc.Close()
}

func call[T any](ctx context.Context, c *Client, method string) (*T, error) {
	var out T
	if err := c.rpc.CallResult(ctx, method, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return &out, nil
}

// Version returns the daemon's build information.
func (c *Client) Version(ctx context.Context) (*common.VersionResult, error) {
	return call[common.VersionResult](ctx, c, common.MethodVersion)
}

// Refresh asks the daemon to refetch its schedule. The daemon acknowledges
// before the fetch completes.
func (c *Client) Refresh(ctx context.Context) (*common.RefreshResult, error) {
	return call[common.RefreshResult](ctx, c, common.MethodRefresh)
}

// Status returns the notifier state.
func (c *Client) Status(ctx context.Context) (*common.StatusResult, error) {
	return call[common.StatusResult](ctx, c, common.MethodStatus)
}

// Snapshot returns the schedule the daemon is matching against.
func (c *Client) Snapshot(ctx context.Context) (*common.SnapshotResult, error) {
	return call[common.SnapshotResult](ctx, c, common.MethodSnapshot)
}

// Ping reports whether a daemon answers on the configured port. It does
// not need the token.
func Ping(ctx context.Context, opts *Options) bool {
	if opts == nil {
		opts = &Options{}
	}
	ctx, cancel := context.WithTimeout(ctx, socketDialTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.baseURL()+"/health", nil)
	if err != nil {
		return false
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	var body struct {
		Status string `json:"status"`
	}
	return resp.StatusCode == http.StatusOK &&
		json.NewDecoder(resp.Body).Decode(&body) == nil &&
		body.Status == "running"
}

// SendRefresh sends a single refresh signal and returns once the daemon has
// acknowledged it. Callers that must not block run it in a goroutine.
func SendRefresh(ctx context.Context, opts *Options) error {
	c := NewClient(opts)
	defer c.Close()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := c.Refresh(ctx)
	return err
}
