package dpcli

import (
	"context"
	"errors"
	"net/http"
	"strings"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/dayplan/dayplan/common"
)

type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// Watch connects to the push endpoint and calls fn for every reminder the
// daemon delivers, until ctx is cancelled or the daemon goes away.
func Watch(ctx context.Context, opts *Options, fn func(*common.ReminderNotification)) error {
	if opts == nil {
		opts = &Options{}
	}
	wsURL := "ws" + strings.TrimPrefix(opts.baseURL(), "http") + common.RPCWSPath
	conn, _, err := cws.Dial(ctx, wsURL, &cws.DialOptions{
		HTTPClient: opts.HTTPClient,
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + opts.Token}},
	})
	if err != nil {
		return err
	}
	ch := &wsChannel{conn: conn, ctx: ctx}
	cli := jrpc2.NewClient(ch, &jrpc2.ClientOptions{
		OnNotify: func(req *jrpc2.Request) {
			if req.Method() != common.NotifyReminderFired {
				return
			}
			var p common.ReminderNotification
			if err := req.UnmarshalParams(&p); err == nil {
				fn(&p)
			}
		},
	})
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cli.Close()
		case <-done:
		}
	}()
	err = cli.Wait()
	close(done)
	if ctx.Err() != nil {
		return nil
	}
	if err == nil || errors.Is(err, context.Canceled) {
		return errors.New("daemon closed the connection")
	}
	return err
}
