package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel adapts a websocket connection to a jrpc2 channel.
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

// serveWS runs a jrpc2 server with push enabled over one websocket
// connection and registers it for broadcasts until the peer goes away.
func (rs *RPCServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{
		// Browser extension origins are chrome-extension://... and
		// moz-extension://...; the bearer token is the access control.
		InsecureSkipVerify: true,
	})
	if err != nil {
		rs.log.Warning("websocket accept: %v", err)
		return
	}
	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(rs.methods, &jrpc2.ServerOptions{AllowPush: true}).Start(ch)
	rs.notifier.Register(srv)
	defer rs.notifier.Unregister(srv)
	rs.log.Debug("websocket peer connected from %s", r.RemoteAddr)
	if err := srv.Wait(); err != nil {
		rs.log.Debug("websocket peer %s closed: %v", r.RemoteAddr, err)
	}
}
