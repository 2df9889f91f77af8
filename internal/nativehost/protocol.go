// Package nativehost lets the browser extension talk to the dayplan daemon
// through the browser's native messaging channel: a 4-byte little-endian
// length prefix followed by a JSON payload, over stdin and stdout.
package nativehost

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageSize is the browser's limit for messages sent to the extension.
const MaxMessageSize = 1 << 20

// Request is one message from the extension. The extension's background page
// sends {"action": "refreshSchedule"}; Action is accepted as an alias of
// Method for that shape.
type Request struct {
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Action  string          `json:"action,omitempty"`
	Message json.RawMessage `json:"message,omitempty"`
}

func (r *Request) method() string {
	if r.Method != "" {
		return r.Method
	}
	return r.Action
}

// Response is sent back for every request.
type Response struct {
	ID     int    `json:"id"`
	Ok     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}

// ReadMessage reads one length-prefixed message.
func ReadMessage(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if length > MaxMessageSize {
		return nil, fmt.Errorf("message too large: %d bytes (max %d)", length, MaxMessageSize)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteMessage writes msg with its length prefix.
func WriteMessage(w io.Writer, msg []byte) error {
	if len(msg) > MaxMessageSize {
		return fmt.Errorf("message too large: %d bytes (max %d)", len(msg), MaxMessageSize)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(msg))); err != nil {
		return err
	}
	_, err := w.Write(msg)
	return err
}

// ParseRequest decodes a request payload.
func ParseRequest(b []byte) (*Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MakeSuccessResponse encodes a successful reply.
func MakeSuccessResponse(id int, result any) []byte {
	b, _ := json.Marshal(Response{ID: id, Ok: true, Result: result})
	return b
}

// MakeErrorResponse encodes a failed reply.
func MakeErrorResponse(id int, err error) []byte {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	b, _ := json.Marshal(Response{ID: id, Ok: false, Error: msg})
	return b
}
