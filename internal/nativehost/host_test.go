package nativehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/internal/prefs"
	"github.com/spf13/afero"
)

type mockClient struct {
	refreshes int
	err       error
}

func (m *mockClient) Refresh(context.Context) (*common.RefreshResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.refreshes++
	return &common.RefreshResult{Queued: true}, nil
}

func (m *mockClient) Status(context.Context) (*common.StatusResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &common.StatusResult{Date: "today", Tasks: 3}, nil
}

func (m *mockClient) Version(context.Context) (*common.VersionResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &common.VersionResult{Version: "1.2.3"}, nil
}

func frame(t *testing.T, msgs ...string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		if err := WriteMessage(&buf, []byte(m)); err != nil {
			t.Fatal(err)
		}
	}
	return &buf
}

func runHost(t *testing.T, c Client, store PrefStore, msgs ...string) []Response {
	t.Helper()
	var out bytes.Buffer
	h := &Host{client: c, prefs: store, stdin: frame(t, msgs...), stdout: &out}
	if err := h.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var resps []Response
	for out.Len() > 0 {
		data, err := ReadMessage(&out)
		if err != nil {
			t.Fatal(err)
		}
		var r Response
		if err := json.Unmarshal(data, &r); err != nil {
			t.Fatal(err)
		}
		resps = append(resps, r)
	}
	return resps
}

func newPrefs() *prefs.Store {
	return prefs.NewStore(afero.NewMemMapFs(), "/cfg/prefs.json")
}

func TestHostForwardsToDaemon(t *testing.T) {
	c := &mockClient{}
	resps := runHost(t, c, newPrefs(),
		`{"action":"refreshSchedule"}`,
		`{"id":2,"method":"status"}`,
		`{"id":3,"method":"version"}`,
	)
	if len(resps) != 3 {
		t.Fatalf("got %d responses", len(resps))
	}
	for _, r := range resps {
		if !r.Ok {
			t.Fatalf("response %d failed: %s", r.ID, r.Error)
		}
	}
	if c.refreshes != 1 {
		t.Fatalf("refreshes = %d", c.refreshes)
	}
	if v := resps[2].Result.(map[string]any)["version"]; v != "1.2.3" {
		t.Fatalf("version result = %v", resps[2].Result)
	}
}

func TestHostErrors(t *testing.T) {
	resps := runHost(t, &mockClient{err: errors.New("daemon down")}, newPrefs(),
		`not json`,
		`{"id":1,"method":"status"}`,
		`{"id":2,"method":"download"}`,
		`{"id":3,"method":"setPrefs","message":"oops"}`,
	)
	want := []string{"invalid request", "daemon down", "unknown method: download", "invalid setPrefs params"}
	for i, r := range resps {
		if r.Ok || !bytes.Contains([]byte(r.Error), []byte(want[i])) {
			t.Errorf("response %d = %+v, want error containing %q", i, r, want[i])
		}
	}
}

func TestHostPrefs(t *testing.T) {
	store := newPrefs()
	resps := runHost(t, &mockClient{}, store,
		`{"id":1,"method":"getPrefs"}`,
		`{"id":2,"method":"setPrefs","message":{"alarmEnabled":true}}`,
		`{"id":3,"method":"setPrefs","message":{"volume":"75"}}`,
		`{"id":4,"method":"setPrefs","message":{"volume":150}}`,
	)
	first := resps[0].Result.(map[string]any)
	if first["alarmEnabled"] != false || first["volume"] != float64(50) {
		t.Fatalf("defaults = %v", first)
	}
	if !resps[1].Ok {
		t.Fatalf("setPrefs failed: %s", resps[1].Error)
	}
	// volume must be a JSON number
	if resps[2].Ok {
		t.Fatal("string volume accepted")
	}
	if resps[3].Ok {
		t.Fatal("out of range volume accepted")
	}
	p, err := store.Load()
	if err != nil || !p.AlarmEnabled || p.Volume != 50 {
		t.Fatalf("stored prefs = %+v, %v", p, err)
	}
}
