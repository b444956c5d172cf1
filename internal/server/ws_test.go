package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
	i18ncatalog "github.com/anoikis-dev/rollwatch/internal/platform/i18n/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/engine"
)

type wsTestFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cat, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	return NewHandler(engine.New(cat), i18ncatalog.Default())
}

func dialWS(t *testing.T, handler http.Handler) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func writeFrame(t *testing.T, conn *websocket.Conn, frame map[string]any) {
	t.Helper()
	if err := json.NewEncoder(conn).Encode(frame); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) wsTestFrame {
	t.Helper()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var got wsTestFrame
	if err := json.NewDecoder(conn).Decode(&got); err != nil {
		t.Fatalf("decode server frame: %v", err)
	}
	return got
}

func TestUpEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/up")
	if err != nil {
		t.Fatalf("get /up: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestWSConfigureAndStage(t *testing.T) {
	conn := dialWS(t, newTestHandler(t))

	writeFrame(t, conn, map[string]any{
		"type":       "roll.configure",
		"request_id": "r1",
		"payload":    map[string]any{"mode": "tracker", "wormhole": "N770"},
	})
	frame := readFrame(t, conn)
	if frame.Type != "roll.state" {
		t.Fatalf("expected roll.state, got %q", frame.Type)
	}
	if frame.RequestID != "r1" {
		t.Fatalf("expected request id r1, got %q", frame.RequestID)
	}
	var snap sessionSnapshotView
	if err := json.Unmarshal(frame.Payload, &snap); err != nil {
		t.Fatalf("decode snapshot payload: %v", err)
	}
	if snap.Mode != "tracker" || snap.State != "fresh" {
		t.Fatalf("expected fresh tracker session, got %+v", snap)
	}
	if snap.Display.Min != 2700 || snap.Display.Max != 3300 {
		t.Fatalf("expected display [2700, 3300], got %+v", snap.Display)
	}

	writeFrame(t, conn, map[string]any{
		"type":       "roll.stage",
		"request_id": "r2",
		"payload": map[string]any{
			"ship": "rolling-battleship", "direction": "outbound", "mode": "unknown",
		},
	})
	frame = readFrame(t, conn)
	if frame.Type != "roll.state" {
		t.Fatalf("expected roll.state, got %q", frame.Type)
	}
	if err := json.Unmarshal(frame.Payload, &snap); err != nil {
		t.Fatalf("decode snapshot payload: %v", err)
	}
	if snap.StagedCount != 1 {
		t.Fatalf("expected 1 staged action, got %d", snap.StagedCount)
	}

	writeFrame(t, conn, map[string]any{
		"type":       "roll.commit",
		"request_id": "r3",
		"payload":    map[string]any{"state": "stable"},
	})
	frame = readFrame(t, conn)
	if frame.Type != "roll.committed" {
		t.Fatalf("expected roll.committed, got %q", frame.Type)
	}
	var committed committedView
	if err := json.Unmarshal(frame.Payload, &committed); err != nil {
		t.Fatalf("decode committed payload: %v", err)
	}
	if committed.Entry.Interval.Min != 2550 || committed.Entry.Interval.Max != 3200 {
		t.Fatalf("expected interval [2550, 3200], got %+v", committed.Entry.Interval)
	}
	if committed.Entry.TransitionMessage == "" {
		t.Fatal("expected a localized transition message")
	}
}

func TestWSGameCollapseVerdictMessage(t *testing.T) {
	conn := dialWS(t, newTestHandler(t))

	writeFrame(t, conn, map[string]any{
		"type":       "roll.configure",
		"request_id": "g1",
		"payload":    map[string]any{"mode": "game", "wormhole": "E004", "seed": 12},
	})
	if frame := readFrame(t, conn); frame.Type != "roll.state" {
		t.Fatalf("expected roll.state, got %q", frame.Type)
	}

	writeFrame(t, conn, map[string]any{
		"type":       "roll.jump",
		"request_id": "g2",
		"payload": map[string]any{
			"ship": "destroyer", "direction": "outbound",
			"mode": "custom", "custom_mass": 200,
		},
	})
	frame := readFrame(t, conn)
	if frame.Type != "roll.resolved" {
		t.Fatalf("expected roll.resolved, got %q", frame.Type)
	}
	var resolved actionResultView
	if err := json.Unmarshal(frame.Payload, &resolved); err != nil {
		t.Fatalf("decode resolved payload: %v", err)
	}
	if !resolved.Collapsed {
		t.Fatal("expected collapse from a jump above max capacity")
	}
	if resolved.Snapshot.Verdict != "loss" {
		t.Fatalf("expected loss verdict, got %q", resolved.Snapshot.Verdict)
	}
	if resolved.Snapshot.VerdictMessage == "" {
		t.Fatal("expected a localized verdict message")
	}
}

func TestWSErrorEnvelope(t *testing.T) {
	conn := dialWS(t, newTestHandler(t))

	writeFrame(t, conn, map[string]any{
		"type":       "roll.snapshot",
		"request_id": "e1",
	})
	frame := readFrame(t, conn)
	if frame.Type != "roll.error" {
		t.Fatalf("expected roll.error, got %q", frame.Type)
	}
	var envelope wsErrorEnvelope
	if err := json.Unmarshal(frame.Payload, &envelope); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if envelope.Error.Code != "SESSION_NOT_CONFIGURED" {
		t.Fatalf("expected SESSION_NOT_CONFIGURED, got %q", envelope.Error.Code)
	}
	if envelope.Error.Status != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", envelope.Error.Status)
	}

	writeFrame(t, conn, map[string]any{
		"type":       "roll.teleport",
		"request_id": "e2",
	})
	frame = readFrame(t, conn)
	if frame.Type != "roll.error" {
		t.Fatalf("expected roll.error for unknown type, got %q", frame.Type)
	}
}

func TestWSCatalogListing(t *testing.T) {
	conn := dialWS(t, newTestHandler(t))

	writeFrame(t, conn, map[string]any{
		"type":       "roll.catalog",
		"request_id": "c1",
	})
	frame := readFrame(t, conn)
	if frame.Type != "roll.catalog" {
		t.Fatalf("expected roll.catalog, got %q", frame.Type)
	}
	var listing catalogListView
	if err := json.Unmarshal(frame.Payload, &listing); err != nil {
		t.Fatalf("decode catalog payload: %v", err)
	}
	if len(listing.Ships) == 0 || len(listing.Wormholes) == 0 {
		t.Fatal("expected embedded catalog entries")
	}
}

func TestWSMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/ws", "application/json", nil)
	if err != nil {
		t.Fatalf("post /ws: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
