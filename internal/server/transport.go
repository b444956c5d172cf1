package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/net/websocket"

	apperrors "github.com/anoikis-dev/rollwatch/internal/platform/errors"
	i18ncatalog "github.com/anoikis-dev/rollwatch/internal/platform/i18n/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/engine"
	"github.com/anoikis-dev/rollwatch/internal/rolling/session"
)

const maxDecodeErrorsPerConn = 5

type wsFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type wsErrorEnvelope struct {
	Error wsError `json:"error"`
}

type wsError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type configurePayload struct {
	Mode         string         `json:"mode"`
	Wormhole     string         `json:"wormhole"`
	InitialState string         `json:"initial_state,omitempty"`
	FarSide      map[string]int `json:"far_side,omitempty"`
	Seed         *int64         `json:"seed,omitempty"`
	Locale       string         `json:"locale,omitempty"`
}

type jumpPayload struct {
	Ship       string  `json:"ship"`
	Direction  string  `json:"direction"`
	Mode       string  `json:"mode"`
	CustomMass float64 `json:"custom_mass,omitempty"`
}

type commitPayload struct {
	State string `json:"state"`
}

type ledgerPayload struct {
	Filter string `json:"filter,omitempty"`
}

// NewHandler creates the rolling routes: a liveness probe and the WebSocket
// command endpoint.
func NewHandler(eng *engine.Engine, bundle *i18ncatalog.Bundle) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handleWSConn(conn, eng, bundle)
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})

	return mux
}

type wsConn struct {
	encoder *json.Encoder
	eng     *engine.Engine
	bundle  *i18ncatalog.Bundle
	locale  string
}

func handleWSConn(conn *websocket.Conn, eng *engine.Engine, bundle *i18ncatalog.Bundle) {
	defer func() {
		_ = conn.Close()
	}()

	decoder := json.NewDecoder(conn)
	peer := &wsConn{
		encoder: json.NewEncoder(conn),
		eng:     eng,
		bundle:  bundle,
		locale:  i18ncatalog.BaseLocale,
	}

	decodeErrors := 0
	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			peer.writeError(wsFrame{}, apperrors.New(apperrors.CodeUnknown, "invalid frame payload"))
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		ctx := conn.Request().Context()
		switch frame.Type {
		case "roll.configure":
			peer.handleConfigure(ctx, frame)
		case "roll.stage":
			peer.handleStage(ctx, frame)
		case "roll.commit":
			peer.handleCommit(ctx, frame)
		case "roll.jump":
			peer.handleJump(ctx, frame)
		case "roll.reset":
			peer.handleReset(ctx, frame)
		case "roll.snapshot":
			peer.handleSnapshot(ctx, frame)
		case "roll.ledger":
			peer.handleLedger(ctx, frame)
		case "roll.catalog":
			peer.handleCatalog(frame)
		default:
			peer.writeError(frame, apperrors.New(apperrors.CodeUnknown, "unsupported frame type"))
		}
	}
}

func (p *wsConn) writeFrame(frame wsFrame) {
	if err := p.encoder.Encode(frame); err != nil {
		log.Printf("rolling: write websocket frame: %v", err)
	}
}

func (p *wsConn) writeError(frame wsFrame, err error) {
	code := apperrors.CodeUnknown
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	p.writeFrame(wsFrame{
		Type:      "roll.error",
		RequestID: frame.RequestID,
		Payload: mustJSON(wsErrorEnvelope{Error: wsError{
			Code:    string(code),
			Message: err.Error(),
			Status:  code.HTTPStatus(),
		}}),
	})
}

func (p *wsConn) writeState(frame wsFrame, snap session.Snapshot) {
	p.writeFrame(wsFrame{
		Type:      "roll.state",
		RequestID: frame.RequestID,
		Payload:   mustJSON(snapshotView(snap, p.bundle, p.locale)),
	})
}

func (p *wsConn) handleConfigure(ctx context.Context, frame wsFrame) {
	var payload configurePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		p.writeError(frame, apperrors.New(apperrors.CodeUnknown, "invalid configure payload"))
		return
	}
	if locale := strings.TrimSpace(payload.Locale); locale != "" && p.bundle.HasLocale(locale) {
		p.locale = locale
	}
	snap, err := p.eng.Configure(ctx, engine.ConfigureParams{
		Mode:           payload.Mode,
		Wormhole:       payload.Wormhole,
		InitialState:   payload.InitialState,
		InitialFarSide: payload.FarSide,
		Seed:           payload.Seed,
	})
	if err != nil {
		p.writeError(frame, err)
		return
	}
	p.writeState(frame, snap)
}

func (p *wsConn) handleStage(ctx context.Context, frame wsFrame) {
	var payload jumpPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		p.writeError(frame, apperrors.New(apperrors.CodeUnknown, "invalid stage payload"))
		return
	}
	snap, err := p.eng.Stage(ctx, engine.JumpParams{
		Ship:       payload.Ship,
		Direction:  payload.Direction,
		Mode:       payload.Mode,
		CustomMass: payload.CustomMass,
	})
	if err != nil {
		p.writeError(frame, err)
		return
	}
	p.writeState(frame, snap)
}

func (p *wsConn) handleCommit(ctx context.Context, frame wsFrame) {
	var payload commitPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		p.writeError(frame, apperrors.New(apperrors.CodeUnknown, "invalid commit payload"))
		return
	}
	entry, snap, err := p.eng.Commit(ctx, payload.State)
	if err != nil {
		p.writeError(frame, err)
		return
	}
	p.writeFrame(wsFrame{
		Type:      "roll.committed",
		RequestID: frame.RequestID,
		Payload: mustJSON(committedView{
			Entry:    entryView(entry, p.bundle, p.locale),
			Snapshot: snapshotView(snap, p.bundle, p.locale),
		}),
	})
}

func (p *wsConn) handleJump(ctx context.Context, frame wsFrame) {
	var payload jumpPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		p.writeError(frame, apperrors.New(apperrors.CodeUnknown, "invalid jump payload"))
		return
	}
	result, snap, err := p.eng.ApplyAction(ctx, engine.JumpParams{
		Ship:       payload.Ship,
		Direction:  payload.Direction,
		Mode:       payload.Mode,
		CustomMass: payload.CustomMass,
	})
	if err != nil {
		p.writeError(frame, err)
		return
	}
	p.writeFrame(wsFrame{
		Type:      "roll.resolved",
		RequestID: frame.RequestID,
		Payload:   mustJSON(resolvedView(result, snap, p.bundle, p.locale)),
	})
}

func (p *wsConn) handleReset(ctx context.Context, frame wsFrame) {
	if err := p.eng.Reset(ctx); err != nil {
		p.writeError(frame, err)
		return
	}
	p.writeFrame(wsFrame{
		Type:      "roll.reset",
		RequestID: frame.RequestID,
	})
}

func (p *wsConn) handleSnapshot(ctx context.Context, frame wsFrame) {
	snap, err := p.eng.Snapshot(ctx)
	if err != nil {
		p.writeError(frame, err)
		return
	}
	p.writeState(frame, snap)
}

func (p *wsConn) handleLedger(ctx context.Context, frame wsFrame) {
	var payload ledgerPayload
	if len(frame.Payload) > 0 {
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			p.writeError(frame, apperrors.New(apperrors.CodeUnknown, "invalid ledger payload"))
			return
		}
	}
	entries, err := p.eng.QueryLedger(ctx, payload.Filter)
	if err != nil {
		p.writeError(frame, err)
		return
	}
	views := make([]ledgerEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entryView(entry, p.bundle, p.locale))
	}
	p.writeFrame(wsFrame{
		Type:      "roll.entries",
		RequestID: frame.RequestID,
		Payload:   mustJSON(ledgerView{Entries: views}),
	})
}

func (p *wsConn) handleCatalog(frame wsFrame) {
	p.writeFrame(wsFrame{
		Type:      "roll.catalog",
		RequestID: frame.RequestID,
		Payload:   mustJSON(catalogView(p.eng.Catalog())),
	})
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal websocket frame payload: %v", err)
		return nil
	}
	return b
}
