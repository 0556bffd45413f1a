package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/highlight"
	"github.com/matzehuels/termmap/pkg/httputil"
)

const (
	highlightWSWriteWait = 10 * time.Second
	highlightWSPongWait  = 60 * time.Second
	highlightWSPingEvery = (highlightWSPongWait * 9) / 10
)

var highlightWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Inbound message types.
const (
	msgHighlight   = "highlight"
	msgUnhighlight = "unhighlight"
	msgPing        = "ping"
)

// Outbound message types.
const (
	msgSubscribed = "subscribed"
	msgApplied    = "applied"
	msgPong       = "pong"
	msgError      = "error"
)

type highlightWSInbound struct {
	Type  string `json:"type"`
	Redex string `json:"redex,omitempty"`
}

type highlightWSOutbound struct {
	Type      string           `json:"type"`
	SessionID string           `json:"session_id,omitempty"`
	Redex     string           `json:"redex,omitempty"`
	Elements  []string         `json:"elements,omitempty"`
	Colour    highlight.Colour `json:"colour,omitempty"`
	Active    bool             `json:"active,omitempty"`
	Code      string           `json:"code,omitempty"`
	Message   string           `json:"message,omitempty"`
}

func (s *Server) handleHighlightWS(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("session"))
	if id == "" {
		httputil.WriteError(w, terrors.New(terrors.ErrCodeInvalidInput, "session is required"))
		return
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, terrors.Wrap(terrors.ErrCodeStorage, err, "load session"))
		return
	}
	if sess == nil {
		httputil.WriteError(w, terrors.New(terrors.ErrCodeNotFound, "session %q not found or expired", id))
		return
	}

	conn, err := highlightWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(highlightWSPongWait)); err != nil {
		s.logger.Debug("highlight ws set read deadline failed", "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(highlightWSPongWait))
	})

	writeCh := make(chan highlightWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		ticker := time.NewTicker(highlightWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(highlightWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(highlightWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	send := func(out highlightWSOutbound) {
		select {
		case writeCh <- out:
		case <-ctx.Done():
		}
	}
	sink := highlight.SinkFunc(func(e highlight.Event) {
		send(highlightWSOutbound{
			Type:     msgApplied,
			Redex:    e.Redex,
			Elements: e.Elements,
			Colour:   e.Colour,
			Active:   e.Active,
		})
	})
	queue := highlight.New(sess, sink, highlight.Options{Delay: s.delay})

	logger := s.logger.With("session", id[:min(8, len(id))])
	logger.Debug("highlight client connected")
	send(highlightWSOutbound{Type: msgSubscribed, SessionID: id})

	for {
		var in highlightWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			break
		}
		switch in.Type {
		case msgHighlight, msgUnhighlight:
			if !sess.HasRedex(in.Redex) {
				send(highlightWSOutbound{
					Type:    msgError,
					Code:    string(terrors.ErrCodeNotFound),
					Message: "unknown redex " + in.Redex,
				})
				continue
			}
			if in.Type == msgHighlight {
				err = queue.Highlight(in.Redex)
			} else {
				err = queue.Unhighlight(in.Redex)
			}
			if err != nil {
				send(highlightWSOutbound{Type: msgError, Code: string(terrors.ErrCodeInternal), Message: err.Error()})
			}
		case msgPing:
			send(highlightWSOutbound{Type: msgPong})
		default:
			send(highlightWSOutbound{
				Type:    msgError,
				Code:    string(terrors.ErrCodeInvalidInput),
				Message: "unsupported message type " + in.Type,
			})
		}
	}

	cancel()
	queue.Close()
	<-writerDone
	logger.Debug("highlight client disconnected")
}
