package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/session"
	ws "github.com/prepnest/prepnest-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// connWriter serializes writes to one WebSocket connection. The read loop
// and the engine's event pump both respond to the client; gorilla conns
// allow only one concurrent writer.
type connWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *connWriter) Write(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteTyped(w.conn, v)
}

func (w *connWriter) Error(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = ws.WriteError(w.conn, msg)
}

// TestWSHandler hosts test sessions over WebSocket: one session engine per
// connected test screen, living exactly as long as the connection.
type TestWSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewTestWSHandler creates a new TestWSHandler.
func NewTestWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *TestWSHandler {
	return &TestWSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "test_ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/v1/tests/:paper_id?token=...
// Upgrades to WebSocket and runs one test session end to end.
func (h *TestWSHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	paperID, err := uuid.Parse(c.Param("paper_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paper ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	writer := &connWriter{conn: conn}

	engine, payload, err := h.sessionService.CreateEngine(c.Request.Context(), claims.UserID, paperID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writer.Error("paper not found")
		case errors.Is(err, service.ErrNoQuestions):
			writer.Error("paper has no questions")
		default:
			h.log.Error().Err(err).Str("paper_id", paperID.String()).Msg("session setup failed")
			writer.Error("could not prepare session")
		}
		return
	}
	// Close aborts a still-active session when the connection drops, so a
	// killed app never leaves a ticking engine behind.
	defer engine.Close()

	wsLog := h.log.With().
		Str("user_id", claims.UserID.String()).
		Str("paper_id", paperID.String()).
		Logger()

	wsLog.Info().Msg("Test screen connected")

	done := make(chan struct{})
	defer close(done)
	go h.pumpEvents(writer, engine, done)

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionStart:
			h.handleStart(c.Request.Context(), writer, engine, claims.UserID, payload)
		case ws.ActionAnswer:
			h.handleAnswer(writer, engine, &msg)
		case ws.ActionNext:
			if err := engine.Next(context.Background()); err != nil && !isLoadError(err) {
				writer.Error("session is not active")
			}
		case ws.ActionPrevious:
			if err := engine.Previous(context.Background()); err != nil && !isLoadError(err) {
				writer.Error("session is not active")
			}
		case ws.ActionSubmit:
			if _, err := engine.Submit(); err != nil {
				writer.Error("session is not active")
			}
		case ws.ActionLeave:
			// ExitPrompt is emitted as an event; ExitAllowed needs no reply.
			engine.RequestExit()
		case ws.ActionLeaveConfirm:
			if err := engine.ConfirmExit(); err != nil {
				writer.Error("no leave prompt to confirm")
			}
		case ws.ActionLeaveCancel:
			engine.CancelExit()
		case ws.ActionFocus:
			engine.Focus()
		case ws.ActionBlur:
			engine.Blur()
		case ws.ActionAudioPlay:
			engine.Audio().Play()
		case ws.ActionAudioPause:
			engine.Audio().Pause()
		case ws.ActionAudioReplay:
			engine.Audio().SeekToStart()
		case ws.ActionAudioReload:
			if err := engine.ReloadAudio(context.Background()); err != nil && !isLoadError(err) {
				writer.Error("session is not active")
			}
		case ws.ActionPing:
			_ = writer.Write(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			writer.Error("unknown action: " + string(msg.Action))
		}
	}
}

func (h *TestWSHandler) handleStart(ctx context.Context, writer *connWriter, engine *session.Engine, userID uuid.UUID, payload *model.PaperPayload) {
	hasSub := h.sessionService.HasActiveSubscription(ctx, userID)
	if err := engine.Start(ctx, hasSub); err != nil {
		switch {
		case errors.Is(err, session.ErrAccessDenied):
			writer.Error("an active subscription is required for this paper")
		case errors.Is(err, session.ErrAlreadyStarted):
			writer.Error("session already started")
		case errors.Is(err, session.ErrNoQuestions):
			writer.Error("paper has no questions")
		default:
			writer.Error("could not start session")
		}
		return
	}

	_ = writer.Write(ws.SessionResponse{
		Event:            ws.EventSession,
		Paper:            payload,
		RemainingSeconds: engine.RemainingSeconds(),
	})
}

func (h *TestWSHandler) handleAnswer(writer *connWriter, engine *session.Engine, msg *ws.RequestPayload) {
	if msg.QuestionID == "" || msg.Option == nil {
		writer.Error("question_id and option are required")
		return
	}

	if err := engine.SelectAnswer(msg.QuestionID, *msg.Option); err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidOption):
			writer.Error("invalid question or option")
		default:
			writer.Error("session is not active")
		}
	}
}

// pumpEvents forwards engine events to the client until the connection
// handler signals done.
func (h *TestWSHandler) pumpEvents(writer *connWriter, engine *session.Engine, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev := <-engine.Events():
			var out interface{}
			switch ev.Type {
			case session.EventTick:
				out = ws.TickResponse{Event: ws.EventTick, RemainingSeconds: ev.RemainingSeconds}
			case session.EventQuestion:
				out = ws.QuestionResponse{Event: ws.EventQuestion, Index: ev.QuestionIndex}
			case session.EventAudio:
				out = ws.AudioResponse{Event: ws.EventAudio, Audio: ev.Audio}
			case session.EventExitPrompt:
				out = ws.ExitPromptResponse{Event: ws.EventExitPrompt}
			case session.EventFinalized:
				out = ws.FinalizedResponse{Event: ws.EventFinalized, Result: ev.Result}
			case session.EventAborted:
				out = ws.AbortedResponse{Event: ws.EventAborted}
			default:
				continue
			}
			if err := writer.Write(out); err != nil {
				return
			}
		}
	}
}

func isLoadError(err error) bool {
	var loadErr *session.LoadError
	return errors.As(err, &loadErr)
}
