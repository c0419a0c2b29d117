package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"assistant-core/internal/common/config"
	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/common/metrics"
	"assistant-core/internal/coordinator"
)

// inboundMessage is the wire shape of every client frame.
type inboundMessage struct {
	Type          string `json:"type"`
	Command       string `json:"command,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// outboundResult is one command_result frame. Every result of a
// workflow carries the correlation id of the command that caused it.
type outboundResult struct {
	Type          string                        `json:"type"`
	CorrelationID string                        `json:"correlation_id"`
	Success       bool                          `json:"success"`
	Message       string                        `json:"message"`
	Intent        string                        `json:"intent"`
	AgentUsed     string                        `json:"agent_used"`
	Results       []coordinator.ExecutionResult `json:"results"`
	Timestamp     string                        `json:"timestamp"`
}

type outboundControl struct {
	Type          string `json:"type"`
	CorrelationID string `json:"correlation_id,omitempty"`
	Message       string `json:"message,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// BackendHealth exposes the classifier backend's cached liveness flag
// for the health endpoint.
type BackendHealth interface {
	Healthy() bool
}

// Server hosts the realtime channel and the stateless HTTP surface.
type Server struct {
	coordinator *coordinator.Coordinator
	cfg         config.ChannelConfig
	statelessTO time.Duration
	executors   []string
	backend     BackendHealth
	sessions    *sessionTable
	upgrader    websocket.Upgrader
	log         logger.Logger

	stop chan struct{}
}

func NewServer(coord *coordinator.Coordinator, cfg config.ChannelConfig, statelessTimeout time.Duration, executorNames []string, backend BackendHealth, log logger.Logger) *Server {
	return &Server{
		coordinator: coord,
		cfg:         cfg,
		statelessTO: statelessTimeout,
		executors:   executorNames,
		backend:     backend,
		sessions:    newSessionTable(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log:  log,
		stop: make(chan struct{}),
	}
}

// Start launches the stale-session sweeper.
func (s *Server) Start() {
	interval := time.Duration(s.cfg.SweepIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				maxIdle := time.Duration(s.cfg.StaleAfterSecs) * time.Second
				for _, id := range s.sessions.sweepStale(maxIdle) {
					s.log.Info("stale session closed", map[string]interface{}{
						"session_id": id,
					})
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the sweeper. Open connections drain through their own
// read loops.
func (s *Server) Stop() {
	close(s.stop)
}

// HandleWebSocket upgrades the connection and runs the session until
// the client goes away.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed", nil)
		return
	}

	sess := newSession(conn, s.cfg.CommandBuffer)
	s.sessions.add(sess)
	s.log.Info("session opened", map[string]interface{}{
		"session_id": sess.ID,
		"remote":     r.RemoteAddr,
	})

	// Worker drains the command queue serially. One in-flight workflow
	// per session; results never interleave.
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		for cmd := range sess.commands {
			s.process(sess, cmd)
		}
	}()

	s.readLoop(sess)

	// The connection is gone; anything still queued or in flight must
	// discard rather than write to a dead socket.
	sess.close()
	close(sess.commands)
	<-workerDone

	s.sessions.remove(sess.ID)
	s.log.Info("session closed", map[string]interface{}{
		"session_id": sess.ID,
	})
}

func (s *Server) readLoop(sess *Session) {
	// Clients are expected to ping on the configured heartbeat
	// interval; a connection silent for two intervals is dead.
	grace := 2 * time.Duration(s.cfg.HeartbeatIntervalSecs) * time.Second
	for {
		if grace > 0 {
			sess.conn.SetReadDeadline(time.Now().Add(grace))
		}
		_, raw, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}
		sess.touch()

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendError(sess, "", stderrors.NewInvalidMessageError("frame is not valid JSON"))
			continue
		}

		switch msg.Type {
		case "ping":
			// Heartbeats answer inline, ahead of any queued work.
			s.send(sess, outboundControl{
				Type:      "pong",
				Timestamp: now(),
			})
		case "command":
			if msg.Command == "" {
				s.sendError(sess, msg.CorrelationID, stderrors.NewInvalidMessageError("command text is empty"))
				continue
			}
			correlationID := msg.CorrelationID
			if correlationID == "" {
				correlationID = uuid.New().String()
			}
			if s.cfg.AckEnabled {
				s.send(sess, outboundControl{
					Type:          "ack",
					CorrelationID: correlationID,
					Message:       "Working on it",
					Timestamp:     now(),
				})
			}
			select {
			case sess.commands <- inboundCommand{CorrelationID: correlationID, Utterance: msg.Command}:
			default:
				s.sendError(sess, correlationID, stderrors.NewInvalidMessageError("too many commands in flight"))
			}
		default:
			s.sendError(sess, msg.CorrelationID, stderrors.NewInvalidMessageError("unknown message type: "+msg.Type))
		}
	}
}

// process runs one command and delivers exactly one command_result
// frame for its correlation id.
func (s *Server) process(sess *Session, cmd inboundCommand) {
	results := s.coordinator.Run(context.Background(), coordinator.WorkflowRequest{
		CorrelationID: cmd.CorrelationID,
		SessionID:     sess.ID,
		Utterance:     cmd.Utterance,
		Origin:        "websocket",
		ReceivedAt:    time.Now().UTC(),
	})

	last := results[len(results)-1]
	frame := outboundResult{
		Type:          "command_result",
		CorrelationID: cmd.CorrelationID,
		Success:       last.Success,
		Message:       summarize(results),
		Intent:        last.Intent,
		AgentUsed:     last.AgentUsed,
		Results:       results,
		Timestamp:     now(),
	}

	if sess.closed.Load() {
		s.discard(sess, cmd)
		return
	}
	if err := s.send(sess, frame); err != nil {
		s.discard(sess, cmd)
	}
}

func (s *Server) discard(sess *Session, cmd inboundCommand) {
	metrics.ResultsDiscarded.Inc()
	chanErr := stderrors.NewChannelClosedError(sess.ID)
	s.log.WithError(chanErr).Info("result discarded", map[string]interface{}{
		"correlation_id": cmd.CorrelationID,
	})
}

func (s *Server) send(sess *Session, v interface{}) error {
	if err := sess.writeJSON(v); err != nil {
		return err
	}
	return nil
}

func (s *Server) sendError(sess *Session, correlationID string, stdErr *stderrors.StandardError) {
	s.send(sess, outboundControl{
		Type:          "error",
		CorrelationID: correlationID,
		Message:       stdErr.Message,
		Timestamp:     now(),
	})
}

// summarize joins step messages so a pipeline reads as one sentence.
func summarize(results []coordinator.ExecutionResult) string {
	if len(results) == 1 {
		return results[0].Message
	}
	msg := results[0].Message
	for _, r := range results[1:] {
		msg += ". " + r.Message
	}
	return msg
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
