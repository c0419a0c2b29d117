package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"assistant-core/internal/coordinator"
)

type processRequest struct {
	Command       string `json:"command"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type processResponse struct {
	CorrelationID string                        `json:"correlation_id"`
	Success       bool                          `json:"success"`
	Message       string                        `json:"message"`
	Intent        string                        `json:"intent"`
	AgentUsed     string                        `json:"agent_used"`
	Results       []coordinator.ExecutionResult `json:"results"`
	Timestamp     string                        `json:"timestamp"`
}

type healthResponse struct {
	Status            string   `json:"status"`
	Agents            []string `json:"agents"`
	ClassifierBackend string   `json:"classifier_backend"`
	Timestamp         string   `json:"timestamp"`
}

type agentsResponse struct {
	Agents []string `json:"agents"`
}

// Router wires the stateless HTTP surface and the WebSocket endpoint.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.HandleWebSocket)
	r.HandleFunc("/process-command", s.handleProcessCommand).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/agents", s.handleAgents).Methods(http.MethodGet)
	return r
}

// handleProcessCommand is the one-shot alternative to the realtime
// channel: no session, no memory continuity, a hard overall deadline.
func (s *Server) handleProcessCommand(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "body must be JSON with a non-empty command field",
		})
		return
	}

	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.statelessTO)
	defer cancel()

	results := s.coordinator.Run(ctx, coordinator.WorkflowRequest{
		CorrelationID: correlationID,
		Utterance:     req.Command,
		Origin:        "http",
		ReceivedAt:    time.Now().UTC(),
	})

	last := results[len(results)-1]
	writeJSON(w, http.StatusOK, processResponse{
		CorrelationID: correlationID,
		Success:       last.Success,
		Message:       summarize(results),
		Intent:        last.Intent,
		AgentUsed:     last.AgentUsed,
		Results:       results,
		Timestamp:     now(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend := "unknown"
	if s.backend != nil {
		backend = "down"
		if s.backend.Healthy() {
			backend = "up"
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:            "ok",
		Agents:            s.executors,
		ClassifierBackend: backend,
		Timestamp:         now(),
	})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, agentsResponse{Agents: s.executors})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
