// Package coordinator runs a classified command end to end: single
// dispatch for ordinary commands, a producer/consumer pipeline when the
// utterance describes two dependent steps.
package coordinator

import (
	"context"
	"time"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/common/metrics"
	"assistant-core/internal/executor"
	"assistant-core/internal/intent"
	"assistant-core/internal/memory"
)

// WorkflowRequest is one command entering the coordinator, already
// tagged with the correlation id the transport assigned.
type WorkflowRequest struct {
	CorrelationID string
	SessionID     string
	Utterance     string
	Origin        string
	ReceivedAt    time.Time
}

// ExecutionResult is what goes back over the wire, one per executed
// step, all carrying the request's correlation id.
type ExecutionResult struct {
	CorrelationID string            `json:"correlation_id"`
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	Intent        string            `json:"intent"`
	AgentUsed     string            `json:"agent_used"`
	Payload       map[string]string `json:"payload,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Coordinator owns classification, pipeline detection, and dispatch.
type Coordinator struct {
	classifier      *intent.Classifier
	registry        *executor.Registry
	memory          *memory.Store
	executorTimeout time.Duration
	log             logger.Logger
}

func New(classifier *intent.Classifier, registry *executor.Registry, mem *memory.Store, executorTimeout time.Duration, log logger.Logger) *Coordinator {
	return &Coordinator{
		classifier:      classifier,
		registry:        registry,
		memory:          mem,
		executorTimeout: executorTimeout,
		log:             log,
	}
}

// Run processes one request and returns its results: one element for a
// single command, one per completed step for a pipeline. A pipeline
// whose producing step fails returns exactly one aborted result and
// never invokes the consuming step.
func (c *Coordinator) Run(ctx context.Context, req WorkflowRequest) []ExecutionResult {
	start := time.Now()
	log := c.log.WithFields(map[string]interface{}{
		"correlation_id": req.CorrelationID,
		"origin":         req.Origin,
	})

	results := c.run(ctx, req, log)

	for _, r := range results {
		status := "success"
		if !r.Success {
			status = "failure"
		}
		metrics.CommandsProcessed.WithLabelValues(r.Intent, status).Inc()
		metrics.CommandDuration.WithLabelValues(r.Intent).Observe(time.Since(start).Seconds())
	}
	c.remember(ctx, req, results)

	log.Info("workflow completed", map[string]interface{}{
		"steps":       len(results),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return results
}

func (c *Coordinator) run(ctx context.Context, req WorkflowRequest, log logger.Logger) []ExecutionResult {
	if pipe, ok := c.detectPipeline(req.Utterance); ok {
		log.Info("pipeline detected", map[string]interface{}{
			"producer": string(pipe.Producer.Intent),
			"consumer": string(pipe.Consumer.Intent),
		})
		return c.runPipeline(ctx, req, pipe)
	}

	parsed := c.classifier.Classify(ctx, req.Utterance)
	log.Debug("command classified", map[string]interface{}{
		"intent":     string(parsed.Intent),
		"confidence": parsed.Confidence,
	})
	return []ExecutionResult{c.dispatch(ctx, req, parsed, nil)}
}

// dispatch runs one executor under its own deadline, converting every
// failure mode into a user-presentable result.
func (c *Coordinator) dispatch(ctx context.Context, req WorkflowRequest, parsed *intent.ParsedCommand, extra map[string]string) ExecutionResult {
	exec, err := c.registry.Lookup(parsed.Intent)
	if err != nil {
		return c.failure(req, parsed, "", err)
	}

	params := make(map[string]string, len(parsed.Slots)+len(extra)+2)
	for k, v := range parsed.Slots {
		params[k] = v
	}
	for k, v := range extra {
		params[k] = v
	}
	params["utterance"] = parsed.Utterance
	if req.SessionID != "" {
		params["session_id"] = req.SessionID
	}

	execCtx, cancel := context.WithTimeout(ctx, c.executorTimeout)
	defer cancel()

	result, err := c.safeExecute(execCtx, exec, params)
	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			err = stderrors.NewExecutorTimeoutError(exec.Name())
		}
		return c.failure(req, parsed, exec.Name(), err)
	}

	return ExecutionResult{
		CorrelationID: req.CorrelationID,
		Success:       result.Success,
		Message:       result.Message,
		Intent:        string(parsed.Intent),
		AgentUsed:     exec.Name(),
		Payload:       result.Payload,
		Timestamp:     time.Now().UTC(),
	}
}

// safeExecute shields the coordinator from a panicking executor.
func (c *Coordinator) safeExecute(ctx context.Context, exec executor.Executor, params map[string]string) (result *executor.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("executor panicked", map[string]interface{}{
				"executor": exec.Name(),
				"panic":    r,
			})
			result = nil
			err = stderrors.NewExecutorPanicError(exec.Name(), r)
		}
	}()
	return exec.Execute(ctx, params)
}

func (c *Coordinator) failure(req WorkflowRequest, parsed *intent.ParsedCommand, executorName string, err error) ExecutionResult {
	stdErr := stderrors.AsStandard(err)
	if executorName != "" {
		metrics.ExecutorFailures.WithLabelValues(executorName, string(stdErr.Code)).Inc()
	}
	c.log.WithError(stdErr).Warn("command failed", map[string]interface{}{
		"correlation_id": req.CorrelationID,
		"intent":         string(parsed.Intent),
		"code":           string(stdErr.Code),
	})
	return ExecutionResult{
		CorrelationID: req.CorrelationID,
		Success:       false,
		Message:       stdErr.Message,
		Intent:        string(parsed.Intent),
		AgentUsed:     executorName,
		Timestamp:     time.Now().UTC(),
	}
}

// remember is advisory. A dead memory store never fails a command.
func (c *Coordinator) remember(ctx context.Context, req WorkflowRequest, results []ExecutionResult) {
	if c.memory == nil || req.SessionID == "" || len(results) == 0 {
		return
	}
	last := results[len(results)-1]
	err := c.memory.Append(ctx, req.SessionID, memory.Exchange{
		Utterance: req.Utterance,
		Response:  last.Message,
	})
	if err != nil {
		c.log.WithError(err).Debug("conversation memory write skipped", nil)
	}
}
