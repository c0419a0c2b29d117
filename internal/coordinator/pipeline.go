package coordinator

import (
	"context"
	"strings"
	"time"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/intent"
)

// pipelineSpec is a recognized two-step command: the producer's output
// payload feeds one slot of the consumer.
type pipelineSpec struct {
	Producer *intent.ParsedCommand
	Consumer *intent.ParsedCommand
	// OutputKey names the producer payload entry piped downstream.
	OutputKey string
	// InputSlot names the consumer parameter receiving it.
	InputSlot string
}

// sequencingMarkers, most specific first. Only explicit sequencing
// splits a command; a bare "and" between two unrelated clauses is
// handled only when both halves independently pattern-match.
var sequencingMarkers = []string{" and then ", " then ", " and "}

// allowedPipes maps producer intent to the consumer intents it can
// feed, with the payload key and slot wiring for each pair.
var allowedPipes = map[intent.Category]map[intent.Category]struct {
	outputKey string
	inputSlot string
}{
	intent.FileLookup: {
		intent.Messaging: {outputKey: "path", inputSlot: "attachment"},
		intent.Email:     {outputKey: "path", inputSlot: "attachment"},
	},
}

// detectPipeline splits the utterance on a sequencing marker and
// accepts the split only when both halves deterministically classify
// into an allowed producer/consumer pair. Anything less certain is
// treated as a single command.
func (c *Coordinator) detectPipeline(utterance string) (*pipelineSpec, bool) {
	lower := strings.ToLower(utterance)
	for _, marker := range sequencingMarkers {
		idx := strings.Index(lower, marker)
		if idx < 0 {
			continue
		}
		first := strings.TrimSpace(utterance[:idx])
		second := strings.TrimSpace(utterance[idx+len(marker):])
		if first == "" || second == "" {
			continue
		}

		producer, ok := c.classifier.MatchPattern(first)
		if !ok {
			continue
		}
		consumer, ok := c.classifier.MatchPattern(second)
		if !ok {
			continue
		}
		wiring, ok := allowedPipes[producer.Intent][consumer.Intent]
		if !ok {
			continue
		}
		return &pipelineSpec{
			Producer:  producer,
			Consumer:  consumer,
			OutputKey: wiring.outputKey,
			InputSlot: wiring.inputSlot,
		}, true
	}
	return nil, false
}

// runPipeline executes producer then consumer. A failed producing step
// aborts the whole workflow: the caller gets one aborted result and the
// consumer is never invoked.
func (c *Coordinator) runPipeline(ctx context.Context, req WorkflowRequest, pipe *pipelineSpec) []ExecutionResult {
	producerResult := c.dispatch(ctx, req, pipe.Producer, nil)
	if !producerResult.Success {
		aborted := stderrors.NewWorkflowAbortedError(
			string(pipe.Producer.Intent),
			&stderrors.StandardError{
				Code:    stderrors.ErrCodeExecutorFailed,
				Message: producerResult.Message,
			},
		)
		return []ExecutionResult{{
			CorrelationID: req.CorrelationID,
			Success:       false,
			Message:       aborted.Message,
			Intent:        string(pipe.Producer.Intent),
			AgentUsed:     producerResult.AgentUsed,
			Timestamp:     time.Now().UTC(),
		}}
	}

	piped := map[string]string{}
	if v := producerResult.Payload[pipe.OutputKey]; v != "" {
		piped[pipe.InputSlot] = v
	}
	consumerResult := c.dispatch(ctx, req, pipe.Consumer, piped)

	return []ExecutionResult{producerResult, consumerResult}
}
