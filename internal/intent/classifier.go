package intent

import (
	"context"

	"assistant-core/internal/common/logger"
	"assistant-core/internal/common/metrics"
)

// Tier2Client calls the remote probabilistic classifier.
type Tier2Client interface {
	Parse(ctx context.Context, utterance string) (*ParsedCommand, error)
}

// Health reports whether the Tier 2 backend is currently usable.
type Health interface {
	Healthy() bool
}

// Classifier routes an utterance through the deterministic pattern tier
// and, only on a miss, through the probabilistic backend. Classification
// never returns an error: any Tier 2 failure degrades to Conversation
// with zero confidence.
type Classifier struct {
	patterns *patternSet
	tier2    Tier2Client
	health   Health
	log      logger.Logger
}

func NewClassifier(tier2 Tier2Client, health Health, log logger.Logger) *Classifier {
	return &Classifier{
		patterns: newPatternSet(),
		tier2:    tier2,
		health:   health,
		log:      log,
	}
}

// MatchPattern runs only the deterministic tier. Used when the caller
// needs certainty, not a best guess: multi-step detection must never
// split a command on a probabilistic hunch.
func (c *Classifier) MatchPattern(utterance string) (*ParsedCommand, bool) {
	return c.patterns.match(utterance)
}

func (c *Classifier) Classify(ctx context.Context, utterance string) *ParsedCommand {
	if parsed, ok := c.patterns.match(utterance); ok {
		c.log.Debug("pattern tier matched", map[string]interface{}{
			"intent": string(parsed.Intent),
		})
		return parsed
	}

	if c.tier2 == nil || (c.health != nil && !c.health.Healthy()) {
		metrics.Tier2Calls.WithLabelValues("skipped_unhealthy").Inc()
		c.log.Warn("fallback classifier unavailable, degrading to conversation", map[string]interface{}{
			"utterance_len": len(utterance),
		})
		return c.degrade(utterance)
	}

	parsed, err := c.tier2.Parse(ctx, utterance)
	if err != nil {
		metrics.Tier2Calls.WithLabelValues("error").Inc()
		c.log.WithError(err).Warn("fallback classification failed, degrading to conversation", nil)
		return c.degrade(utterance)
	}
	if !parsed.Intent.Valid() {
		metrics.Tier2Calls.WithLabelValues("invalid_intent").Inc()
		c.log.Warn("fallback classifier returned unknown intent", map[string]interface{}{
			"intent": string(parsed.Intent),
		})
		return c.degrade(utterance)
	}

	metrics.Tier2Calls.WithLabelValues("ok").Inc()
	parsed.Utterance = utterance
	return parsed
}

// degrade is the universal safe default: treat the command as chat.
func (c *Classifier) degrade(utterance string) *ParsedCommand {
	return &ParsedCommand{
		Intent:     Conversation,
		Confidence: 0,
		Utterance:  utterance,
	}
}
