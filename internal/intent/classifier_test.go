package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-core/internal/common/logger"
)

type stubTier2 struct {
	result *ParsedCommand
	err    error
	calls  int
}

func (s *stubTier2) Parse(ctx context.Context, utterance string) (*ParsedCommand, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubHealth struct{ healthy bool }

func (s stubHealth) Healthy() bool { return s.healthy }

func TestClassifyPatternTier(t *testing.T) {
	tests := []struct {
		name       string
		utterance  string
		wantIntent Category
		wantSlots  map[string]string
	}{
		{
			name:       "messaging with body",
			utterance:  "message mom that I'll be late",
			wantIntent: Messaging,
			wantSlots:  map[string]string{"recipient": "mom", "body": "I'll be late"},
		},
		{
			name:       "messaging send to",
			utterance:  "send a message to Shivam clg",
			wantIntent: Messaging,
			wantSlots:  map[string]string{"recipient": "Shivam clg"},
		},
		{
			name:       "phone call",
			utterance:  "call dad",
			wantIntent: Phone,
			wantSlots:  map[string]string{"recipient": "dad"},
		},
		{
			name:       "app launch",
			utterance:  "open spotify",
			wantIntent: AppLaunch,
			wantSlots:  map[string]string{"app": "spotify"},
		},
		{
			name:       "web search",
			utterance:  "search for weather in pune",
			wantIntent: WebSearch,
			wantSlots:  map[string]string{"query": "weather in pune"},
		},
		{
			name:       "payment with amount",
			utterance:  "pay 500 to ramesh",
			wantIntent: Payment,
			wantSlots:  map[string]string{"amount": "500", "recipient": "ramesh"},
		},
		{
			name:       "file lookup",
			utterance:  "find my resume",
			wantIntent: FileLookup,
		},
		{
			name:       "open with file keyword",
			utterance:  "open file resume.pdf",
			wantIntent: FileLookup,
			wantSlots:  map[string]string{"query": "resume.pdf"},
		},
		{
			name:       "open the file",
			utterance:  "open the file report.pdf",
			wantIntent: FileLookup,
			wantSlots:  map[string]string{"query": "report.pdf"},
		},
		{
			name:       "open with trailing file keyword",
			utterance:  "open my resume file",
			wantIntent: FileLookup,
			wantSlots:  map[string]string{"query": "resume"},
		},
		{
			name:       "open with extension",
			utterance:  "open budget.xlsx",
			wantIntent: FileLookup,
			wantSlots:  map[string]string{"query": "budget.xlsx"},
		},
		{
			name:       "bare open still launches app",
			utterance:  "open chrome",
			wantIntent: AppLaunch,
			wantSlots:  map[string]string{"app": "chrome"},
		},
		{
			name:       "greeting",
			utterance:  "hello there",
			wantIntent: Conversation,
		},
	}

	tier2 := &stubTier2{}
	c := NewClassifier(tier2, stubHealth{healthy: true}, logger.NewNoOpLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := c.Classify(context.Background(), tt.utterance)
			require.NotNil(t, parsed)
			assert.Equal(t, tt.wantIntent, parsed.Intent)
			assert.Equal(t, 1.0, parsed.Confidence)
			for k, v := range tt.wantSlots {
				assert.Equal(t, v, parsed.Slots[k], "slot %s", k)
			}
		})
	}

	// Pattern hits must never reach the fallback tier.
	assert.Zero(t, tier2.calls)
}

func TestClassifyFallsBackToTier2(t *testing.T) {
	tier2 := &stubTier2{
		result: &ParsedCommand{Intent: Calendar, Confidence: 0.82},
	}
	c := NewClassifier(tier2, stubHealth{healthy: true}, logger.NewNoOpLogger())

	parsed := c.Classify(context.Background(), "I need to meet the dentist sometime next week")
	assert.Equal(t, Calendar, parsed.Intent)
	assert.Equal(t, 0.82, parsed.Confidence)
	assert.Equal(t, 1, tier2.calls)
}

func TestClassifyDegradesWhenUnhealthy(t *testing.T) {
	tier2 := &stubTier2{
		result: &ParsedCommand{Intent: Calendar, Confidence: 0.9},
	}
	c := NewClassifier(tier2, stubHealth{healthy: false}, logger.NewNoOpLogger())

	parsed := c.Classify(context.Background(), "something completely unparseable xyzzy")
	assert.Equal(t, Conversation, parsed.Intent)
	assert.Zero(t, parsed.Confidence)
	assert.Zero(t, tier2.calls, "unhealthy backend must not be called")
}

func TestClassifyDegradesOnTier2Error(t *testing.T) {
	tier2 := &stubTier2{err: errors.New("connection refused")}
	c := NewClassifier(tier2, stubHealth{healthy: true}, logger.NewNoOpLogger())

	parsed := c.Classify(context.Background(), "unparseable gibberish qwerty")
	assert.Equal(t, Conversation, parsed.Intent)
	assert.Zero(t, parsed.Confidence)
}

func TestClassifyRejectsUnknownTier2Intent(t *testing.T) {
	tier2 := &stubTier2{
		result: &ParsedCommand{Intent: Category("teleportation"), Confidence: 0.99},
	}
	c := NewClassifier(tier2, stubHealth{healthy: true}, logger.NewNoOpLogger())

	parsed := c.Classify(context.Background(), "beam me up xyzzy")
	assert.Equal(t, Conversation, parsed.Intent)
}

func TestClassifyNilTier2(t *testing.T) {
	c := NewClassifier(nil, nil, logger.NewNoOpLogger())
	parsed := c.Classify(context.Background(), "total gibberish zzz")
	assert.Equal(t, Conversation, parsed.Intent)
}
