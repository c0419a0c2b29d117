package executors

import (
	"context"
	"strings"

	"assistant-core/internal/common/logger"
	"assistant-core/internal/executor"
	"assistant-core/internal/memory"
)

// ConversationExecutor handles chat-style commands and anything the
// classifier could not place elsewhere. When a memory store is wired,
// recent exchanges season the reply.
type ConversationExecutor struct {
	memory *memory.Store
	log    logger.Logger
}

func NewConversationExecutor(mem *memory.Store, log logger.Logger) *ConversationExecutor {
	return &ConversationExecutor{memory: mem, log: log}
}

func (e *ConversationExecutor) Name() string { return "conversation" }

func (e *ConversationExecutor) Execute(ctx context.Context, params map[string]string) (*executor.Result, error) {
	utterance := strings.ToLower(strings.TrimSpace(params["utterance"]))

	reply := e.cannedReply(utterance)
	if reply == "" {
		reply = "I'm not sure how to act on that, but I'm listening. Try asking me to message, call, or search for something."
		if e.memory != nil {
			if recent, err := e.memory.Recent(ctx, params["session_id"], 1); err == nil && len(recent) > 0 {
				reply = "I didn't catch an action there. We were just talking about: " + recent[0].Utterance
			}
		}
	}

	return &executor.Result{
		Success: true,
		Message: reply,
	}, nil
}

func (e *ConversationExecutor) cannedReply(utterance string) string {
	switch {
	case utterance == "":
		return "I didn't hear anything. What can I do for you?"
	case strings.HasPrefix(utterance, "hi") || strings.HasPrefix(utterance, "hello") || strings.HasPrefix(utterance, "hey"):
		return "Hello! What can I do for you?"
	case strings.Contains(utterance, "how are you"):
		return "Doing well and ready to help. What do you need?"
	case strings.HasPrefix(utterance, "thank"):
		return "Anytime!"
	case strings.HasPrefix(utterance, "good morning"):
		return "Good morning! What's first on the list?"
	case strings.HasPrefix(utterance, "good afternoon") || strings.HasPrefix(utterance, "good evening"):
		return "Hello! What can I help you with?"
	default:
		return ""
	}
}
