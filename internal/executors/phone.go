package executors

import (
	"context"
	"fmt"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/executor"
	"assistant-core/internal/resolver"
)

// PhoneExecutor builds tel links for call commands.
type PhoneExecutor struct {
	contacts *resolver.Matcher
	log      logger.Logger
}

func NewPhoneExecutor(contacts *resolver.Matcher, log logger.Logger) *PhoneExecutor {
	return &PhoneExecutor{contacts: contacts, log: log}
}

func (e *PhoneExecutor) Name() string { return "phone" }

func (e *PhoneExecutor) Execute(ctx context.Context, params map[string]string) (*executor.Result, error) {
	recipient := params["recipient"]
	if recipient == "" {
		return nil, stderrors.NewMissingParameterError("recipient")
	}

	hit, err := e.contacts.Resolve(recipient)
	if err != nil {
		return nil, err
	}

	return &executor.Result{
		Success: true,
		Message: fmt.Sprintf("Calling %s", hit.Label),
		Payload: map[string]string{
			"url":     "tel:" + hit.Canonical,
			"contact": hit.Label,
		},
	}, nil
}
