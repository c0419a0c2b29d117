package executors

import (
	"context"
	"fmt"
	"net/url"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/executor"
	"assistant-core/internal/resolver"
)

// EmailExecutor builds mailto links for email commands. The contact
// directory maps names onto addresses.
type EmailExecutor struct {
	contacts *resolver.Matcher
	log      logger.Logger
}

func NewEmailExecutor(contacts *resolver.Matcher, log logger.Logger) *EmailExecutor {
	return &EmailExecutor{contacts: contacts, log: log}
}

func (e *EmailExecutor) Name() string { return "email" }

func (e *EmailExecutor) Execute(ctx context.Context, params map[string]string) (*executor.Result, error) {
	recipient := params["recipient"]
	if recipient == "" {
		return nil, stderrors.NewMissingParameterError("recipient")
	}

	hit, err := e.contacts.Resolve(recipient)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	if body := params["body"]; body != "" {
		q.Set("subject", body)
	}
	if attachment := params["attachment"]; attachment != "" {
		q.Set("body", "Attachment: "+attachment)
	}

	link := "mailto:" + hit.Canonical
	if encoded := q.Encode(); encoded != "" {
		link += "?" + encoded
	}

	return &executor.Result{
		Success: true,
		Message: fmt.Sprintf("Composing an email to %s", hit.Label),
		Payload: map[string]string{
			"url":     link,
			"contact": hit.Label,
		},
	}, nil
}
