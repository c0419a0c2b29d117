// Package executors holds the concrete action handlers. Each one turns
// a parsed command's slots into a deep link or local effect and reports
// a user-facing message describing what happened.
package executors

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/executor"
	"assistant-core/internal/resolver"
)

// WhatsAppExecutor builds wa.me deep links for messaging commands.
type WhatsAppExecutor struct {
	contacts *resolver.Matcher
	log      logger.Logger
}

func NewWhatsAppExecutor(contacts *resolver.Matcher, log logger.Logger) *WhatsAppExecutor {
	return &WhatsAppExecutor{contacts: contacts, log: log}
}

func (e *WhatsAppExecutor) Name() string { return "whatsapp" }

func (e *WhatsAppExecutor) Execute(ctx context.Context, params map[string]string) (*executor.Result, error) {
	recipient := params["recipient"]
	if recipient == "" {
		return nil, stderrors.NewMissingParameterError("recipient")
	}

	hit, err := e.contacts.Resolve(recipient)
	if err != nil {
		return nil, err
	}

	phone := strings.TrimPrefix(hit.Canonical, "+")
	link := "https://wa.me/" + phone
	body := params["body"]
	if attachment := params["attachment"]; attachment != "" {
		if body != "" {
			body += " "
		}
		body += attachment
	}
	if body != "" {
		link += "?text=" + url.QueryEscape(body)
	}

	e.log.Info("whatsapp link built", map[string]interface{}{
		"contact": hit.Label,
	})

	return &executor.Result{
		Success: true,
		Message: fmt.Sprintf("Opening WhatsApp chat with %s", hit.Label),
		Payload: map[string]string{
			"url":     link,
			"contact": hit.Label,
		},
	}, nil
}
