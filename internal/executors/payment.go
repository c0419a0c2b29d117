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

// PaymentExecutor builds UPI payment links. The contact directory here
// maps names onto UPI handles or phone numbers.
type PaymentExecutor struct {
	contacts *resolver.Matcher
	log      logger.Logger
}

func NewPaymentExecutor(contacts *resolver.Matcher, log logger.Logger) *PaymentExecutor {
	return &PaymentExecutor{contacts: contacts, log: log}
}

func (e *PaymentExecutor) Name() string { return "payment" }

func (e *PaymentExecutor) Execute(ctx context.Context, params map[string]string) (*executor.Result, error) {
	recipient := params["recipient"]
	if recipient == "" {
		return nil, stderrors.NewMissingParameterError("recipient")
	}

	hit, err := e.contacts.Resolve(recipient)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("pa", hit.Canonical)
	q.Set("pn", hit.Label)
	amount := params["amount"]
	if amount != "" {
		q.Set("am", amount)
		q.Set("cu", "INR")
	}
	link := "upi://pay?" + q.Encode()

	msg := fmt.Sprintf("Starting a payment to %s", hit.Label)
	if amount != "" {
		msg = fmt.Sprintf("Paying %s to %s", amount, hit.Label)
	}

	return &executor.Result{
		Success: true,
		Message: msg,
		Payload: map[string]string{
			"url":     link,
			"contact": hit.Label,
		},
	}, nil
}
