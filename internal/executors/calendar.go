package executors

import (
	"context"
	"net/url"

	"assistant-core/internal/common/logger"
	"assistant-core/internal/executor"
)

// CalendarExecutor builds a Google Calendar event-creation link from
// whatever detail text the command carried.
type CalendarExecutor struct {
	log logger.Logger
}

func NewCalendarExecutor(log logger.Logger) *CalendarExecutor {
	return &CalendarExecutor{log: log}
}

func (e *CalendarExecutor) Name() string { return "calendar" }

func (e *CalendarExecutor) Execute(ctx context.Context, params map[string]string) (*executor.Result, error) {
	details := params["details"]
	if details == "" {
		details = params["utterance"]
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	if details != "" {
		q.Set("text", details)
	}
	link := "https://calendar.google.com/calendar/render?" + q.Encode()

	msg := "Opening calendar to create your event"
	if details != "" {
		msg = "Creating a calendar event: " + details
	}

	return &executor.Result{
		Success: true,
		Message: msg,
		Payload: map[string]string{"url": link},
	}, nil
}
