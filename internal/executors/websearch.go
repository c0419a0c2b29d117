package executors

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/executor"
)

// WebSearchExecutor builds a search-engine URL for the query. Queries
// that mention YouTube go to a YouTube search instead.
type WebSearchExecutor struct {
	log logger.Logger
}

func NewWebSearchExecutor(log logger.Logger) *WebSearchExecutor {
	return &WebSearchExecutor{log: log}
}

func (e *WebSearchExecutor) Name() string { return "web_search" }

func (e *WebSearchExecutor) Execute(ctx context.Context, params map[string]string) (*executor.Result, error) {
	query := params["query"]
	if query == "" {
		query = params["utterance"]
	}
	if query == "" {
		return nil, stderrors.NewMissingParameterError("query")
	}

	lower := strings.ToLower(query)
	if strings.Contains(lower, "youtube") {
		cleaned := strings.TrimSpace(strings.NewReplacer(
			"on youtube", "", "youtube", "",
		).Replace(lower))
		if cleaned == "" {
			cleaned = query
		}
		return &executor.Result{
			Success: true,
			Message: fmt.Sprintf("Searching YouTube for %q", cleaned),
			Payload: map[string]string{
				"url": "https://www.youtube.com/results?search_query=" + url.QueryEscape(cleaned),
			},
		}, nil
	}

	link := "https://www.google.com/search?q=" + url.QueryEscape(query)

	return &executor.Result{
		Success: true,
		Message: fmt.Sprintf("Searching the web for %q", query),
		Payload: map[string]string{"url": link},
	}, nil
}
