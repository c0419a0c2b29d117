package executors

import (
	"context"
	"fmt"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/executor"
	"assistant-core/internal/resolver"
)

// AppLaunchExecutor resolves spoken app names against the configured
// app directory and hands the client the launch target.
type AppLaunchExecutor struct {
	apps *resolver.Matcher
	log  logger.Logger
}

func NewAppLaunchExecutor(apps *resolver.Matcher, log logger.Logger) *AppLaunchExecutor {
	return &AppLaunchExecutor{apps: apps, log: log}
}

func (e *AppLaunchExecutor) Name() string { return "app_launch" }

func (e *AppLaunchExecutor) Execute(ctx context.Context, params map[string]string) (*executor.Result, error) {
	app := params["app"]
	if app == "" {
		return nil, stderrors.NewMissingParameterError("app")
	}

	hit, err := e.apps.Resolve(app)
	if err != nil {
		return nil, err
	}

	return &executor.Result{
		Success: true,
		Message: fmt.Sprintf("Opening %s", hit.Label),
		Payload: map[string]string{
			"app":    hit.Label,
			"target": hit.Canonical,
		},
	}, nil
}
