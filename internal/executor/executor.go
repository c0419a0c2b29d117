// Package executor defines the contract every action handler satisfies
// and the immutable registry that routes intents onto handlers.
package executor

import "context"

// Result is what an executor hands back to the coordinator. Message is
// user-facing; Payload carries machine-readable outputs (URLs, paths)
// that downstream pipeline steps may consume.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Payload map[string]string `json:"payload,omitempty"`
}

// Executor performs one category of action. Execute returns either a
// result or an error, never both meanings in one value: an error means
// the action could not run, a Result with Success=false means it ran
// and failed in a way worth telling the user about.
type Executor interface {
	Name() string
	Execute(ctx context.Context, params map[string]string) (*Result, error)
}
