package executors

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/executor"
)

// FileLookupExecutor searches the configured roots for a file whose
// name contains the query. When several match, the shortest basename
// wins, which keeps repeated lookups deterministic.
type FileLookupExecutor struct {
	roots []string
	log   logger.Logger
}

func NewFileLookupExecutor(roots []string, log logger.Logger) *FileLookupExecutor {
	return &FileLookupExecutor{roots: roots, log: log}
}

func (e *FileLookupExecutor) Name() string { return "file_lookup" }

func (e *FileLookupExecutor) Execute(ctx context.Context, params map[string]string) (*executor.Result, error) {
	query := strings.ToLower(strings.TrimSpace(params["query"]))
	if query == "" {
		query = extractFileQuery(params["utterance"])
	}
	if query == "" {
		return nil, stderrors.NewMissingParameterError("file name")
	}

	var bestPath, bestName string
	for _, root := range e.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				return nil
			}
			name := strings.ToLower(d.Name())
			if !strings.Contains(name, query) {
				return nil
			}
			if bestName == "" || len(name) < len(bestName) {
				bestPath, bestName = path, name
			}
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.WithError(err).Warn("file search root skipped", map[string]interface{}{
				"root": root,
			})
		}
	}

	if bestPath == "" {
		return &executor.Result{
			Success: false,
			Message: fmt.Sprintf("I couldn't find a file matching %q", query),
		}, nil
	}

	return &executor.Result{
		Success: true,
		Message: fmt.Sprintf("Found %s", filepath.Base(bestPath)),
		Payload: map[string]string{
			"path": bestPath,
			"name": filepath.Base(bestPath),
		},
	}, nil
}

// extractFileQuery pulls a usable search term out of a raw utterance
// like "find my resume pdf" when the pattern tier captured no slot.
func extractFileQuery(utterance string) string {
	fields := strings.Fields(strings.ToLower(utterance))
	var kept []string
	skip := map[string]struct{}{
		"find": {}, "locate": {}, "get": {}, "the": {}, "my": {},
		"file": {}, "document": {}, "a": {}, "an": {},
	}
	for _, f := range fields {
		if _, ok := skip[f]; ok {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
