package executors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "assistant-core/internal/common/errors"
	"assistant-core/internal/common/logger"
	"assistant-core/internal/resolver"
)

func testContacts() *resolver.Matcher {
	return resolver.NewMatcher(map[string]string{
		"Mom":          "+10000000001",
		"Shivam Patel": "+10000000002",
	}, []string{"clg", "college", "sir", "mam"}, resolver.TieBreakShortestLabel)
}

func testEmailContacts() *resolver.Matcher {
	return resolver.NewMatcher(map[string]string{
		"Shivam Patel": "shivam@example.com",
	}, []string{"clg", "college"}, resolver.TieBreakShortestLabel)
}

func TestWhatsAppExecutor(t *testing.T) {
	e := NewWhatsAppExecutor(testContacts(), logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{
		"recipient": "mom",
		"body":      "I'll be late",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "Mom")
	assert.Equal(t, "https://wa.me/10000000001?text=I%27ll+be+late", res.Payload["url"])
}

func TestWhatsAppExecutorFuzzyRecipient(t *testing.T) {
	e := NewWhatsAppExecutor(testContacts(), logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{
		"recipient": "Shivam clg",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Message, "Shivam Patel")
	assert.Equal(t, "https://wa.me/10000000002", res.Payload["url"])
}

func TestWhatsAppExecutorAppendsAttachment(t *testing.T) {
	e := NewWhatsAppExecutor(testContacts(), logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{
		"recipient":  "mom",
		"attachment": "/home/user/docs/report.pdf",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Payload["url"], "text=")
	assert.Contains(t, res.Payload["url"], "report.pdf")
}

func TestWhatsAppExecutorUnknownRecipient(t *testing.T) {
	e := NewWhatsAppExecutor(testContacts(), logger.NewNoOpLogger())

	_, err := e.Execute(context.Background(), map[string]string{
		"recipient": "complete stranger",
	})
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeEntityNotFound, stderrors.AsStandard(err).Code)
}

func TestWhatsAppExecutorMissingRecipient(t *testing.T) {
	e := NewWhatsAppExecutor(testContacts(), logger.NewNoOpLogger())

	_, err := e.Execute(context.Background(), map[string]string{})
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeMissingParameter, stderrors.AsStandard(err).Code)
}

func TestEmailExecutor(t *testing.T) {
	e := NewEmailExecutor(testEmailContacts(), logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{
		"recipient": "shivam",
		"body":      "project update",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Payload["url"], "mailto:shivam@example.com")
	assert.Contains(t, res.Payload["url"], "subject=project+update")
}

func TestPhoneExecutor(t *testing.T) {
	e := NewPhoneExecutor(testContacts(), logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{"recipient": "dad"})
	require.Error(t, err)
	assert.Nil(t, res)

	res, err = e.Execute(context.Background(), map[string]string{"recipient": "mom"})
	require.NoError(t, err)
	assert.Equal(t, "tel:+10000000001", res.Payload["url"])
}

func TestPaymentExecutor(t *testing.T) {
	upi := resolver.NewMatcher(map[string]string{
		"Ramesh": "ramesh@upi",
	}, nil, resolver.TieBreakShortestLabel)
	e := NewPaymentExecutor(upi, logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{
		"recipient": "ramesh",
		"amount":    "500",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Message, "500")
	assert.Contains(t, res.Payload["url"], "upi://pay?")
	assert.Contains(t, res.Payload["url"], "am=500")
	assert.Contains(t, res.Payload["url"], "pa=ramesh%40upi")
}

func TestCalendarExecutor(t *testing.T) {
	e := NewCalendarExecutor(logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{
		"details": "dentist tomorrow at 10",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Payload["url"], "calendar.google.com")
	assert.Contains(t, res.Payload["url"], "text=dentist+tomorrow+at+10")
}

func TestWebSearchExecutor(t *testing.T) {
	e := NewWebSearchExecutor(logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{
		"query": "weather in pune",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/search?q=weather+in+pune", res.Payload["url"])
}

func TestWebSearchExecutorYouTube(t *testing.T) {
	e := NewWebSearchExecutor(logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{
		"query": "lo-fi beats on youtube",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/results?search_query=lo-fi+beats", res.Payload["url"])
}

func TestAppLaunchExecutor(t *testing.T) {
	apps := resolver.NewMatcher(map[string]string{
		"Spotify": "spotify://",
		"Chrome":  "chrome://",
	}, nil, resolver.TieBreakShortestLabel)
	e := NewAppLaunchExecutor(apps, logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{"app": "spot"})
	require.NoError(t, err)
	assert.Equal(t, "Spotify", res.Payload["app"])
	assert.Equal(t, "spotify://", res.Payload["target"])

	_, err = e.Execute(context.Background(), map[string]string{"app": "minesweeper"})
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeEntityNotFound, stderrors.AsStandard(err).Code)
}

func TestFileLookupExecutor(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "resume.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "resume_old_draft.pdf"), []byte("x"), 0o644))

	e := NewFileLookupExecutor([]string{root}, logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{"query": "resume"})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "resume.pdf", res.Payload["name"], "shortest matching name wins")
	assert.Equal(t, filepath.Join(root, "docs", "resume.pdf"), res.Payload["path"])
}

func TestFileLookupExecutorQueryFromUtterance(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "budget.xlsx"), []byte("x"), 0o644))

	e := NewFileLookupExecutor([]string{root}, logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{
		"utterance": "find my budget file",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "budget.xlsx", res.Payload["name"])
}

func TestFileLookupExecutorNotFound(t *testing.T) {
	e := NewFileLookupExecutor([]string{t.TempDir()}, logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{"query": "unicorn"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "couldn't find")
}

func TestConversationExecutorGreeting(t *testing.T) {
	e := NewConversationExecutor(nil, logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{"utterance": "hello there"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "Hello")
}

func TestConversationExecutorDefaultReply(t *testing.T) {
	e := NewConversationExecutor(nil, logger.NewNoOpLogger())

	res, err := e.Execute(context.Background(), map[string]string{"utterance": "zzz qqq unknowable"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Message)
}
