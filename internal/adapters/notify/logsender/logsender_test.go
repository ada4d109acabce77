package logsender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSend_LogsCode(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(zap.New(core))

	require.NoError(t, s.Send(context.Background(), "+258841234567", "123456"))

	entries := logs.FilterMessage("verification code (dev sender)").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "+258841234567", fields["contact"])
	assert.Equal(t, "123456", fields["code"])
}
