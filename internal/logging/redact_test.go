package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactAuthorizationHeader(t *testing.T) {
	line := `sending request with Authorization: Bearer abc123.def-456`
	got := Redact(line)
	require.NotContains(t, got, "abc123.def-456")
	require.Contains(t, got, "Bearer "+RedactedPlaceholder)
}

func TestRedactBareBearerToken(t *testing.T) {
	got := Redact("retrying with bearer xyz789")
	require.Equal(t, "retrying with bearer "+RedactedPlaceholder, got)
}

func TestRedactPasswordKeyValue(t *testing.T) {
	got := Redact(`login body: {"username":"alice","password":"hunter2"}`)
	require.NotContains(t, got, "hunter2")
	require.Contains(t, got, "alice")
}

func TestRedactLeavesPlainLinesAlone(t *testing.T) {
	line := "poll 17 applied 3 tasks"
	require.Equal(t, line, Redact(line))
}
