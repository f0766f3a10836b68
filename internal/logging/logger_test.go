package logging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Debug(format string, args ...any) { r.record("DEBUG", format, args...) }
func (r *recordingLogger) Info(format string, args ...any)  { r.record("INFO", format, args...) }
func (r *recordingLogger) Warn(format string, args ...any)  { r.record("WARN", format, args...) }
func (r *recordingLogger) Error(format string, args ...any) { r.record("ERROR", format, args...) }

func (r *recordingLogger) record(level, format string, args ...any) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func TestOrNopReturnsNopForNil(t *testing.T) {
	logger := OrNop(nil)
	require.NotNil(t, logger)
	logger.Info("must not panic")

	var typed *recordingLogger
	require.True(t, IsNil(Logger(typed)))
	OrNop(typed).Warn("still must not panic")
}

func TestMultiFansOutToEveryLogger(t *testing.T) {
	first := &recordingLogger{}
	second := &recordingLogger{}

	logger := Multi(first, nil, second)
	logger.Info("tick %d", 3)

	require.Equal(t, []string{"INFO tick 3"}, first.lines)
	require.Equal(t, []string{"INFO tick 3"}, second.lines)
}

func TestMultiFlattensNestedMulti(t *testing.T) {
	first := &recordingLogger{}
	second := &recordingLogger{}

	logger := Multi(Multi(first), second)
	logger.Error("boom")

	require.Equal(t, []string{"ERROR boom"}, first.lines)
	require.Equal(t, []string{"ERROR boom"}, second.lines)
}

func TestMultiOfNothingIsNop(t *testing.T) {
	logger := Multi(nil, nil)
	require.Equal(t, Nop(), logger)
}
