package logger_test

import (
	"bytes"
	"testing"

	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var out bytes.Buffer
	l := logger.NewLogger(&out)

	l.Debugf("hidden %d", 1)
	l.Warnf("always %d", 2)
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "always 2")

	l.SetVerboseLevel(logger.VerboseDebug)
	l.Debugf("visible %d", 3)
	l.Tracef("trace %d", 4)
	assert.Contains(t, out.String(), "visible 3")
	assert.NotContains(t, out.String(), "trace 4")
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	l := logger.NewLogger(&out).SetVerboseLevel(logger.VerboseTrace)

	l.Dump("runs", struct{ Bold bool }{Bold: true})
	assert.Contains(t, out.String(), "runs:")
	assert.Contains(t, out.String(), "Bold: (bool) true")
}

func TestCurrentLogger(t *testing.T) {
	assert.Same(t, logger.CurrentLogger(), logger.CurrentLogger())
}
