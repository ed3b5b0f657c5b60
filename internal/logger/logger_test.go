package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/vocabflash/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  logger.Level
	}{
		{"debug", logger.DEBUG},
		{"INFO", logger.INFO},
		{"warning", logger.WARN},
		{"WARN", logger.WARN},
		{" error ", logger.ERROR},
		{"verbose", logger.INFO},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, logger.ParseLevel(tt.input), tt.input)
	}
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("hidden debug")
	log.Info("hidden info")
	log.Warn("shown %d", 1)
	log.Error("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  ")
	assert.Contains(t, out, "shown 1")
	assert.Contains(t, out, "shown 2")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLogger_PrefixAndSortedFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.DEBUG), logger.WithColors(false))

	log.WithPrefix("card_repo").WithFields(map[string]any{"zeta": 1, "alpha": "a"}).Info("updated")

	line := buf.String()
	assert.Contains(t, line, "[card_repo]")
	assert.Contains(t, line, "logger_test.go:")
	assert.True(t, strings.HasSuffix(line, "updated alpha=a zeta=1\n"), line)
}

func TestLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	_ = parent.WithField("request_id", "abc")

	parent.Info("plain")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestLogger_Colors(t *testing.T) {
	var plain, colored bytes.Buffer
	logger.New(logger.WithOutput(&plain), logger.WithColors(false)).Error("boom")
	logger.New(logger.WithOutput(&colored), logger.WithColors(true)).Error("boom")

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).WithField("student_id", 7)

	ctx := logger.NewContext(context.Background(), log)
	logger.FromContext(ctx).Info("from context")

	assert.Contains(t, buf.String(), "student_id=7")
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}

func TestLogger_Enabled(t *testing.T) {
	log := logger.New(logger.WithLevel(logger.WARN))
	assert.False(t, log.Enabled(logger.INFO))
	assert.True(t, log.Enabled(logger.WARN))
	assert.False(t, logger.Discard().Enabled(logger.ERROR))
	assert.Equal(t, "UNKNOWN", logger.Level(9).String())
}
