package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Level: "debug", Format: "text", Output: &buf})

	log.Info("template compiled", "template", "page")

	out := buf.String()
	assert.Contains(t, out, "template compiled")
	assert.Contains(t, out, "template=page")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Level: "warn", Format: "text", Output: &buf})

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warn(nil, "visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestLoggerAttachesErrorField(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Level: "error", Format: "json", Output: &buf})

	log.Error(errors.New("boom"), "render failed")

	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, "render failed")
}

func TestWithComponentScopesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Level: "info", Format: "text", Output: &buf})

	log.WithComponent("engine").Info("ready")

	assert.Contains(t, buf.String(), "component=engine")
}
