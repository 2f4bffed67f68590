package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitWriterEnabled(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(true, &buf)
	defer Init(false)

	assert.True(t, Enabled())
	Debug("Allocating codepoints", "icons", 3)

	assert.Contains(t, buf.String(), "Allocating codepoints")
	assert.Contains(t, buf.String(), "icons=3")
}

func TestInitWriterDisabled(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(false, &buf)

	assert.False(t, Enabled())
	Debug("hidden")
	Error("hidden too")

	assert.Empty(t, buf.String())
}

func TestStage(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(true, &buf)
	defer Init(false)

	done := Stage("transcode", "format", "woff2")
	done()

	out := buf.String()
	assert.Contains(t, out, "Stage started")
	assert.Contains(t, out, "Stage finished")
	assert.Contains(t, out, "stage=transcode")
	assert.Contains(t, out, "format=woff2")
}
