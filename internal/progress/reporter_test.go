package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	_, ok := NewReporter(&bytes.Buffer{}).(*CIReporter)
	assert.True(t, ok)
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	_, ok := NewReporter(&bytes.Buffer{}).(*TerminalReporter)
	assert.True(t, ok)
}

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{w: &buf}
	r.Start(2, "Rendering")
	r.Update(1, "a.md")
	r.Update(2, "b.md")
	r.Finish()

	assert.Equal(t, "Rendering: 2 items\n[1/2] a.md\n[2/2] b.md\ndone\n", buf.String())
}

func TestCIReporterSpinner(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{w: &buf}
	r.Start(-1, "Thinking")
	r.Finish()

	assert.Equal(t, "Thinking...\ndone\n", buf.String())
}

func TestTerminalSpinnerStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	r := &TerminalReporter{w: &buf}
	r.Start(-1, "Thinking")
	time.Sleep(250 * time.Millisecond)
	r.Update(0, "Still thinking")
	r.Finish()

	assert.NotEmpty(t, buf.String())
	assert.Nil(t, r.stop)
}
