package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "# Osmosis\n\nWater moves across a **membrane**.\n\n- high to low\n- passive\n"

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(sample, &buf, PDFOptions{Printable: true}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output should be a PDF")
}

func TestWritePDFUnknownTheme(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(sample, &buf, PDFOptions{Theme: "no-such-theme"})
	assert.ErrorContains(t, err, "unknown theme")
	assert.Zero(t, buf.Len())
}

func TestWriteTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTerminal(sample, &buf, TerminalOptions{Width: 60}))
	assert.Contains(t, buf.String(), "Osmosis")
	assert.Contains(t, buf.String(), "membrane")
}

func TestDocument(t *testing.T) {
	at := time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC)
	doc := Document(" What is osmosis? ", "Answer text\n\n", at)
	assert.True(t, strings.HasPrefix(doc, "# Learnova answer\n\n**Question:** What is osmosis?\n\n"))
	assert.Contains(t, doc, "_4 Mar 2025 09:30_")
	assert.True(t, strings.HasSuffix(doc, "Answer text\n"))

	bare := Document("", "x", time.Time{})
	assert.Equal(t, "# Learnova answer\n\nx\n", bare)
}
