// Package export turns answers into printable and terminal output.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"pkt.systems/mdf"
	"pkt.systems/mdf/pdf"
)

// PDFOptions controls PDF output.
type PDFOptions struct {
	Theme string
	// Printable drops background and colors for paper.
	Printable bool
}

// TerminalOptions controls terminal output.
type TerminalOptions struct {
	Theme string
	Width int
}

func theme(name string) (mdf.Theme, error) {
	t, ok := mdf.ThemeByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(mdf.AvailableThemes(), ", "))
	}
	return t, nil
}

// WritePDF renders markdown to w as a PDF document.
func WritePDF(markdown string, w io.Writer, opts PDFOptions) error {
	t, err := theme(opts.Theme)
	if err != nil {
		return err
	}

	cfg := pdf.DefaultConfig()
	regular, bold, italic, boldItalic, err := pdf.EmbeddedHackFonts()
	if err != nil {
		return fmt.Errorf("embedded fonts: %w", err)
	}
	cfg.FontFamily = pdf.EmbeddedFontFamily
	cfg.RegularFontBytes = regular
	cfg.BoldFontBytes = bold
	cfg.ItalicFontBytes = italic
	cfg.BoldItalicFontBytes = boldItalic
	cfg.Boring = opts.Printable

	if err := pdf.Render(pdf.RenderRequest{
		Reader: strings.NewReader(markdown),
		Writer: w,
		Theme:  t,
		Config: cfg,
	}); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// WriteTerminal renders markdown for an ANSI terminal.
func WriteTerminal(markdown string, w io.Writer, opts TerminalOptions) error {
	t, err := theme(opts.Theme)
	if err != nil {
		return err
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	if err := mdf.Render(mdf.RenderRequest{
		Reader: strings.NewReader(markdown),
		Writer: w,
		Width:  width,
		Theme:  t,
	}); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Document wraps an answer with a title and the question it answers.
func Document(question, answer string, at time.Time) string {
	var b strings.Builder
	b.WriteString("# Learnova answer\n\n")
	if q := strings.TrimSpace(question); q != "" {
		b.WriteString("**Question:** ")
		b.WriteString(q)
		b.WriteString("\n\n")
	}
	if !at.IsZero() {
		b.WriteString("_")
		b.WriteString(at.Format("2 Jan 2006 15:04"))
		b.WriteString("_\n\n")
	}
	b.WriteString(strings.TrimSpace(answer))
	b.WriteString("\n")
	return b.String()
}
