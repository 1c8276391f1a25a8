package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	EngineLegacy     = "legacy"
	EngineCommonMark = "commonmark"
)

// Engine converts an answer to HTML.
type Engine interface {
	Render(src string) (string, error)
	Name() string
}

// NewEngine returns the engine registered under name. An empty name selects
// the legacy engine.
func NewEngine(name string) (Engine, error) {
	switch name {
	case "", EngineLegacy:
		return LegacyEngine{r: defaultRenderer}, nil
	case EngineCommonMark:
		return NewCommonMarkEngine(), nil
	default:
		return nil, fmt.Errorf("unknown render engine %q: must be one of legacy, commonmark", name)
	}
}

// LegacyEngine adapts Renderer to Engine.
type LegacyEngine struct {
	r *Renderer
}

// NewLegacyEngine wraps a Renderer built with opts.
func NewLegacyEngine(opts ...Option) LegacyEngine {
	return LegacyEngine{r: NewRenderer(opts...)}
}

func (e LegacyEngine) Name() string { return EngineLegacy }

func (e LegacyEngine) Render(src string) (string, error) {
	r := e.r
	if r == nil {
		r = defaultRenderer
	}
	return r.Render(src), nil
}

// CommonMarkEngine renders full GitHub-flavored Markdown with syntax
// highlighting. Raw HTML in the source is dropped.
type CommonMarkEngine struct {
	md goldmark.Markdown
}

// NewCommonMarkEngine creates a CommonMarkEngine.
func NewCommonMarkEngine() *CommonMarkEngine {
	return &CommonMarkEngine{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

func (e *CommonMarkEngine) Name() string { return EngineCommonMark }

func (e *CommonMarkEngine) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}
