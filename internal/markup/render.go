package markup

import (
	"html"
	"strings"
)

// Classes holds the class attribute emitted on each element. An empty value
// omits the attribute.
type Classes struct {
	H1         string
	H2         string
	H3         string
	Strong     string
	Em         string
	List       string
	ListItem   string
	Paragraph  string
	Pre        string
	Code       string
	InlineCode string
}

// DefaultClasses returns the class set used by the web UI.
func DefaultClasses() Classes {
	return Classes{
		H1:         "text-2xl font-bold mt-5 mb-2.5 font-display",
		H2:         "text-xl font-bold mt-4 mb-2 font-display",
		H3:         "text-lg font-semibold mt-3 mb-1.5 font-display",
		Strong:     "font-semibold",
		Em:         "italic",
		List:       "list-disc list-inside space-y-1 my-2 ml-4",
		ListItem:   "ml-1",
		Paragraph:  "text-slate-700 leading-relaxed mb-3",
		Pre:        "bg-slate-100 p-3 rounded-md overflow-x-auto text-sm my-3",
		Code:       "font-mono",
		InlineCode: "bg-slate-100 px-1 py-0.5 rounded text-sm font-mono",
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClasses sets the class attributes emitted on each element.
func WithClasses(c Classes) Option {
	return func(r *Renderer) { r.classes = c }
}

// WithPlainTags emits elements without class attributes.
func WithPlainTags() Option {
	return func(r *Renderer) { r.classes = Classes{} }
}

// Renderer converts the constrained Markdown subset used by answers into
// HTML. A Renderer is immutable after construction and safe for concurrent
// use.
type Renderer struct {
	classes Classes
	spans   *strings.Replacer
}

// NewRenderer creates a Renderer. Without options it uses DefaultClasses.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{classes: DefaultClasses()}
	for _, opt := range opts {
		opt(r)
	}
	r.spans = strings.NewReplacer(
		sentStrongOpen, r.open("strong", r.classes.Strong),
		sentStrongEnd, "</strong>",
		sentEmOpen, r.open("em", r.classes.Em),
		sentEmEnd, "</em>",
	)
	return r
}

var defaultRenderer = NewRenderer()

// Render converts src to HTML using the default class set.
func Render(src string) string {
	return defaultRenderer.Render(src)
}

// Render converts src to HTML. It never fails: unmatched markers are kept
// as literal text and all text content is escaped.
func (r *Renderer) Render(src string) string {
	var b strings.Builder
	for _, blk := range Parse(src) {
		r.writeBlock(&b, blk)
	}
	return b.String()
}

func (r *Renderer) writeBlock(b *strings.Builder, blk Block) {
	switch blk.Kind {
	case KindHeading:
		tag, class := "h1", r.classes.H1
		switch blk.Level {
		case 2:
			tag, class = "h2", r.classes.H2
		case 3:
			tag, class = "h3", r.classes.H3
		}
		b.WriteString(r.open(tag, class))
		b.WriteString(r.inline(strings.Join(blk.Lines, " ")))
		b.WriteString("</" + tag + ">")

	case KindList:
		b.WriteString(r.open("ul", r.classes.List))
		for _, item := range blk.Lines {
			b.WriteString(r.open("li", r.classes.ListItem))
			b.WriteString(r.inline(item))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")

	case KindCode:
		b.WriteString(r.open("pre", r.classes.Pre))
		b.WriteString(r.open("code", r.classes.Code))
		b.WriteString(escapeText.Replace(strings.Join(blk.Lines, "\n")))
		b.WriteString("</code></pre>")

	default:
		b.WriteString(r.open("p", r.classes.Paragraph))
		for i, line := range blk.Lines {
			if i > 0 {
				b.WriteString("<br/>")
			}
			b.WriteString(r.inline(line))
		}
		b.WriteString("</p>")
	}
}

func (r *Renderer) open(tag, class string) string {
	if class == "" {
		return "<" + tag + ">"
	}
	return "<" + tag + ` class="` + html.EscapeString(class) + `">`
}
