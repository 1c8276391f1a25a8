package markup

import (
	"regexp"
	"strings"
)

// Kind identifies the structural role of a block.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindList
	KindCode
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindList:
		return "list"
	case KindCode:
		return "code"
	default:
		return "paragraph"
	}
}

// Block is a maximal run of source lines sharing one structural role.
// For headings Level is 1-3 and Lines holds the single heading text; for
// lists each entry of Lines is one item with its marker removed; for code
// blocks Lines is the verbatim interior of the fence.
type Block struct {
	Kind  Kind
	Level int
	Lines []string
}

const fence = "```"

var (
	headingRe  = regexp.MustCompile(`^(#{1,3}) (.*)$`)
	listItemRe = regexp.MustCompile(`^[*+-] (.*)$`)
	infoRe     = regexp.MustCompile(`^[A-Za-z0-9_+#.-]+$`)
)

// Parse segments src into blocks. Fenced code is recognized before any
// other construct so that its interior is never reinterpreted.
func Parse(src string) []Block {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if src == "" {
		return nil
	}
	lines := strings.Split(src, "\n")

	var (
		blocks []Block
		cur    *Block
	)
	flush := func() {
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		// A closed fence that opens mid-line splits the line: the text
		// before it is handled as usual and the fence starts on its own line.
		if idx := strings.Index(line, fence); idx > 0 && strings.TrimSpace(line[:idx]) != "" && fenceCloses(lines, i, idx) {
			lines = append(lines[:i+1], append([]string{line[idx:]}, lines[i+1:]...)...)
			lines[i] = line[:idx]
			line = lines[i]
		}

		if strings.HasPrefix(strings.TrimLeft(line, " \t"), fence) {
			flush()
			code, rest, next := scanFence(lines, i)
			blocks = append(blocks, code)
			if strings.TrimSpace(rest) != "" {
				// Text after a closing fence is processed as a fresh line.
				lines[next] = rest
				i = next - 1
			} else {
				i = next
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			blocks = append(blocks, Block{Kind: KindHeading, Level: len(m[1]), Lines: []string{m[2]}})
			continue
		}

		if m := listItemRe.FindStringSubmatch(line); m != nil {
			if cur == nil || cur.Kind != KindList {
				flush()
				cur = &Block{Kind: KindList}
			}
			cur.Lines = append(cur.Lines, m[1])
			continue
		}

		if cur == nil || cur.Kind != KindParagraph {
			flush()
			cur = &Block{Kind: KindParagraph}
		}
		cur.Lines = append(cur.Lines, line)
	}
	flush()
	return blocks
}

// fenceCloses reports whether a fence opening at lines[i][idx:] has a
// closing fence later in the document. An unclosed mid-line run of
// backticks stays ordinary text.
func fenceCloses(lines []string, i, idx int) bool {
	if strings.Contains(lines[i][idx+len(fence):], fence) {
		return true
	}
	for _, l := range lines[i+1:] {
		if strings.Contains(l, fence) {
			return true
		}
	}
	return false
}

// scanFence reads a fenced code block opening at lines[start]. It returns the
// block, any text that followed the closing fence on the closing line, and the
// index of that closing line (len(lines)-1 when the fence is unterminated).
func scanFence(lines []string, start int) (Block, string, int) {
	open := strings.TrimLeft(lines[start], " \t")
	rest := open[len(fence):]
	code := Block{Kind: KindCode}

	// Opened and closed on the same line.
	if idx := strings.Index(rest, fence); idx >= 0 {
		code.Lines = []string{rest[:idx]}
		return code, rest[idx+len(fence):], start
	}

	if info := strings.TrimSpace(rest); info != "" && !infoRe.MatchString(info) {
		code.Lines = append(code.Lines, rest)
	}

	for j := start + 1; j < len(lines); j++ {
		if idx := strings.Index(lines[j], fence); idx >= 0 {
			if before := lines[j][:idx]; strings.TrimSpace(before) != "" {
				code.Lines = append(code.Lines, before)
			}
			return code, lines[j][idx+len(fence):], j
		}
		code.Lines = append(code.Lines, lines[j])
	}
	return code, "", len(lines) - 1
}
