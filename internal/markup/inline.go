package markup

import (
	"regexp"
	"strconv"
	"strings"
)

// Inline spans are first rewritten to private-use sentinels and only expanded
// into tags once every pass has run, so a later pass never sees the markup
// an earlier pass produced.
const (
	sentCodeOpen   = "\uE000"
	sentCodeClose  = "\uE001"
	sentStrongOpen = "\uE002"
	sentStrongEnd  = "\uE003"
	sentEmOpen     = "\uE004"
	sentEmEnd      = "\uE005"
)

var (
	inlineCodeRe = regexp.MustCompile("`([^`]+?)`")
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	// Italic bodies may not contain a strong or em sentinel, so spans whose
	// markers cross stay literal instead of producing misnested tags.
	italicStarRe = regexp.MustCompile(`\*([^\x{E002}-\x{E005}]+?)\*`)
	italicUndRe  = regexp.MustCompile(`_([^\x{E002}-\x{E005}]+?)_`)
	codeSlotRe   = regexp.MustCompile(sentCodeOpen + `([0-9]+)` + sentCodeClose)
)

// escapeText escapes the characters that would start markup. Quotes are
// left alone: text never lands inside an attribute value.
var escapeText = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// inline escapes text and applies code, bold and italic spans, in that order.
func (r *Renderer) inline(text string) string {
	text = stripSentinels(escapeText.Replace(text))

	var codes []string
	text = inlineCodeRe.ReplaceAllStringFunc(text, func(m string) string {
		codes = append(codes, m[1:len(m)-1])
		return sentCodeOpen + strconv.Itoa(len(codes)-1) + sentCodeClose
	})

	text = boldRe.ReplaceAllString(text, sentStrongOpen+"${1}"+sentStrongEnd)
	text = italicStarRe.ReplaceAllString(text, sentEmOpen+"${1}"+sentEmEnd)
	text = italicUndRe.ReplaceAllString(text, sentEmOpen+"${1}"+sentEmEnd)

	text = r.spans.Replace(text)
	if len(codes) == 0 {
		return text
	}
	return codeSlotRe.ReplaceAllStringFunc(text, func(m string) string {
		n, err := strconv.Atoi(m[len(sentCodeOpen) : len(m)-len(sentCodeClose)])
		if err != nil || n >= len(codes) {
			return ""
		}
		return r.open("code", r.classes.InlineCode) + codes[n] + "</code>"
	})
}

// stripSentinels removes any sentinel runes that arrived in the input.
func stripSentinels(s string) string {
	if !strings.ContainsAny(s, sentCodeOpen+sentCodeClose+sentStrongOpen+sentStrongEnd+sentEmOpen+sentEmEnd) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r >= 0xE000 && r <= 0xE005 {
			return -1
		}
		return r
	}, s)
}
