package study

import (
	"fmt"
	"strings"
)

// Level is the depth and tone preset applied to an explanation.
type Level string

const (
	LevelGeneral Level = "GENERAL"
	LevelClass6  Level = "CLASS_6"
	LevelClass10 Level = "CLASS_10"
	LevelNEETJEE Level = "NEET_JEE"
)

// LevelOption pairs a level with its display label.
type LevelOption struct {
	Value Level  `json:"value"`
	Label string `json:"label"`
}

var levelOptions = []LevelOption{
	{Value: LevelGeneral, Label: "General Explanation"},
	{Value: LevelClass6, Label: "For Class 6"},
	{Value: LevelClass10, Label: "For Class 10"},
	{Value: LevelNEETJEE, Label: "For NEET/JEE Aspirants"},
}

// Levels returns the selectable levels in display order.
func Levels() []LevelOption {
	out := make([]LevelOption, len(levelOptions))
	copy(out, levelOptions)
	return out
}

// ParseLevel accepts a level value case-insensitively. An empty string is
// LevelGeneral.
func ParseLevel(s string) (Level, error) {
	if strings.TrimSpace(s) == "" {
		return LevelGeneral, nil
	}
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, opt := range levelOptions {
		if opt.Value == l {
			return l, nil
		}
	}
	return LevelGeneral, fmt.Errorf("unknown explanation level %q", s)
}

const (
	instructionGeneral = "You are a helpful AI assistant. Provide a clear, concise, and well-structured explanation for the following query. Use markdown for formatting if it enhances readability."
	instructionClass6  = "You are an AI assistant. Explain the following concept in simple terms, using age-appropriate language and examples suitable for a 6th-grade student. Avoid complex jargon. Format your response clearly."
	instructionClass10 = "You are an AI assistant. Explain the following concept in a clear and structured manner suitable for a 10th-grade student. Cover key definitions, principles, and provide relevant examples. Assume a foundational understanding of basic science/math. Format your response clearly."
	instructionNEETJEE = "You are an AI assistant. Explain the following concept with a strong focus on details, nuances, and applications relevant for competitive exams like NEET and JEE. Highlight important formulas, exceptions, and potential trick questions if applicable. Assume the user is preparing for advanced competitive science examinations. Format your response clearly, using markdown for structure if helpful."
)

// InstructionFor returns the system instruction for level. Unknown levels
// get the general instruction.
func InstructionFor(level Level) string {
	switch level {
	case LevelClass6:
		return instructionClass6
	case LevelClass10:
		return instructionClass10
	case LevelNEETJEE:
		return instructionNEETJEE
	default:
		return instructionGeneral
	}
}
