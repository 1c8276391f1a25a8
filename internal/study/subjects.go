package study

import "strings"

// Subject is a topic area that prefixes the question sent for generation.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubjectGeneral is the default subject and adds no prefix.
const SubjectGeneral = "general"

var subjects = []Subject{
	{ID: SubjectGeneral, Name: "General"},
	{ID: "physics", Name: "Physics"},
	{ID: "chemistry", Name: "Chemistry"},
	{ID: "biology", Name: "Biology"},
	{ID: "maths", Name: "Mathematics"},
}

// Subjects returns the subject catalog in display order.
func Subjects() []Subject {
	out := make([]Subject, len(subjects))
	copy(out, subjects)
	return out
}

// SubjectByID looks up a subject by ID.
func SubjectByID(id string) (Subject, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return subjects[0], true
	}
	for _, s := range subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// BuildPrompt prefixes question with the subject name unless the subject is
// empty or general.
func BuildPrompt(subject Subject, question string) string {
	if subject.ID == "" || subject.ID == SubjectGeneral {
		return question
	}
	return "Subject: " + subject.Name + ". Question: " + question
}
