package session

import "github.com/ziadkadry99/learnova/internal/study"

// DefaultFreeUses is the free query allowance mirrored into user settings.
const DefaultFreeUses = 200

// Image describes an attached image. The payload itself travels with the
// submit request, not in the state.
type Image struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int    `json:"size"`
}

// Identity is the signed-in user as shown in the UI.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
}

// State is everything the UI renders. It is a value type; Reduce never
// mutates its input.
type State struct {
	Question  string      `json:"question"`
	Image     *Image      `json:"image,omitempty"`
	Level     study.Level `json:"level"`
	SubjectID string      `json:"subject_id"`

	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Notice  string `json:"notice,omitempty"`
	Answer  string `json:"answer,omitempty"`
	HTML    string `json:"html,omitempty"`

	User              *Identity `json:"user,omitempty"`
	Premium           bool      `json:"premium"`
	FreeUsesRemaining int       `json:"free_uses_remaining"`

	ShowAuth    bool `json:"show_auth"`
	SidebarOpen bool `json:"sidebar_open"`
}

// Initial returns the state of a fresh session. Every feature is unlocked,
// so Premium starts true.
func Initial() State {
	return State{
		Level:             study.LevelGeneral,
		SubjectID:         study.SubjectGeneral,
		Premium:           true,
		FreeUsesRemaining: DefaultFreeUses,
	}
}

// CanSubmit reports whether a Submit action would start a request.
func (s State) CanSubmit() bool {
	return !s.Loading && (s.Question != "" || s.Image != nil)
}

// LoggedInAs returns the label shown for the signed-in user.
func (s State) LoggedInAs() string {
	if s.User == nil {
		return ""
	}
	if s.User.DisplayName != "" {
		return s.User.DisplayName
	}
	return s.User.UID
}
