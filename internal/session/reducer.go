package session

import "github.com/ziadkadry99/learnova/internal/study"

// User-facing messages produced by the reducer.
const (
	MsgEmptySubmission = "Please enter a question or upload an image."
	MsgNoAnswerExport  = "No answer to export."
	MsgSignedOut       = "You have been signed out."
	MsgExportStarted   = "PDF export started."
	MsgSettingsFailed  = "Failed to load user settings."
)

// Action is a named state transition.
type Action interface {
	isAction()
}

type (
	SetQuestion   struct{ Question string }
	AttachImage   struct{ Image Image }
	ClearImage    struct{}
	SetLevel      struct{ Level study.Level }
	SelectSubject struct{ SubjectID string }
	Submit        struct{}
	Succeed       struct{ Answer, HTML string }
	Fail          struct{ Message string }
	Reset         struct{}
	DismissError  struct{}
	Export        struct{}
	SignedIn      struct{ User Identity }
	SignedOut     struct{}
	// SettingsLoaded mirrors the stored settings record into the session.
	SettingsLoaded struct {
		Premium           bool
		FreeUsesRemaining int
	}
	ToggleSidebar struct{}
	ShowAuth      struct{}
	HideAuth      struct{}
	// Notice shows an informational banner. Errors use Fail.
	Notice struct{ Message string }
)

func (SetQuestion) isAction()    {}
func (AttachImage) isAction()    {}
func (ClearImage) isAction()     {}
func (SetLevel) isAction()       {}
func (SelectSubject) isAction()  {}
func (Submit) isAction()         {}
func (Succeed) isAction()        {}
func (Fail) isAction()           {}
func (Reset) isAction()          {}
func (DismissError) isAction()   {}
func (Export) isAction()         {}
func (SignedIn) isAction()       {}
func (SignedOut) isAction()      {}
func (SettingsLoaded) isAction() {}
func (ToggleSidebar) isAction()  {}
func (ShowAuth) isAction()       {}
func (HideAuth) isAction()       {}
func (Notice) isAction()         {}

// Reduce returns the state that results from applying a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetQuestion:
		s.Question = a.Question

	case AttachImage:
		img := a.Image
		s.Image = &img
		s.Answer, s.HTML = "", ""

	case ClearImage:
		s.Image = nil

	case SetLevel:
		// ParseLevel falls back to LevelGeneral on unknown input.
		s.Level, _ = study.ParseLevel(string(a.Level))

	case SelectSubject:
		if subj, ok := study.SubjectByID(a.SubjectID); ok {
			s.SubjectID = subj.ID
		}

	case Submit:
		if s.Loading {
			return s
		}
		if s.Question == "" && s.Image == nil {
			s.Error = MsgEmptySubmission
			return s
		}
		s.Loading = true
		s.Error, s.Notice = "", ""
		s.Answer, s.HTML = "", ""

	case Succeed:
		s.Loading = false
		s.Answer, s.HTML = a.Answer, a.HTML

	case Fail:
		s.Loading = false
		s.Error = a.Message

	case Reset:
		fresh := Initial()
		fresh.User = s.User
		fresh.Premium = s.Premium
		fresh.FreeUsesRemaining = s.FreeUsesRemaining
		return fresh

	case DismissError:
		s.Error, s.Notice = "", ""

	case Export:
		if s.Answer == "" {
			s.Error = MsgNoAnswerExport
		}

	case SignedIn:
		u := a.User
		s.User = &u
		s.ShowAuth = false

	case SignedOut:
		s.User = nil
		s.Premium = true
		s.FreeUsesRemaining = DefaultFreeUses
		s.Notice = MsgSignedOut

	case SettingsLoaded:
		// Premium gating is disabled: every session is treated as premium.
		s.Premium = true
		s.FreeUsesRemaining = a.FreeUsesRemaining

	case ToggleSidebar:
		s.SidebarOpen = !s.SidebarOpen

	case ShowAuth:
		s.ShowAuth = true

	case HideAuth:
		s.ShowAuth = false

	case Notice:
		s.Notice = a.Message
	}
	return s
}
