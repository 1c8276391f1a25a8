package session

import (
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/learnova/internal/study"
)

// envelope is the wire form of a client action.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type clientPayload struct {
	Question  string      `json:"question"`
	Image     *Image      `json:"image"`
	Level     study.Level `json:"level"`
	SubjectID string      `json:"subject_id"`
}

// DecodeClientAction parses an action sent by a browser. Only actions a
// client may originate are accepted; results such as Succeed and SignedIn
// come from the server.
func DecodeClientAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding action: %w", err)
	}

	var p clientPayload
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", env.Type, err)
		}
	}

	switch env.Type {
	case "set_question":
		return SetQuestion{Question: p.Question}, nil
	case "attach_image":
		if p.Image == nil {
			return nil, fmt.Errorf("attach_image: image is required")
		}
		return AttachImage{Image: *p.Image}, nil
	case "clear_image":
		return ClearImage{}, nil
	case "set_level":
		return SetLevel{Level: p.Level}, nil
	case "select_subject":
		return SelectSubject{SubjectID: p.SubjectID}, nil
	case "submit":
		return Submit{}, nil
	case "reset":
		return Reset{}, nil
	case "dismiss_error":
		return DismissError{}, nil
	case "export":
		return Export{}, nil
	case "toggle_sidebar":
		return ToggleSidebar{}, nil
	case "show_auth":
		return ShowAuth{}, nil
	case "hide_auth":
		return HideAuth{}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
}
