package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/learnova/internal/assistant"
	"github.com/ziadkadry99/learnova/internal/identity"
	"github.com/ziadkadry99/learnova/internal/session"
)

// serverMessage is the outgoing WebSocket message format.
type serverMessage struct {
	Type  string         `json:"type"` // "state", "error" or "export"
	State *session.State `json:"state,omitempty"`
	Error string         `json:"error,omitempty"`
}

// sideband holds the parts of a client message the reducer does not model:
// the image payload and the bearer token.
type sideband struct {
	Type    string `json:"type"`
	Payload struct {
		Token string `json:"token"`
		Image *struct {
			Data string `json:"data"`
		} `json:"image"`
	} `json:"payload"`
}

type result struct {
	seq    uint64
	action session.Action
}

// wsSession is the per-connection state. Only the connection's main loop
// touches state, image and seq, and only it writes to ws.
type wsSession struct {
	d       *Dashboard
	ws      *websocket.Conn
	logger  *zap.Logger
	state   session.State
	image   *assistant.ImageInput
	seq     uint64
	results chan result
	wg      sync.WaitGroup
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	ws.SetReadLimit(d.assistant.RequestLimit())

	ctx, cancel := context.WithCancel(r.Context())
	s := &wsSession{
		d:       d,
		ws:      ws,
		logger:  d.logger.With(zap.String("remote", r.RemoteAddr)),
		state:   session.Initial(),
		results: make(chan result, 1),
	}
	defer func() {
		cancel()
		ws.Close()
		s.wg.Wait()
	}()

	if tok := r.URL.Query().Get("token"); tok != "" {
		s.authenticate(ctx, tok)
	}
	if err := s.sendState(); err != nil {
		return
	}

	incoming := make(chan []byte)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(incoming)
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Info("websocket read", zap.Error(err))
				}
				return
			}
			select {
			case incoming <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-incoming:
			if !ok {
				return
			}
			if err := s.handleMessage(ctx, msg); err != nil {
				s.logger.Info("websocket write", zap.Error(err))
				return
			}
		case res := <-s.results:
			if res.seq != s.seq {
				continue
			}
			s.state = session.Reduce(s.state, res.action)
			if err := s.sendState(); err != nil {
				s.logger.Info("websocket write", zap.Error(err))
				return
			}
		}
	}
}

// handleMessage applies one client message. Only write failures are
// returned; bad input is reported to the client.
func (s *wsSession) handleMessage(ctx context.Context, msg []byte) error {
	var side sideband
	_ = json.Unmarshal(msg, &side)

	switch side.Type {
	case "authenticate":
		s.authenticate(ctx, side.Payload.Token)
		return s.sendState()
	case "sign_out":
		s.state = session.Reduce(s.state, session.SignedOut{})
		return s.sendState()
	}

	action, err := session.DecodeClientAction(msg)
	if err != nil {
		return s.sendError(err.Error())
	}

	switch a := action.(type) {
	case session.AttachImage:
		if side.Payload.Image == nil || side.Payload.Image.Data == "" {
			return s.sendError("attach_image: image data is required")
		}
		s.image = &assistant.ImageInput{
			Name:     a.Image.Name,
			MIMEType: a.Image.MIMEType,
			Encoded:  side.Payload.Image.Data,
		}
	case session.ClearImage:
		s.image = nil
	case session.Reset:
		s.image = nil
		s.seq++
	}

	prev := s.state
	s.state = session.Reduce(s.state, action)

	switch action.(type) {
	case session.Submit:
		if s.state.Loading && !prev.Loading {
			s.startExplain(ctx)
		}
	case session.Export:
		if s.state.Answer != "" {
			if err := s.ws.WriteJSON(serverMessage{Type: "export"}); err != nil {
				return err
			}
			s.state = session.Reduce(s.state, session.Notice{Message: session.MsgExportStarted})
		}
	}
	return s.sendState()
}

// startExplain runs the request off the main loop. A result whose seq is
// stale by the time it arrives is dropped.
func (s *wsSession) startExplain(ctx context.Context) {
	s.seq++
	seq := s.seq
	req := assistant.Request{
		Question:  s.state.Question,
		SubjectID: s.state.SubjectID,
		Level:     s.state.Level,
	}
	if s.image != nil {
		img := *s.image
		req.Image = &img
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		var action session.Action
		ans, err := s.d.assistant.Explain(ctx, req)
		if err != nil {
			action = session.Fail{Message: assistant.UserMessage(err)}
		} else {
			action = session.Succeed{Answer: ans.Markdown, HTML: ans.HTML}
		}
		select {
		case s.results <- result{seq: seq, action: action}:
		case <-ctx.Done():
		}
	}()
}

func (s *wsSession) authenticate(ctx context.Context, token string) {
	if s.d.identity == nil {
		s.state.Error = "Sign-in is not available."
		return
	}
	user, err := s.d.identity.Authenticate(ctx, token)
	if err != nil {
		if !errors.Is(err, identity.ErrInvalidToken) {
			s.logger.Warn("authenticate", zap.Error(err))
		}
		s.state.Error = identity.ErrInvalidToken.Error()
		return
	}
	s.state = session.Reduce(s.state, session.SignedIn{
		User: session.Identity{UID: user.UID, DisplayName: user.Label()},
	})

	settings, err := s.d.identity.LoadSettings(ctx, user.UID)
	if err != nil {
		s.logger.Warn("loading settings", zap.String("uid", user.UID), zap.Error(err))
		s.state.Error = session.MsgSettingsFailed
		return
	}
	s.state = session.Reduce(s.state, session.SettingsLoaded{
		Premium:           settings.IsPremiumUser,
		FreeUsesRemaining: settings.FreeUsesRemaining,
	})
}

func (s *wsSession) sendState() error {
	st := s.state
	return s.ws.WriteJSON(serverMessage{Type: "state", State: &st})
}

func (s *wsSession) sendError(msg string) error {
	return s.ws.WriteJSON(serverMessage{Type: "error", Error: msg})
}
