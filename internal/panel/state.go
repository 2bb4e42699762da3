package panel

import (
	"github.com/google/uuid"

	"github.com/tlmvpsc/questionbank/internal/models"
)

// Login failure messages shown on the login screen.
const (
	MsgUnreachable    = "Could not reach the server."
	MsgBadCredentials = "Incorrect username or password."
)

// Phase is the panel's connection phase.
type Phase int

const (
	PhaseLoggedOut Phase = iota
	PhaseConnecting
	PhaseConnected
)

// EditorMode is the question editor sub-state while connected.
type EditorMode int

const (
	EditorHidden EditorMode = iota
	EditorCreate
	EditorEdit
)

// EditorState describes the question editor panel.
type EditorState struct {
	Mode EditorMode
	// Question is the record being edited; nil in create mode.
	Question *models.Question
	Loading  bool
}

// State is the whole panel state. It is only ever changed by Reduce.
type State struct {
	Phase       Phase
	Credentials Credentials
	Questions   []models.Question
	Editor      EditorState
	FailMessage string
}

// Event is a message fed to Reduce. Events are produced by user actions and
// by API call outcomes.
type Event interface{ isEvent() }

// ConnectStarted begins a login attempt with the given credentials.
type ConnectStarted struct{ Credentials Credentials }

// ConnectSucceeded carries the initial question list of a successful login.
type ConnectSucceeded struct{ Questions []models.Question }

// ConnectFailed aborts a login attempt. Unreachable distinguishes a dead
// server from rejected credentials.
type ConnectFailed struct{ Unreachable bool }

// EditorOpened opens the editor; a nil Question means create mode.
type EditorOpened struct{ Question *models.Question }

// EditorClosed hides the editor without applying anything.
type EditorClosed struct{}

// MutationStarted marks the editor as loading while a call is in flight.
type MutationStarted struct{}

// MutationFailed clears the loading flag; the question list is untouched.
type MutationFailed struct{}

// QuestionAdded appends a server-confirmed question and hides the editor.
type QuestionAdded struct{ Question models.Question }

// QuestionEdited replaces the matching question and hides the editor.
type QuestionEdited struct{ Question models.Question }

// QuestionDeleted removes the matching question.
type QuestionDeleted struct{ ID uuid.UUID }

// QuestionsRefreshed replaces the whole list after a refetch.
type QuestionsRefreshed struct{ Questions []models.Question }

func (ConnectStarted) isEvent()     {}
func (ConnectSucceeded) isEvent()   {}
func (ConnectFailed) isEvent()      {}
func (EditorOpened) isEvent()       {}
func (EditorClosed) isEvent()       {}
func (MutationStarted) isEvent()    {}
func (MutationFailed) isEvent()     {}
func (QuestionAdded) isEvent()      {}
func (QuestionEdited) isEvent()     {}
func (QuestionDeleted) isEvent()    {}
func (QuestionsRefreshed) isEvent() {}

// Reduce applies an event to the state and returns the next state. Events
// that are not valid in the current phase leave the state unchanged, so the
// UI can never be driven into an inconsistent shape.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case ConnectStarted:
		if s.Phase != PhaseLoggedOut {
			return s
		}
		s.Phase = PhaseConnecting
		s.Credentials = ev.Credentials
		return s

	case ConnectSucceeded:
		if s.Phase != PhaseConnecting {
			return s
		}
		s.Phase = PhaseConnected
		s.Questions = ev.Questions
		s.Editor = EditorState{}
		s.FailMessage = ""
		return s

	case ConnectFailed:
		if s.Phase != PhaseConnecting {
			return s
		}
		s.Phase = PhaseLoggedOut
		s.Credentials = Credentials{}
		if ev.Unreachable {
			s.FailMessage = MsgUnreachable
		} else {
			s.FailMessage = MsgBadCredentials
		}
		return s

	case EditorOpened:
		if s.Phase != PhaseConnected {
			return s
		}
		if ev.Question == nil {
			s.Editor = EditorState{Mode: EditorCreate}
		} else {
			q := *ev.Question
			s.Editor = EditorState{Mode: EditorEdit, Question: &q}
		}
		return s

	case EditorClosed:
		s.Editor = EditorState{}
		return s

	case MutationStarted:
		s.Editor.Loading = true
		return s

	case MutationFailed:
		s.Editor.Loading = false
		return s

	case QuestionAdded:
		if s.Phase != PhaseConnected {
			return s
		}
		s.Questions = append(s.Questions, ev.Question)
		s.Editor = EditorState{}
		return s

	case QuestionEdited:
		if s.Phase != PhaseConnected {
			return s
		}
		for i := range s.Questions {
			if s.Questions[i].ID == ev.Question.ID {
				s.Questions[i] = ev.Question
				break
			}
		}
		s.Editor = EditorState{}
		return s

	case QuestionDeleted:
		if s.Phase != PhaseConnected {
			return s
		}
		kept := s.Questions[:0:0]
		for _, q := range s.Questions {
			if q.ID != ev.ID {
				kept = append(kept, q)
			}
		}
		s.Questions = kept
		return s

	case QuestionsRefreshed:
		if s.Phase != PhaseConnected {
			return s
		}
		s.Questions = ev.Questions
		return s
	}
	return s
}
