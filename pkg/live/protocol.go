package live

import (
	"github.com/bytedance/sonic"
	"github.com/vango-dev/contactform/pkg/contact"
)

// Outbound event names.
const (
	EventReady = "contact:ready"
	EventState = "contact:state"
	EventError = "contact:error"
)

// Inbound event types.
const (
	TypeChange = "change"
	TypeBlur   = "blur"
	TypeSubmit = "submit"
)

// Event is a message sent by the browser.
type Event struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// Message is a message sent to the browser.
type Message struct {
	Type   string `json:"type"`
	Detail any    `json:"detail,omitempty"`
}

// State is the detail of a contact:state message.
type State struct {
	Fields     contact.Fields          `json:"fields"`
	Validation contact.ValidationState `json:"validation"`
	Hints      []string                `json:"hints"`
	Phase      string                  `json:"phase"`
	InFlight   int                     `json:"inFlight"`
	Attempt    *AttemptState           `json:"attempt,omitempty"`
}

// AttemptState describes a finished submission.
type AttemptState struct {
	ID    string `json:"id"`
	Phase string `json:"phase"`
	Error string `json:"error,omitempty"`
}

func decodeEvent(data []byte) (Event, error) {
	var ev Event
	err := sonic.Unmarshal(data, &ev)
	return ev, err
}

func encodeMessage(name string, detail any) ([]byte, error) {
	return sonic.Marshal(Message{Type: name, Detail: detail})
}

func snapshot(c *contact.Controller, a *contact.Attempt) State {
	v := c.Validation()
	hints := v.Hints()
	if hints == nil {
		hints = []string{}
	}
	st := State{
		Fields:     c.Fields(),
		Validation: v,
		Hints:      hints,
		Phase:      c.Phase().String(),
		InFlight:   c.InFlight(),
	}
	if a != nil {
		st.Attempt = &AttemptState{ID: a.ID, Phase: a.Phase().String()}
		if err := a.Err(); err != nil {
			st.Attempt.Error = err.Error()
		}
	}
	return st
}
