package hooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedPayload indicates stdin did not carry a usable event
// payload. It is recovered inside the handler; a broken payload must
// never surface as a non-zero exit.
var ErrMalformedPayload = errors.New("malformed payload")

// Payload is the JSON object Claude Code writes to stdin for each
// hook invocation.
type Payload struct {
	SessionID     string `json:"session_id"`
	HookEventName string `json:"hook_event_name"`
	Prompt        string `json:"prompt,omitempty"`
	Cwd           string `json:"cwd,omitempty"`
	Message       string `json:"message,omitempty"`
}

// ParsePayload reads and decodes one event payload from r.
func ParsePayload(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading input: %v", ErrMalformedPayload, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedPayload)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &p, nil
}

// Validate checks the payload against the event being dispatched. The
// command-line event name is authoritative; a payload naming a
// different event is rejected rather than silently reinterpreted.
func (p *Payload) Validate(event string) error {
	if p.SessionID == "" {
		return fmt.Errorf("%w: missing session_id", ErrMalformedPayload)
	}
	if p.HookEventName != "" && p.HookEventName != event {
		return fmt.Errorf("%w: event name mismatch: expected %s, got %s",
			ErrMalformedPayload, event, p.HookEventName)
	}
	return nil
}
