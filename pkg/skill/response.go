package skill

import (
	"encoding/json"
	"time"
)

// ResponseVersion is the envelope version written by Empty.
const ResponseVersion = "1.0"

// Response is the value produced by a handler. The dispatcher never inspects it.
type Response struct {
	Version           string                 `json:"version"`
	SessionAttributes map[string]interface{} `json:"sessionAttributes,omitempty"`
	Body              ResponseBody           `json:"response"`
}

// ResponseBody holds speech, card, reprompt and directives.
type ResponseBody struct {
	OutputSpeech     *OutputSpeech     `json:"outputSpeech,omitempty"`
	Card             *Card             `json:"card,omitempty"`
	Reprompt         *Reprompt         `json:"reprompt,omitempty"`
	ShouldEndSession *bool             `json:"shouldEndSession,omitempty"`
	Directives       []json.RawMessage `json:"directives,omitempty"`
}

// OutputSpeech is plain text or SSML to be spoken.
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

// Card is a simple companion-app card.
type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Reprompt is spoken when the user does not answer.
type Reprompt struct {
	OutputSpeech *OutputSpeech `json:"outputSpeech,omitempty"`
}

// Empty returns the no-op response: current version, empty body, session left open
// at the platform's discretion.
func Empty() *Response {
	return &Response{Version: ResponseVersion}
}

// IsEmpty reports whether r carries nothing beyond the version.
func (r *Response) IsEmpty() bool {
	if r == nil {
		return false
	}
	b := r.Body
	return len(r.SessionAttributes) == 0 &&
		b.OutputSpeech == nil && b.Card == nil && b.Reprompt == nil &&
		b.ShouldEndSession == nil && len(b.Directives) == 0
}

// Tell returns a plain-text response that ends the session.
func Tell(text string) *Response {
	end := true
	return &Response{
		Version: ResponseVersion,
		Body: ResponseBody{
			OutputSpeech:     &OutputSpeech{Type: "PlainText", Text: text},
			ShouldEndSession: &end,
		},
	}
}

// Ask returns a plain-text response that keeps the session open with a reprompt.
func Ask(text, reprompt string) *Response {
	end := false
	return &Response{
		Version: ResponseVersion,
		Body: ResponseBody{
			OutputSpeech:     &OutputSpeech{Type: "PlainText", Text: text},
			Reprompt:         &Reprompt{OutputSpeech: &OutputSpeech{Type: "PlainText", Text: reprompt}},
			ShouldEndSession: &end,
		},
	}
}

// InvocationContext holds metadata from the hosting runtime. It is passed to
// handlers untouched.
type InvocationContext struct {
	RequestID     string    `json:"requestId,omitempty"`
	FunctionName  string    `json:"functionName,omitempty"`
	TenantID      string    `json:"tenantId,omitempty"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Deadline      time.Time `json:"deadline,omitempty"`
}

// RemainingTime returns the time left before Deadline, or 0 when no deadline is set
// or it has passed.
func (c *InvocationContext) RemainingTime() time.Duration {
	if c == nil || c.Deadline.IsZero() {
		return 0
	}
	if d := time.Until(c.Deadline); d > 0 {
		return d
	}
	return 0
}
