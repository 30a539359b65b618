package alexa

import (
	"encoding/json"
	"fmt"

	"github.com/reelvoice/reelvoice/internal/domain"
)

// Envelope version and speech type understood by the voice platform.
const (
	Version             = "1.0"
	SpeechTypePlainText = "PlainText"
)

// Request types carried in the envelope.
const (
	RequestTypeLaunch       = "LaunchRequest"
	RequestTypeIntent       = "IntentRequest"
	RequestTypeSessionEnded = "SessionEndedRequest"
)

const (
	welcomeText = "Welcome to Reel Voice. You can ask me to find or add movies by name."
	apologyText = "Sorry, something went wrong talking to the movie manager. Please try again later."
)

// RequestEnvelope is the JSON body the voice platform posts on every turn.
type RequestEnvelope struct {
	Version string  `json:"version"`
	Session Session `json:"session"`
	Request Request `json:"request"`
}

type Session struct {
	New         bool                   `json:"new"`
	SessionID   string                 `json:"sessionId"`
	Application Application            `json:"application"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type Request struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId"`
	Timestamp string  `json:"timestamp,omitempty"`
	Intent    *Intent `json:"intent,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// ResponseEnvelope is the JSON body returned to the platform.
type ResponseEnvelope struct {
	Version           string                 `json:"version"`
	SessionAttributes map[string]interface{} `json:"sessionAttributes,omitempty"`
	Response          Response               `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var intentNames = map[string]domain.Intent{
	"FindMovieIntent":     domain.IntentFind,
	"AddMovieIntent":      domain.IntentAdd,
	"AMAZON.YesIntent":    domain.IntentYes,
	"AMAZON.NoIntent":     domain.IntentNo,
	"AMAZON.StopIntent":   domain.IntentStop,
	"AMAZON.CancelIntent": domain.IntentStop,
}

// TurnRequest maps the envelope onto a dialogue turn. Session attributes
// saved on a previous turn decode back into the dialogue state; attributes
// that do not form a valid state fail the conversion.
func (e *RequestEnvelope) TurnRequest() (domain.TurnRequest, error) {
	state, err := stateFromAttributes(e.Session.Attributes)
	if err != nil {
		return domain.TurnRequest{}, err
	}

	req := domain.TurnRequest{
		Intent:  domain.IntentUnknown,
		Slots:   make(map[string]string),
		Session: state,
	}
	if e.Request.Intent == nil {
		return req, nil
	}
	if intent, ok := intentNames[e.Request.Intent.Name]; ok {
		req.Intent = intent
	}
	for name, slot := range e.Request.Intent.Slots {
		if slot.Value != "" {
			req.Slots[name] = slot.Value
		}
	}
	return req, nil
}

// NewResponse renders a completed dialogue turn for the platform.
func NewResponse(result domain.TurnResult) ResponseEnvelope {
	resp := speak(result.Speech, result.EndSession)
	resp.SessionAttributes = attributesFromState(result.Session)
	return resp
}

// Welcome greets a bare launch and keeps the session open.
func Welcome() ResponseEnvelope {
	return speak(welcomeText, false)
}

// Apology answers turns the service could not complete.
func Apology() ResponseEnvelope {
	return speak(apologyText, true)
}

func speak(text string, endSession bool) ResponseEnvelope {
	return ResponseEnvelope{
		Version: Version,
		Response: Response{
			OutputSpeech: &OutputSpeech{
				Type: SpeechTypePlainText,
				Text: text,
			},
			ShouldEndSession: endSession,
		},
	}
}

func stateFromAttributes(attrs map[string]interface{}) (domain.SessionState, error) {
	if len(attrs) == 0 {
		return domain.SessionState{}, nil
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("failed to encode session attributes: %w", err)
	}
	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.SessionState{}, fmt.Errorf("failed to decode session attributes: %w", err)
	}
	return state, nil
}

func attributesFromState(state domain.SessionState) map[string]interface{} {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil
	}
	var attrs map[string]interface{}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
