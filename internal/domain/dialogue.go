package domain

type Intent string

const (
	IntentFind    Intent = "find"
	IntentAdd     Intent = "add"
	IntentYes     Intent = "yes"
	IntentNo      Intent = "no"
	IntentStop    Intent = "stop"
	IntentUnknown Intent = "unknown"
)

// ContinuationAddPending marks a session that is waiting for the user to
// confirm or reject the offered candidate.
const ContinuationAddPending = "add-pending"

// SessionState is the dialogue state carried inside the voice platform's
// session attributes. It lives only for the duration of one voice session.
// When Continuation is ContinuationAddPending, Movie holds the candidate
// currently on offer and Remaining holds the not-yet-offered rest.
type SessionState struct {
	Continuation string      `json:"continuation,omitempty"`
	Movie        *Candidate  `json:"movie,omitempty"`
	Remaining    []Candidate `json:"remaining,omitempty"`
	SearchText   string      `json:"name,omitempty"`
}

func (s SessionState) AwaitingConfirmation() bool {
	return s.Continuation == ContinuationAddPending
}

// SlotMovieName is the slot carrying the spoken movie title.
const SlotMovieName = "MovieName"

type TurnRequest struct {
	Intent  Intent
	Slots   map[string]string
	Session SessionState
}

// Title returns the movie-name slot value, empty when the user did not say one.
func (r TurnRequest) Title() string {
	return r.Slots[SlotMovieName]
}

type TurnResult struct {
	Speech     string
	EndSession bool
	Session    SessionState
}
