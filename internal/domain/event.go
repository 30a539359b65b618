package domain

import "time"

// TurnRecord is one line of a session transcript.
type TurnRecord struct {
	ID     string    `json:"id"`
	Intent Intent    `json:"intent"`
	Speech string    `json:"speech"`
	At     time.Time `json:"at"`
}

// TurnEvent is published on the queue after every handled turn.
type TurnEvent struct {
	SessionID  string    `json:"session_id"`
	Intent     Intent    `json:"intent"`
	Speech     string    `json:"speech"`
	EndSession bool      `json:"end_session"`
	At         time.Time `json:"at"`
}

// MovieRequestedEvent is published after a confirmed add succeeds upstream.
type MovieRequestedEvent struct {
	ImdbID string    `json:"imdb_id"`
	Title  string    `json:"title"`
	At     time.Time `json:"at"`
}
