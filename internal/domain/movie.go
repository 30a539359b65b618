package domain

type MovieStatus string

const (
	MovieStatusActive MovieStatus = "active"
	MovieStatusDone   MovieStatus = "done"
)

// Movie is one entry of the downloader's library list. Status values other
// than the known constants are carried through verbatim.
type Movie struct {
	Title  string      `json:"title"`
	Status MovieStatus `json:"status"`
}

// Candidate is one provider search result. Titles is never empty for a valid
// candidate; its head is the canonical title. An empty ImdbID means the
// provider did not resolve an identifier, a zero Year means the year is unknown.
type Candidate struct {
	ImdbID string   `json:"imdb,omitempty"`
	Titles []string `json:"titles"`
	Year   int      `json:"year,omitempty"`
}

func (c Candidate) CanonicalTitle() string {
	if len(c.Titles) == 0 {
		return ""
	}
	return c.Titles[0]
}
