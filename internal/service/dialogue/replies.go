package dialogue

import (
	"fmt"
	"strings"

	"github.com/reelvoice/reelvoice/internal/domain"
)

const (
	replyNotUnderstood = "Sorry, I didn't understand that."
	replyStop          = "Okay"
	replyMissingName   = "Please specify a movie name"
	replyNoneAdded     = "No movies are currently added"
)

// spokenStatus maps the manager's raw status to the word spoken to the user.
// Unknown statuses are spoken verbatim.
func spokenStatus(status domain.MovieStatus) string {
	switch status {
	case domain.MovieStatusActive:
		return "queued"
	case domain.MovieStatusDone:
		return "downloaded"
	default:
		return string(status)
	}
}

func describeMovie(m domain.Movie) string {
	return fmt.Sprintf("%s is %s", m.Title, spokenStatus(m.Status))
}

func describeMovies(movies []domain.Movie) string {
	parts := make([]string, len(movies))
	for i, m := range movies {
		parts[i] = describeMovie(m)
	}
	return strings.Join(parts, ", ")
}

func listReply(title string, movies []domain.Movie) string {
	switch {
	case len(movies) == 0 && title != "":
		return fmt.Sprintf("%s is not currently added", title)
	case len(movies) == 0:
		return replyNoneAdded
	case len(movies) == 1:
		return describeMovie(movies[0])
	case len(movies) <= 5:
		return "I found the following movies: " + describeMovies(movies)
	default:
		return fmt.Sprintf("I found %d movies. The first five found were: %s",
			len(movies), describeMovies(movies[:5]))
	}
}

func offerReply(c domain.Candidate) string {
	if c.Year != 0 {
		return fmt.Sprintf("Did you mean %s from %d? You can answer 'Yes', 'No', or 'Stop'.",
			c.CanonicalTitle(), c.Year)
	}
	return fmt.Sprintf("Did you mean %s? You can answer 'Yes', 'No', or 'Stop'.", c.CanonicalTitle())
}

func addedReply(title string) string {
	return fmt.Sprintf("%s has been added", title)
}

func notAddedReply(title string) string {
	return fmt.Sprintf("%s could not be added", title)
}

func noneFoundReply(title string) string {
	return fmt.Sprintf("No movies found named %s", title)
}

func noneLeftReply(searchText string) string {
	return fmt.Sprintf("No more movies found named %s", searchText)
}
