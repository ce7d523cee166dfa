package domain

import "time"

// Episode describes a single episode of a series.
type Episode struct {
	EpisodeNumber int       `json:"episodeNumber"`
	SeasonNumber  int       `json:"seasonNumber"`
	ReleaseDate   time.Time `json:"releaseDate"`
	Director      string    `json:"director"`
	Actors        []string  `json:"actors"`
}

// ContentSummary is catalog metadata for one movie or series. Kind is the
// discriminant: movie-only fields are zero for series and vice versa, and
// the JSON encoding omits whichever side does not apply.
type ContentSummary struct {
	ID          string      `json:"id"`
	Kind        ContentType `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Genres      []string    `json:"genres"`

	// Movie fields
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	Director    string     `json:"director,omitempty"`
	Actors      []string   `json:"actors,omitempty"`

	// Series fields
	Episodes []Episode `json:"episodes,omitempty"`
}

// IsMovie returns true for movie content.
func (c *ContentSummary) IsMovie() bool {
	return c.Kind == ContentTypeMovie
}

// IsSeries returns true for series content.
func (c *ContentSummary) IsSeries() bool {
	return c.Kind == ContentTypeSeries
}
