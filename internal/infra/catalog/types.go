package catalog

import (
	"time"

	"mylist-service/internal/domain"
)

// ContentItem represents a single content record from the catalog API.
// Movie fields and series fields are mutually exclusive; the kind field
// says which side is populated.
type ContentItem struct {
	ID          string        `json:"id"`
	Kind        string        `json:"kind"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Genres      []string      `json:"genres"`
	ReleaseDate string        `json:"releaseDate,omitempty"`
	Director    string        `json:"director,omitempty"`
	Actors      []string      `json:"actors,omitempty"`
	Episodes    []EpisodeItem `json:"episodes,omitempty"`
}

// EpisodeItem represents one episode of a series.
type EpisodeItem struct {
	EpisodeNumber int      `json:"episodeNumber"`
	SeasonNumber  int      `json:"seasonNumber"`
	ReleaseDate   string   `json:"releaseDate"`
	Director      string   `json:"director"`
	Actors        []string `json:"actors"`
}

// ToDomain converts ContentItem to domain.ContentSummary.
func (c *ContentItem) ToDomain() *domain.ContentSummary {
	summary := &domain.ContentSummary{
		ID:          c.ID,
		Kind:        domain.ContentType(c.Kind),
		Title:       c.Title,
		Description: c.Description,
		Genres:      c.Genres,
		Director:    c.Director,
		Actors:      c.Actors,
	}

	if c.ReleaseDate != "" {
		if ts, err := time.Parse(time.RFC3339, c.ReleaseDate); err == nil {
			summary.ReleaseDate = &ts
		}
	}

	if len(c.Episodes) > 0 {
		summary.Episodes = make([]domain.Episode, len(c.Episodes))
		for i, e := range c.Episodes {
			releaseDate, _ := time.Parse(time.RFC3339, e.ReleaseDate)
			summary.Episodes[i] = domain.Episode{
				EpisodeNumber: e.EpisodeNumber,
				SeasonNumber:  e.SeasonNumber,
				ReleaseDate:   releaseDate,
				Director:      e.Director,
				Actors:        e.Actors,
			}
		}
	}

	return summary
}
