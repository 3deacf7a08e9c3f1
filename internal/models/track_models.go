package models

// Track is a single catalog item as resolved by the search collaborator.
// It is immutable for the duration of one analysis request.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"title" validate:"required"`
	Artist      string   `json:"artist" validate:"required"`
	Album       string   `json:"album,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Popularity  float64  `json:"popularity" validate:"gte=0,lte=100"`
}
