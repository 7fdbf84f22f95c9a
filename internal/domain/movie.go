package domain

import "time"

// Movie represents one catalog entry. Category doubles as the grouping key
// for the catalog listing; Rating holds the denormalized average written by
// the rating aggregator and is authoritative only until the next recompute.
type Movie struct {
	ID             int64
	Title          string
	ReleaseDate    time.Time
	Category       string
	Rating         float64
	Author         *string
	Poster         *string
	BackdropPoster *string
	Overview       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
