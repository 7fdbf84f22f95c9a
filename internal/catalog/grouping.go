// Package catalog implements the grouping engine for catalog listings: a
// single left-to-right partition of movies by category.
package catalog

import "github.com/filmstack/filmstack/internal/domain"

// Grouped maps a category to its movies, in the order the source produced
// them. Only categories present in the input appear as keys; an absent
// category has no key rather than an empty list.
type Grouped map[string][]domain.Movie

// GroupByCategory partitions movies by category in one pass. Within-group
// order follows input order; callers needing a specific order must pre-sort
// the input.
func GroupByCategory(movies []domain.Movie) Grouped {
	grouped := make(Grouped)
	for _, movie := range movies {
		grouped[movie.Category] = append(grouped[movie.Category], movie)
	}
	return grouped
}

// Flatten concatenates all groups back into a single slice. Group iteration
// order is unspecified; the result is a multiset equal to the grouped input.
func Flatten(grouped Grouped) []domain.Movie {
	total := 0
	for _, movies := range grouped {
		total += len(movies)
	}
	flat := make([]domain.Movie, 0, total)
	for _, movies := range grouped {
		flat = append(flat, movies...)
	}
	return flat
}
