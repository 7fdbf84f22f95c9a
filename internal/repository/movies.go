package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmstack/filmstack/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities, including
// the denormalized average-rating column the aggregator writes into.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    movie_id,
    title,
    release_date,
    type,
    rating,
    author,
    poster,
    backdrop_poster,
    overview,
    created_at,
    updated_at
`

// MovieCreateParams bundles the fields required to create a movie.
type MovieCreateParams struct {
	Title          string
	ReleaseDate    time.Time
	Category       string
	Author         *string
	Poster         *string
	BackdropPoster *string
	Overview       *string
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (title, release_date, type, author, poster, backdrop_poster, overview)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query,
		params.Title, params.ReleaseDate, params.Category,
		params.Author, params.Poster, params.BackdropPoster, params.Overview)
	return scanMovie(row)
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE movie_id = $1`, movieColumns)
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// All returns every movie ordered by category then id, so grouped iteration
// sees each category as a contiguous run.
func (r *MoviesRepository) All(ctx context.Context) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY type, movie_id`, movieColumns)
	return r.queryMovies(ctx, query)
}

// ByCategory returns movies of one category, most recent release first.
func (r *MoviesRepository) ByCategory(ctx context.Context, category string) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE type = $1 ORDER BY release_date DESC`, movieColumns)
	return r.queryMovies(ctx, query, category)
}

// TopRated returns the highest-rated movies by cached average, descending.
func (r *MoviesRepository) TopRated(ctx context.Context, limit int) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY rating DESC LIMIT $1`, movieColumns)
	return r.queryMovies(ctx, query, limit)
}

// SeenBy returns movies the given user has marked as seen.
func (r *MoviesRepository) SeenBy(ctx context.Context, email string) ([]domain.Movie, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM seen_movies s
        JOIN movies USING (movie_id)
        WHERE s.email = $1
        ORDER BY s.seen_at DESC
    `, qualifiedMovieColumns())
	return r.queryMovies(ctx, query, email)
}

// MarkSeen records that a user has seen a movie. Re-marking is a no-op.
func (r *MoviesRepository) MarkSeen(ctx context.Context, email string, movieID int64) error {
	const query = `
        INSERT INTO seen_movies (email, movie_id)
        VALUES ($1,$2)
        ON CONFLICT (email, movie_id) DO NOTHING
    `
	if _, err := r.pool.Exec(ctx, query, email, movieID); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// SetAverage overwrites the cached average rating for a movie. This is a
// plain overwrite, not a compare-and-swap: every aggregator run recomputes
// from the full ledger, so last-writer-wins is always a legitimate snapshot.
func (r *MoviesRepository) SetAverage(ctx context.Context, movieID int64, value float64) error {
	const query = `UPDATE movies SET rating = $1, updated_at = now() WHERE movie_id = $2`
	tag, err := r.pool.Exec(ctx, query, value, movieID)
	if err != nil {
		return fmt.Errorf("set average: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MoviesRepository) queryMovies(ctx context.Context, query string, args ...interface{}) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseDate,
		&movie.Category,
		&movie.Rating,
		&movie.Author,
		&movie.Poster,
		&movie.BackdropPoster,
		&movie.Overview,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}

// qualifiedMovieColumns prefixes movieColumns for joined queries where
// movie_id is resolved by USING.
func qualifiedMovieColumns() string {
	return `
    movie_id,
    movies.title,
    movies.release_date,
    movies.type,
    movies.rating,
    movies.author,
    movies.poster,
    movies.backdrop_poster,
    movies.overview,
    movies.created_at,
    movies.updated_at
`
}
