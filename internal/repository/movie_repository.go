package repository // repository defines data access for movies

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"time"         // time for creation timestamps
)

// Movie represents a film in the catalog.  Inactive movies are kept for
// history but hidden from the public list.
type Movie struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Duration    uint32    `json:"duration"`
	Genre       *string   `json:"genre,omitempty"`
	PosterURL   *string   `json:"poster_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovieRepo provides methods to work with movies in the database.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// Create inserts a movie record. On success the movie's ID is populated.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	const q = `INSERT INTO movies (title, description, duration, genre, poster_url)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.Duration, m.Genre, m.PosterURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	m.IsActive = true
	return nil
}

// ListActive retrieves all active movies ordered by title.
func (r *MovieRepo) ListActive(ctx context.Context) ([]Movie, error) {
	const q = `SELECT id, title, description, duration, genre, poster_url, is_active, created_at
	           FROM movies WHERE is_active = TRUE ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var movies []Movie
	for rows.Next() {
		m, scanErr := scanMovie(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetByID retrieves a movie by its id.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*Movie, error) {
	const q = `SELECT id, title, description, duration, genre, poster_url, is_active, created_at
	           FROM movies WHERE id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	var m Movie
	var desc, genre, poster sql.NullString
	err := row.Scan(&m.ID, &m.Title, &desc, &m.Duration, &genre, &poster, &m.IsActive, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	assignNullString(&m.Description, desc)
	assignNullString(&m.Genre, genre)
	assignNullString(&m.PosterURL, poster)
	return &m, nil
}

// DeleteCascade removes a movie together with everything hanging off it:
// seats of its showtimes first (booked or not), then bookings, then the
// showtimes themselves, then the movie.  The whole cascade runs in one
// transaction so a failure leaves the catalog untouched.  Returns
// ErrMovieNotFound when no movie row was deleted.
func (r *MovieRepo) DeleteCascade(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seats WHERE showtime_id IN (SELECT id FROM showtimes WHERE movie_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bookings WHERE showtime_id IN (SELECT id FROM showtimes WHERE movie_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM showtimes WHERE movie_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func scanMovie(rows *sql.Rows) (Movie, error) {
	var m Movie
	var desc, genre, poster sql.NullString
	if err := rows.Scan(&m.ID, &m.Title, &desc, &m.Duration, &genre, &poster, &m.IsActive, &m.CreatedAt); err != nil {
		return Movie{}, err
	}
	assignNullString(&m.Description, desc)
	assignNullString(&m.Genre, genre)
	assignNullString(&m.PosterURL, poster)
	return m, nil
}

func assignNullString(dst **string, src sql.NullString) {
	if src.Valid {
		v := src.String
		*dst = &v
	}
}
