package book

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes mapped to domain errors.
const (
	pgUniqueViolation      = "23505"
	pgStringDataTruncation = "22001"
)

// maxBookID is the largest value a SERIAL (int4) book_id can hold. Larger
// ids cannot be bound as parameters and match no row.
const maxBookID = math.MaxInt32

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS books (
		book_id     SERIAL PRIMARY KEY,
		author      VARCHAR(50)  NOT NULL,
		title       VARCHAR(255) NOT NULL,
		isbn        VARCHAR(30)  NOT NULL,
		image_url   VARCHAR(255) NOT NULL,
		description TEXT         NOT NULL
	)`

// naturalKeySQL is a separate statement so tables created before the key
// existed pick it up too.
const naturalKeySQL = `
	CREATE UNIQUE INDEX IF NOT EXISTS books_natural_key
	ON books (title, author, isbn)`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, schemaSQL); err != nil {
		return storeError("create books table", err)
	}
	if _, err := r.db.Exec(timeoutCtx, naturalKeySQL); err != nil {
		return storeError("create books natural key", err)
	}
	return nil
}

func (r *PostgresRepo) ListSummaries(ctx context.Context) ([]Summary, error) {
	const query = `
		SELECT book_id, title, author, image_url
		FROM books
		ORDER BY book_id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, storeError("list books", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.ImageURL); err != nil {
			return nil, storeError("scan book summary", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list books", err)
	}
	return out, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT book_id, title, author, isbn, image_url, description
		FROM books
		WHERE book_id = $1`

	if id > maxBookID {
		return Book{}, ErrNotFound
	}

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.ImageURL, &b.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, storeError("get book", err)
	}
	return b, nil
}

// Create inserts a book unless one with the same title, author and isbn
// exists, in which case nothing is written and the duplicate is reported.
func (r *PostgresRepo) Create(ctx context.Context, f Fields) (CreateResult, error) {
	const sql = `
		INSERT INTO books (title, author, isbn, image_url, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (title, author, isbn) DO NOTHING
		RETURNING book_id`

	f = f.WithDefaults()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int64
	err := r.db.QueryRow(timeoutCtx, sql, f.Title, f.Author, f.ISBN, f.ImageURL, f.Description).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CreateResult{Outcome: OutcomeIgnoredDuplicate}, nil
		}
		return CreateResult{}, storeError("create book", err)
	}
	return CreateResult{Outcome: OutcomeCreated, ID: id}, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, f Fields) error {
	const sql = `
		UPDATE books SET
			title = $1,
			author = $2,
			isbn = $3,
			image_url = $4,
			description = $5
		WHERE book_id = $6`

	if id > maxBookID {
		return ErrNotFound
	}

	f = f.WithDefaults()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, sql, f.Title, f.Author, f.ISBN, f.ImageURL, f.Description, id)
	if err != nil {
		return storeError("update book", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the book. Deleting a missing book is not an error.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	const sql = `DELETE FROM books WHERE book_id = $1`

	if id > maxBookID {
		return nil
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, sql, id); err != nil {
		return storeError("delete book", err)
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return 0, storeError("count books", err)
	}
	return total, nil
}

// storeError classifies a database error. Constraint failures keep their
// domain meaning; everything else is reported as the store being unavailable.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
		case pgStringDataTruncation:
			return fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
