package resume

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/resumekit/internal/db"
)

// ErrNotFound is returned when a résumé does not exist.
var ErrNotFound = errors.New("resume not found")

// Store manages persistence of résumés. The editable document is stored as
// JSON; id, title and timestamps live in their own columns for listing.
type Store struct {
	db *db.DB
}

// NewStore creates a new résumé store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// document is the JSON-encoded part of a Resume.
type document struct {
	Contact    Contact       `json:"contact"`
	Summary    string        `json:"summary"`
	Experience []Experience  `json:"experience"`
	Skills     []string      `json:"skills"`
	Sections   []SectionKind `json:"sections"`
}

func encode(r *Resume) (string, error) {
	data, err := json.Marshal(document{
		Contact:    r.Contact,
		Summary:    r.Summary,
		Experience: r.Experience,
		Skills:     r.Skills,
		Sections:   r.Sections,
	})
	if err != nil {
		return "", fmt.Errorf("encoding resume: %w", err)
	}
	return string(data), nil
}

func decode(raw string, r *Resume) error {
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("decoding resume %s: %w", r.ID, err)
	}
	r.Contact = doc.Contact
	r.Summary = doc.Summary
	r.Experience = doc.Experience
	r.Skills = doc.Skills
	r.Sections = doc.Sections
	r.Normalize()
	return nil
}

// Create stores a new résumé. An empty ID is replaced with a UUID and the
// section order is normalized before writing.
func (s *Store) Create(ctx context.Context, r Resume) (*Resume, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Normalize()

	doc, err := encode(&r)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, title, document, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Title, doc, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting resume: %w", err)
	}
	return &r, nil
}

// Get retrieves a résumé by ID.
func (s *Store) Get(ctx context.Context, id string) (*Resume, error) {
	var r Resume
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, document, created_at, updated_at FROM resumes WHERE id = ?`, id,
	).Scan(&r.ID, &r.Title, &doc, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting resume: %w", err)
	}
	if err := decode(doc, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns résumés matching the filter, most recently updated first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Resume, error) {
	query := `SELECT id, title, document, created_at, updated_at FROM resumes WHERE 1=1`
	args := []any{}

	if filter.Title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+filter.Title+"%")
	}

	query += " ORDER BY updated_at DESC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		var r Resume
		var doc string
		if err := rows.Scan(&r.ID, &r.Title, &doc, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning resume: %w", err)
		}
		if err := decode(doc, &r); err != nil {
			return nil, err
		}
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}

// Update overwrites the stored résumé and bumps its UpdatedAt.
func (s *Store) Update(ctx context.Context, r *Resume) error {
	r.Normalize()
	r.UpdatedAt = time.Now().UTC()

	doc, err := encode(r)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE resumes SET title = ?, document = ?, updated_at = ? WHERE id = ?`,
		r.Title, doc, r.UpdatedAt, r.ID,
	)
	if err != nil {
		return fmt.Errorf("updating resume: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, r.ID)
	}
	return nil
}

// Delete removes a résumé and, through the foreign key, its history.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting resume: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of stored résumés.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting resumes: %w", err)
	}
	return n, nil
}
