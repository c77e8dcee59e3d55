package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressroomhq/pressroom/pkg/pressroom"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements pressroom.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) pressroom.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) pressroom.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *pressroom.Content) error {
	attachments, err := json.Marshal(content.Attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	query := `
		INSERT INTO content (
			id, title, summary, date, category, subcategory,
			status, attachments, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.Exec(ctx, query,
		content.ID, content.Title, content.Summary, content.Date,
		content.Category, content.Subcategory, string(content.Status),
		attachments, content.CreatedBy, content.CreatedAt, content.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create content", err)
	}

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*pressroom.Content, error) {
	query := `
		SELECT id, title, summary, date, category, subcategory,
		       status, attachments, created_by, created_at, updated_at
		FROM content WHERE id = $1`

	content, err := scanContent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pressroom.ErrContentNotFound
		}
		return nil, err
	}

	return content, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *pressroom.Content) error {
	attachments, err := json.Marshal(content.Attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	query := `
		UPDATE content SET
			title = $2, summary = $3, date = $4, category = $5,
			subcategory = $6, status = $7, attachments = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		content.ID, content.Title, content.Summary, content.Date,
		content.Category, content.Subcategory, string(content.Status),
		attachments, content.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		return pressroom.ErrContentNotFound
	}

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return pressroom.ErrContentNotFound
	}

	return nil
}

func (r *Repository) ListContent(ctx context.Context, filter pressroom.ContentFilter) ([]*pressroom.Content, error) {
	query := `
		SELECT id, title, summary, date, category, subcategory,
		       status, attachments, created_by, created_at, updated_at
		FROM content`

	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Subcategory != "" {
		args = append(args, filter.Subcategory)
		conditions = append(conditions, fmt.Sprintf("subcategory = $%d", len(args)))
	}
	if filter.TitleQuery != "" {
		args = append(args, "%"+filter.TitleQuery+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list content", err)
	}
	defer rows.Close()

	result := make([]*pressroom.Content, 0)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, content)
	}

	return result, rows.Err()
}

// Version ledger operations

func (r *Repository) CreateVersion(ctx context.Context, version *pressroom.ContentVersion) error {
	snapshot, err := json.Marshal(version.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO content_version (
			id, content_id, version, created_by, snapshot, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Exec(ctx, query,
		version.ID, version.ContentID, version.Version,
		version.CreatedBy, snapshot, version.CreatedAt)

	if err != nil {
		return r.handlePostgresError("create version", err)
	}

	return nil
}

func (r *Repository) ListVersionsByContentID(ctx context.Context, contentID uuid.UUID) ([]*pressroom.ContentVersion, error) {
	query := `
		SELECT id, content_id, version, created_by, snapshot, created_at
		FROM content_version
		WHERE content_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		return nil, r.handlePostgresError("list versions", err)
	}
	defer rows.Close()

	result := make([]*pressroom.ContentVersion, 0)
	for rows.Next() {
		var version pressroom.ContentVersion
		var snapshot []byte
		if err := rows.Scan(&version.ID, &version.ContentID, &version.Version,
			&version.CreatedBy, &snapshot, &version.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(snapshot, &version.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		result = append(result, &version)
	}

	return result, rows.Err()
}

func (r *Repository) DeleteVersionsByContentID(ctx context.Context, contentID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM content_version WHERE content_id = $1`, contentID)
	if err != nil {
		return r.handlePostgresError("delete versions", err)
	}

	return nil
}

// scanContent reads one content row from either a pgx.Row or pgx.Rows.
func scanContent(row pgx.Row) (*pressroom.Content, error) {
	var content pressroom.Content
	var status string
	var attachments []byte

	err := row.Scan(&content.ID, &content.Title, &content.Summary, &content.Date,
		&content.Category, &content.Subcategory, &status, &attachments,
		&content.CreatedBy, &content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		return nil, err
	}

	content.Status = pressroom.ContentStatus(status)
	if err := json.Unmarshal(attachments, &content.Attachments); err != nil {
		return nil, fmt.Errorf("failed to decode attachments: %w", err)
	}

	return &content, nil
}
