package postgres

import "context"

// Migrate creates the pressroom tables if they do not exist. Intended for
// server startup and test setup; production deployments can apply the same
// DDL through their own migration tooling.
func Migrate(ctx context.Context, db DBTX) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS content (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			subcategory TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'Draft',
			attachments JSONB NOT NULL DEFAULT '[]',
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS content_version (
			id UUID PRIMARY KEY,
			content_id UUID NOT NULL,
			version BIGINT NOT NULL,
			created_by TEXT NOT NULL DEFAULT '',
			snapshot JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_content_version_content_id
			ON content_version (content_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_content_category
			ON content (category, subcategory)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
