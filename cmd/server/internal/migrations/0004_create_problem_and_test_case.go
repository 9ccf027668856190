package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0004, Down0004)
}

func Up0004(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE problem (
	id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
	title TEXT NOT NULL,
	kind TEXT NOT NULL DEFAULT 'practice',
	difficulty TEXT NOT NULL DEFAULT '',
	cpu_time_limit_secs DOUBLE PRECISION,
	memory_limit_mb BIGINT,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);

CREATE TRIGGER problem_touch_updated_at
BEFORE UPDATE ON problem
FOR EACH ROW EXECUTE PROCEDURE touch_updated_at();

CREATE TABLE test_case (
	id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
	problem_id UUID NOT NULL REFERENCES problem (id) ON DELETE CASCADE,
	ordinal INTEGER NOT NULL,
	input TEXT NOT NULL,
	expected_output TEXT NOT NULL,
	is_sample BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	UNIQUE (problem_id, ordinal)
);

CREATE TRIGGER test_case_touch_updated_at
BEFORE UPDATE ON test_case
FOR EACH ROW EXECUTE PROCEDURE touch_updated_at();
`)
	if err != nil {
		return err
	}

	return nil
}

func Down0004(ctx context.Context, tx *sql.Tx) error {
	return execStatements(ctx, tx,
		statement{query: `DROP TABLE test_case;`},
		statement{query: `DROP TABLE problem;`},
	)
}
