package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0007, Down0007)
}

func Up0007(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE submission (
	id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
	user_id UUID NOT NULL REFERENCES app_user (id),
	problem_id UUID REFERENCES problem (id),
	quiz_question_id UUID REFERENCES quiz_question (id),
	source_code TEXT NOT NULL DEFAULT '',
	language_id INTEGER,
	selected_option INTEGER,
	status TEXT NOT NULL DEFAULT 'pending',
	test_cases_passed INTEGER NOT NULL DEFAULT 0,
	total_test_cases INTEGER NOT NULL DEFAULT 0,
	elapsed_secs DOUBLE PRECISION NOT NULL DEFAULT 0,
	memory_kb BIGINT NOT NULL DEFAULT 0,
	score BIGINT NOT NULL DEFAULT 0,
	stderr TEXT,
	compile_output TEXT,
	completed_at TIMESTAMP WITH TIME ZONE,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	CHECK ((problem_id IS NULL) != (quiz_question_id IS NULL)),
	CHECK (test_cases_passed <= total_test_cases)
);

CREATE INDEX submission_user_id_idx ON submission (user_id);
CREATE INDEX submission_problem_id_idx ON submission (problem_id);
CREATE INDEX submission_status_idx ON submission (status);

CREATE TRIGGER submission_touch_updated_at
BEFORE UPDATE ON submission
FOR EACH ROW EXECUTE PROCEDURE touch_updated_at();
`)
	if err != nil {
		return err
	}

	return nil
}

func Down0007(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE submission;`)
	if err != nil {
		return err
	}

	return nil
}
