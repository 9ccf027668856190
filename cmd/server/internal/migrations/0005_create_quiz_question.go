package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0005, Down0005)
}

func Up0005(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE quiz_question (
	id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
	prompt TEXT NOT NULL,
	options JSONB NOT NULL DEFAULT '[]'::jsonb,
	correct_option INTEGER NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);

CREATE TRIGGER quiz_question_touch_updated_at
BEFORE UPDATE ON quiz_question
FOR EACH ROW EXECUTE PROCEDURE touch_updated_at();
`)
	if err != nil {
		return err
	}

	return nil
}

func Down0005(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE quiz_question;`)
	if err != nil {
		return err
	}

	return nil
}
