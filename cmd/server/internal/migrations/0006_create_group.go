package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0006, Down0006)
}

func Up0006(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE community_group (
	id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
	name TEXT NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);

CREATE TRIGGER community_group_touch_updated_at
BEFORE UPDATE ON community_group
FOR EACH ROW EXECUTE PROCEDURE touch_updated_at();

CREATE TABLE community_group_member (
	id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
	group_id UUID NOT NULL REFERENCES community_group (id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES app_user (id) ON DELETE CASCADE,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	UNIQUE (group_id, user_id)
);

CREATE TRIGGER community_group_member_touch_updated_at
BEFORE UPDATE ON community_group_member
FOR EACH ROW EXECUTE PROCEDURE touch_updated_at();
`)
	if err != nil {
		return err
	}

	return nil
}

func Down0006(ctx context.Context, tx *sql.Tx) error {
	return execStatements(ctx, tx,
		statement{query: `DROP TABLE community_group_member;`},
		statement{query: `DROP TABLE community_group;`},
	)
}
