package dbx

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/dmitrijs2005/healthsync/internal/logging"
)

// OpaqueText serializes a structured sub-field for storage. Empty and JSON
// null values are stored as NULL.
func OpaqueText(raw json.RawMessage) sql.NullString {
	if len(raw) == 0 || string(raw) == "null" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

// OpaqueJSON parses stored text back into a structured value. Malformed
// text yields nil and is logged at warn level with the owning record.
func OpaqueJSON(ctx context.Context, s sql.NullString, table, id, column string) json.RawMessage {
	if !s.Valid || s.String == "" {
		return nil
	}
	if !json.Valid([]byte(s.String)) {
		logging.FromContext(ctx, logging.Discard()).Warn(ctx, "malformed structured field",
			"table", table, "id", id, "column", column)
		return nil
	}
	return json.RawMessage(s.String)
}
