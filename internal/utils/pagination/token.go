// Package pagination encodes keyset cursors for list endpoints.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor is the position of the last row of a page. Rows are ordered by
// (SortDate, CreatedAt, ID) descending; ID breaks ties between rows created
// in the same instant.
type Cursor struct {
	SortDate  time.Time
	CreatedAt time.Time
	ID        string
}

// Encode renders the cursor as an opaque, query-string safe token.
func (c Cursor) Encode() string {
	raw := strings.Join([]string{c.SortDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.ID}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by Cursor.Encode.
func DecodeCursor(token string) (Cursor, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	var c Cursor
	if c.SortDate, err = time.Parse(timeFormat, parts[0]); err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (sort date parse): %w", err)
	}
	if c.CreatedAt, err = time.Parse(timeFormat, parts[1]); err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	c.ID = parts[2]
	return c, nil
}
