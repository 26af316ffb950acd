package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor is the position after the last row of a page. Rows are ordered by
// document date, then creation time, then id, all descending.
type Cursor struct {
	DocumentDate time.Time
	CreatedAt    time.Time
	ID           string
}

// EncodeToken creates a base64 encoded token from a cursor.
// This is used for consistent pagination across different repositories.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.DocumentDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.ID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	documentDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (document date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return Cursor{DocumentDate: documentDate, CreatedAt: createdAt, ID: parts[2]}, nil
}

// After reports whether a row at position c sorts after the cursor, i.e. belongs to
// the next page.
func (cur Cursor) After(c Cursor) bool {
	if !c.DocumentDate.Equal(cur.DocumentDate) {
		return c.DocumentDate.Before(cur.DocumentDate)
	}
	if !c.CreatedAt.Equal(cur.CreatedAt) {
		return c.CreatedAt.Before(cur.CreatedAt)
	}
	return c.ID < cur.ID
}

// NextToken returns the token for the page following rows when the page is full.
func NextToken(pageLen, limit int, last Cursor) *string {
	if limit <= 0 || pageLen < limit {
		return nil
	}
	token := EncodeToken(last)
	return &token
}
