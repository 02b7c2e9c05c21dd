package pagination

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination carries the cursor query parameters of a list endpoint.
type Pagination struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"`
}

// ClampedLimit normalizes a caller-supplied page size.
func (p *Pagination) ClampedLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}

// Cursor encodes the sort key of the last row on a page. Lists sort by
// created_at DESC, id DESC, so the next page starts strictly before it.
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

type PageInfo struct {
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

func EncodeCursor(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeCursor(s string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Page trims an over-fetched slice (limit+1 rows) and derives the page
// info from the last kept row.
func Page[T any](rows []T, limit int, cursorOf func(T) Cursor) ([]T, *PageInfo, error) {
	info := &PageInfo{}
	if len(rows) > limit {
		rows = rows[:limit]
		info.HasMore = true
	}
	if info.HasMore && len(rows) > 0 {
		next, err := EncodeCursor(cursorOf(rows[len(rows)-1]))
		if err != nil {
			return nil, nil, err
		}
		info.NextCursor = next
	}
	return rows, info, nil
}
