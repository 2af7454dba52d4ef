package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/specquote/internal/build"
	"github.com/Simplici0/specquote/internal/compat"
	"github.com/Simplici0/specquote/internal/pricing"
	"github.com/Simplici0/specquote/internal/quote"
)

// QuoteSummary is one row of the saved quote listing.
type QuoteSummary struct {
	ID        int64           `json:"id"`
	CreatedAt string          `json:"createdAt"`
	Title     string          `json:"title"`
	Total     decimal.Decimal `json:"total"`
}

// SavedQuote is a stored quote with its snapshot as it was priced.
type SavedQuote struct {
	ID        int64          `json:"id"`
	CreatedAt string         `json:"createdAt"`
	Title     string         `json:"title"`
	Notes     string         `json:"notes"`
	Snapshot  quote.Snapshot `json:"snapshot"`
}

type buildRecord struct {
	Selection build.Selection   `json:"selection"`
	Addons    []build.AddonLine `json:"addons"`
	Issues    []compat.Issue    `json:"issues"`
}

// SaveQuote stores snap and returns the new quote id.
func (s *Store) SaveQuote(title, notes string, snap quote.Snapshot) (int64, error) {
	buildJSON, err := json.Marshal(buildRecord{Selection: snap.Selection, Addons: snap.Addons, Issues: snap.Issues})
	if err != nil {
		return 0, fmt.Errorf("encode quote build: %w", err)
	}
	totalsJSON, err := json.Marshal(snap.Totals)
	if err != nil {
		return 0, fmt.Errorf("encode quote totals: %w", err)
	}

	result, err := s.db.Exec(`
		INSERT INTO quotes (title, notes, build_json, totals_json)
		VALUES (?, ?, ?, ?)
	`, strings.TrimSpace(title), strings.TrimSpace(notes), string(buildJSON), string(totalsJSON))
	if err != nil {
		return 0, fmt.Errorf("insert quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read quote id: %w", err)
	}
	return id, nil
}

// ListQuotes returns saved quotes newest first. A non-empty query filters on
// title and notes.
func (s *Store) ListQuotes(query string) ([]QuoteSummary, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT
			id,
			created_at,
			COALESCE(title, ''),
			totals_json
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]QuoteSummary, 0)
	for rows.Next() {
		var item QuoteSummary
		var totalsJSON string
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &totalsJSON); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.Total = extractTotal(totalsJSON)
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

// GetQuote returns the stored snapshot without recalculating it.
func (s *Store) GetQuote(id int64) (SavedQuote, error) {
	var (
		saved      SavedQuote
		buildJSON  string
		totalsJSON string
	)
	err := s.db.QueryRow(`
		SELECT id, created_at, COALESCE(title, ''), COALESCE(notes, ''), build_json, totals_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&saved.ID, &saved.CreatedAt, &saved.Title, &saved.Notes, &buildJSON, &totalsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedQuote{}, fmt.Errorf("quote %d: %w", id, ErrNotFound)
		}
		return SavedQuote{}, fmt.Errorf("query quote %d: %w", id, err)
	}

	var record buildRecord
	if err := json.Unmarshal([]byte(buildJSON), &record); err != nil {
		return SavedQuote{}, fmt.Errorf("decode quote %d build: %w", id, err)
	}
	var totals pricing.Result
	if err := json.Unmarshal([]byte(totalsJSON), &totals); err != nil {
		return SavedQuote{}, fmt.Errorf("decode quote %d totals: %w", id, err)
	}

	saved.Snapshot = quote.Snapshot{
		Selection: record.Selection,
		Addons:    record.Addons,
		Totals:    totals,
		Issues:    record.Issues,
	}
	return saved, nil
}

// extractTotal reads the net total from a totals document, tolerating older
// documents that used other key names.
func extractTotal(totalsJSON string) decimal.Decimal {
	var values map[string]json.RawMessage
	if err := json.Unmarshal([]byte(totalsJSON), &values); err != nil {
		return decimal.Zero
	}

	for _, key := range []string{"net", "total", "grand_total"} {
		raw, ok := values[key]
		if !ok {
			continue
		}
		var total decimal.Decimal
		if err := json.Unmarshal(raw, &total); err == nil {
			return total
		}
	}

	return decimal.Zero
}
