package contract

import "context"

// RowStoreRepository is the narrow contract to the destination spreadsheet.
// The header row is read at call time, never assumed: the sheet is authored
// by non-engineers and its column order may change under us.
type RowStoreRepository interface {
	// Headers returns the live header row. An empty slice means the sheet
	// has no header yet; callers fall back to the canonical column list.
	Headers(ctx context.Context) ([]string, error)
	// Append writes one row of cell values, already ordered to match the
	// headers the caller fetched.
	Append(ctx context.Context, values []interface{}) error
}
