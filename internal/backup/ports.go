// Package backup mirrors transactions to an external spreadsheet so users
// keep an off-site copy of their ledger.
package backup

import (
	"context"

	"rege/internal/core"
)

// Mirror is the outbound port the sync worker writes through.
type Mirror interface {
	// AppendTransaction adds one transaction row and returns a reference
	// to where it landed.
	AppendTransaction(ctx context.Context, userID string, tx core.Transaction) (rowRef string, err error)

	// RemoveTransaction clears the row for a deleted transaction. Removing
	// an id that was never mirrored is not an error.
	RemoveTransaction(ctx context.Context, id int64) error
}
