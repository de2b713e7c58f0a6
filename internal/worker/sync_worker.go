// Package worker mirrors transactions from sqlite to the backup sheet. It
// consumes AMQP messages and additionally sweeps the pending queue so lost
// messages still get synced.
package worker

import (
	"context"
	"errors"
	"fmt"

	"rege/internal/amqp"
	"rege/internal/backup"
	"rege/internal/log"
	"rege/internal/storage"
)

type SyncWorker struct {
	store     *storage.Store
	mirror    backup.Mirror
	batchSize int
	logger    *log.Logger
}

func NewSyncWorker(store *storage.Store, mirror backup.Mirror, batchSize int, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		store:     store,
		mirror:    mirror,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleMessage processes one AMQP message.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	switch msg.Op {
	case amqp.OpSync:
		return w.syncTransaction(ctx, msg.ID)
	case amqp.OpDelete:
		if err := w.mirror.RemoveTransaction(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove mirrored transaction: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown op %q", msg.Op)
	}
}

// ProcessPending sweeps transactions the queue never delivered. Called at
// startup and on a timer.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "processing pending transactions", "count", len(pending))

	var failed int
	for _, p := range pending {
		if err := w.syncTransaction(ctx, p.ID); err != nil {
			w.logger.ErrorContext(ctx, "pending sync failed",
				log.FieldTxID, p.ID, log.FieldError, err.Error())
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pending transactions failed to sync", failed, len(pending))
	}
	return nil
}

func (w *SyncWorker) syncTransaction(ctx context.Context, id int64) error {
	userID, tx, err := w.store.GetTransactionForSync(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted before the worker got to it. Nothing to mirror.
			w.logger.WarnContext(ctx, "transaction gone, skipping sync", log.FieldTxID, id)
			return nil
		}
		return fmt.Errorf("load transaction: %w", err)
	}

	ref, err := w.mirror.AppendTransaction(ctx, userID, tx)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			w.logger.ErrorContext(ctx, "mark sync error failed",
				log.FieldTxID, id, log.FieldError, markErr.Error())
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		// The row landed in the sheet; a stale pending flag just means it
		// may be appended again by the sweeper.
		w.logger.ErrorContext(ctx, "mark synced failed",
			log.FieldTxID, id, log.FieldError, err.Error())
	}

	w.logger.InfoContext(ctx, "transaction synced",
		log.FieldOperation, log.OpSync,
		log.FieldTxID, id,
		log.FieldSheetsRef, ref,
		log.FieldAmountCents, tx.Amount.Cents)
	return nil
}
