// Package services holds the application use cases between the HTTP layer
// and storage.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rege/internal/amqp"
	"rege/internal/cache"
	"rege/internal/core"
	"rege/internal/log"
	"rege/internal/storage"
)

// publisher is the slice of the AMQP client the service needs. Nil means
// the sync pipeline is disabled.
type publisher interface {
	Publish(ctx context.Context, msg *amqp.SyncMessage) error
}

// TransactionService owns transaction and category use cases plus the
// cached window summaries.
type TransactionService struct {
	store     *storage.Store
	publisher publisher
	summaries *cache.LRU[core.Summary]
	logger    *log.Logger
	now       func() time.Time
}

func NewTransactionService(store *storage.Store, pub publisher, summaries *cache.LRU[core.Summary], logger *log.Logger) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: pub,
		summaries: summaries,
		logger:    logger.WithComponent(log.ComponentStorage),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns the user's transactions in a window, newest first.
func (s *TransactionService) List(ctx context.Context, userID string, w core.Window) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.FilterTransactions(txs, w, s.now()), nil
}

// Create validates and persists a transaction, queues it for backup and
// invalidates the user's cached summaries.
func (s *TransactionService) Create(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, userID, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.invalidate(userID)

	if s.publisher != nil {
		// The pending sweeper covers publish failures, so the request
		// does not fail with the broker down.
		if err := s.publisher.Publish(ctx, amqp.NewSyncMessage(created.ID, 1)); err != nil {
			s.logger.WarnContext(ctx, "sync publish failed",
				log.FieldTxID, created.ID, log.FieldError, err.Error())
		}
	}

	s.logger.InfoContext(ctx, "transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, userID,
		log.FieldTxID, created.ID,
		log.FieldTxKind, string(created.Kind),
		log.FieldAmountCents, created.Amount.Cents,
		log.FieldCategory, created.Category)
	return created, nil
}

// Delete removes a transaction owned by the user.
func (s *TransactionService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.invalidate(userID)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, amqp.NewDeleteMessage(id)); err != nil {
			s.logger.WarnContext(ctx, "delete publish failed",
				log.FieldTxID, id, log.FieldError, err.Error())
		}
	}

	s.logger.InfoContext(ctx, "transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldUserID, userID,
		log.FieldTxID, id)
	return nil
}

// Summary returns the dashboard figures for a window, served from cache
// when a fresh entry exists.
func (s *TransactionService) Summary(ctx context.Context, userID string, w core.Window) (core.Summary, error) {
	key := cache.Key(userID, string(w))
	if cached, ok := s.summaries.Get(key); ok {
		return cached, nil
	}

	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list transactions: %w", err)
	}
	summary := core.Summarize(txs, w, s.now())
	s.summaries.Set(key, summary)
	return summary, nil
}

// Categories returns the user's merged category map: defaults overlaid with
// their custom categories.
func (s *TransactionService) Categories(ctx context.Context, userID string) (map[string]core.Category, error) {
	custom, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return core.MergeCategories(custom), nil
}

// CreateCategory registers a custom category keyed by the slug of its
// label.
func (s *TransactionService) CreateCategory(ctx context.Context, userID string, label, icon string, kind core.Kind, colorHex string) (core.Category, error) {
	key := core.Slugify(label)
	if key == "" {
		return core.Category{}, core.ErrEmptyCategory
	}
	if kind != core.Income && kind != core.Expense {
		return core.Category{}, core.ErrInvalidKind
	}

	iconTag, _ := core.ParseIcon(icon)
	c := core.Category{
		Key:    key,
		Label:  label,
		Icon:   iconTag,
		Kind:   kind,
		Colors: core.PaletteColor(colorHex),
	}
	created, err := s.store.CreateCategory(ctx, userID, c)
	if err != nil {
		return core.Category{}, err
	}

	s.logger.InfoContext(ctx, "category created",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, userID,
		log.FieldCategory, key)
	return created, nil
}

func (s *TransactionService) invalidate(userID string) {
	s.summaries.DeletePrefix(userID + ":")
}
