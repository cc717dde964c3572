package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/m3rciful/potzbot/core/kvstore"
	"github.com/m3rciful/potzbot/core/logger"
)

// Repository loads and saves sessions as JSON records keyed by the decimal chat id.
type Repository struct {
	store kvstore.Store
}

// NewRepository wraps a key-value store.
func NewRepository(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

// Key returns the record key for a chat.
func Key(chatID int64) string { return strconv.FormatInt(chatID, 10) }

// Load returns the chat's session. A missing record, a malformed record and a
// store failure all yield New(); the latter two are logged.
func (r *Repository) Load(ctx context.Context, chatID int64) *Session {
	key := Key(chatID)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			logger.Error(ctx, "session", "session.load_failed",
				slog.String("key", key),
				slog.String("err", err.Error()),
			)
		}
		return New()
	}
	s := New()
	if err := json.Unmarshal(raw, s); err != nil {
		logger.Warn(ctx, "session", "session.malformed",
			slog.String("key", key),
			slog.Int("bytes", len(raw)),
			slog.String("err", err.Error()),
		)
		return New()
	}
	s.normalize()
	return s
}

// Save overwrites the chat's record. Failures are logged and dropped.
func (r *Repository) Save(ctx context.Context, chatID int64, s *Session) {
	if s == nil {
		return
	}
	key := Key(chatID)
	raw, err := json.Marshal(s)
	if err != nil {
		logger.Error(ctx, "session", "session.encode_failed",
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
		return
	}
	if err := r.store.Put(ctx, key, raw); err != nil {
		logger.Error(ctx, "session", "session.save_failed",
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.Debug(ctx, "session", "session.saved",
		slog.String("key", key),
		slog.String("state", string(s.State)),
		slog.Int("bytes", len(raw)),
	)
}

// Delete removes the chat's record.
func (r *Repository) Delete(ctx context.Context, chatID int64) error {
	return r.store.Delete(ctx, Key(chatID))
}
