package tx

import (
	"context"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"github.com/avito-tech/go-transaction-manager/trm/settings"
	"github.com/jackc/pgx/v5"

	"dispatch/pkg/retrier"
	"dispatch/pkg/retrier/backoff_adapter"
)

const (
	conflictInitialInterval = 10 * time.Millisecond
	conflictMaxInterval     = 200 * time.Millisecond
	conflictMaxElapsedTime  = 3 * time.Second
	conflictRandomization   = 0.5
	conflictMultiplier      = 2
)

// Manager инкапсулирует логику управления транзакциями.
//
// Do выполняет fn в SERIALIZABLE-транзакции и прозрачно перезапускает
// весь блок при конфликте сериализации (SQLSTATE 40001/40P01).
// Поэтому fn обязан быть повторно исполняемым: сначала все чтения,
// решение, затем записи, без побочных эффектов вне транзакции.
type Manager struct {
	internal *manager.Manager
	retrier  retrier.Retrier
}

type ConflictFunc func(error) bool

// New создаёт новый менеджер транзакций.
// isConflict определяет, какие ошибки считаются конфликтом и ретраятся.
func New(db pgxv5.Transactional, isConflict ConflictFunc) *Manager {
	conflictRetrier := backoff_adapter.New(retrier.Config{
		InitialInterval: conflictInitialInterval,
		MaxInterval:     conflictMaxInterval,
		MaxElapsedTime:  conflictMaxElapsedTime,
		Randomization:   conflictRandomization,
		Multiplier:      conflictMultiplier,
		ShouldRetry:     retrier.ShouldRetryFunc(isConflict),
	})

	return &Manager{
		internal: manager.Must(pgxv5.NewDefaultFactory(db)),
		retrier:  conflictRetrier,
	}
}

func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		return m.execWithIsoLevel(ctx, pgx.Serializable, fn)
	})
}

func (m *Manager) execWithIsoLevel(
	ctx context.Context,
	level pgx.TxIsoLevel,
	fn func(ctx context.Context) error,
) error {
	txSettings := pgxv5.MustSettings(
		settings.Must(),
		pgxv5.WithTxOptions(pgx.TxOptions{IsoLevel: level}),
	)
	return m.internal.DoWithSettings(ctx, txSettings, fn)
}
