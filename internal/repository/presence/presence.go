package presence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
)

const presenceColumns = `courier_id, is_online, lat, lng, last_seen_at,
		active_orders_count, pending_offers_count, updated_at`

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// ListOnline возвращает онлайн-курьеров; фильтрация по свежести и лимитам
// делается на стороне сервиса, здесь только грубый срез.
func (r *Repository) ListOnline(ctx context.Context, limit int) ([]entities.CourierPresence, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM courier_presence
		WHERE is_online = TRUE
		ORDER BY last_seen_at DESC
		LIMIT $1`, presenceColumns)

	rows, err := r.querier.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("unexpected presence repository list online error: %w", err)
	}
	defer rows.Close()

	var records []entities.CourierPresence
	for rows.Next() {
		var presenceDB PresenceDB
		if err := scanPresence(rows, &presenceDB); err != nil {
			return nil, fmt.Errorf("unexpected presence repository list online scan error: %w", err)
		}
		records = append(records, *ToDomain(&presenceDB))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected presence repository list online rows error: %w", err)
	}

	return records, nil
}

// UpdateCounts пишет пересчитанные счетчики нагрузки.
// Запись presence может еще не существовать (курьер ни разу не подключался) -
// это не ошибка.
func (r *Repository) UpdateCounts(ctx context.Context, counts entities.CourierCounts) error {
	query := `
		UPDATE courier_presence
		SET active_orders_count = $2,
		    pending_offers_count = $3,
		    updated_at = NOW()
		WHERE courier_id = $1`

	result, err := r.querier.Exec(ctx, query, counts.CourierID, counts.ActiveOrdersCount, counts.PendingOffersCount)
	if err != nil {
		return fmt.Errorf("unexpected presence repository update counts error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrPresenceNotFound
	}

	return nil
}

func scanPresence(row pgx.Row, p *PresenceDB) error {
	return row.Scan(
		&p.CourierID,
		&p.IsOnline,
		&p.Lat,
		&p.Lng,
		&p.LastSeenAt,
		&p.ActiveOrdersCount,
		&p.PendingOffersCount,
		&p.UpdatedAt,
	)
}
