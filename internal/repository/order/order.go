package order

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const orderColumns = `id, restaurant_id, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
		status, assigned_courier_id, current_offer_id, current_offer_courier_id,
		offer_expires_at, last_offered_courier_id, price_cents, customer_name,
		ready_at, created_at, updated_at`

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	var orderDB OrderDB
	err := scanOrder(r.querier.QueryRow(ctx, query, id), &orderDB)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository get error: %w", err)
	}

	return ToDomain(&orderDB), nil
}

// Update - частичное обновление, nil-поля не трогаем.
func (r *Repository) Update(ctx context.Context, orderModify entities.OrderModify) (*entities.Order, error) {
	if orderModify.ID == nil {
		return nil, repository.ErrOrderNotFound
	}

	builder := qb.
		Update("orders")

	if orderModify.Status != nil {
		builder = builder.Set("status", orderModify.Status.String())
	}
	if orderModify.AssignedCourierID != nil {
		builder = builder.Set("assigned_courier_id", orderModify.AssignedCourierID)
	}
	if orderModify.LastOfferedCourierID != nil {
		builder = builder.Set("last_offered_courier_id", orderModify.LastOfferedCourierID)
	}

	// указатель на оффер выставляется и сбрасывается только целиком
	switch {
	case orderModify.ClearCurrentOffer:
		builder = builder.
			Set("current_offer_id", nil).
			Set("current_offer_courier_id", nil).
			Set("offer_expires_at", nil)
	case orderModify.CurrentOfferID != nil:
		builder = builder.
			Set("current_offer_id", orderModify.CurrentOfferID).
			Set("current_offer_courier_id", orderModify.CurrentOfferCourierID).
			Set("offer_expires_at", orderModify.OfferExpiresAt)
	}

	builder = builder.Set("updated_at", sq.Expr("NOW()"))

	builder = builder.
		Where(sq.Eq{"id": orderModify.ID}).
		Suffix(fmt.Sprintf("RETURNING %s", orderColumns))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository update error: %w", err)
	}

	var orderDB OrderDB
	err = scanOrder(r.querier.QueryRow(ctx, query, args...), &orderDB)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository update error: %w", err)
	}

	return ToDomain(&orderDB), nil
}

// ListUnattended возвращает открытые заказы без назначенного курьера
// для страховочного прохода тика.
func (r *Repository) ListUnattended(ctx context.Context, limit int) ([]entities.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE status IN ('new', 'offered')
		  AND assigned_courier_id IS NULL
		ORDER BY ready_at ASC
		LIMIT $1`, orderColumns)

	rows, err := r.querier.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository list unattended error: %w", err)
	}
	defer rows.Close()

	var orders []entities.Order
	for rows.Next() {
		var orderDB OrderDB
		if err := scanOrder(rows, &orderDB); err != nil {
			return nil, fmt.Errorf("unexpected order repository list unattended scan error: %w", err)
		}
		orders = append(orders, *ToDomain(&orderDB))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository list unattended rows error: %w", err)
	}

	return orders, nil
}

// CountActiveByCourier считает заказы курьера в статусах taken/picked_up.
// Скан ограничен limit строками: точность сверх порога допуска не нужна.
func (r *Repository) CountActiveByCourier(ctx context.Context, courierID string, limit int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT 1
			FROM orders
			WHERE assigned_courier_id = $1
			  AND status IN ('taken', 'picked_up')
			LIMIT $2
		) bounded`

	var count int
	err := r.querier.QueryRow(ctx, query, courierID, limit).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("unexpected order repository count active error: %w", err)
	}

	return count, nil
}

func scanOrder(row pgx.Row, o *OrderDB) error {
	return row.Scan(
		&o.ID,
		&o.RestaurantID,
		&o.PickupLat,
		&o.PickupLng,
		&o.DropoffLat,
		&o.DropoffLng,
		&o.Status,
		&o.AssignedCourierID,
		&o.CurrentOfferID,
		&o.CurrentOfferCourierID,
		&o.OfferExpiresAt,
		&o.LastOfferedCourierID,
		&o.PriceCents,
		&o.CustomerName,
		&o.ReadyAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}
