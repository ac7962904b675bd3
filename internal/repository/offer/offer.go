package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
)

const offerColumns = `id, order_id, courier_id, restaurant_id, status, expires_at,
		pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, price_cents, customer_name,
		purge_after, created_at, updated_at`

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, offerCreate entities.OfferCreate) (*entities.Offer, error) {
	query := fmt.Sprintf(`
		INSERT INTO offers (order_id, courier_id, restaurant_id, status, expires_at,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, price_cents, customer_name,
			purge_after)
		VALUES ($1, $2, $3, 'pending', $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s`, offerColumns)

	var offerDB OfferDB
	err := scanOffer(r.querier.QueryRow(
		ctx,
		query,
		offerCreate.OrderID,
		offerCreate.CourierID,
		offerCreate.RestaurantID,
		offerCreate.ExpiresAt,
		offerCreate.Pickup.Lat,
		offerCreate.Pickup.Lng,
		offerCreate.Dropoff.Lat,
		offerCreate.Dropoff.Lng,
		offerCreate.PriceCents,
		offerCreate.CustomerName,
		offerCreate.PurgeAfter,
	), &offerDB)
	if err != nil {
		return nil, fmt.Errorf("unexpected offer repository create error: %w", err)
	}

	return ToDomain(&offerDB), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Offer, error) {
	query := fmt.Sprintf(`SELECT %s FROM offers WHERE id = $1`, offerColumns)

	var offerDB OfferDB
	err := scanOffer(r.querier.QueryRow(ctx, query, id), &offerDB)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrOfferNotFound
		}
		return nil, fmt.Errorf("unexpected offer repository get error: %w", err)
	}

	return ToDomain(&offerDB), nil
}

func (r *Repository) ListByOrderID(ctx context.Context, orderID string, limit int) ([]entities.Offer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM offers
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, offerColumns)

	return r.list(ctx, query, orderID, limit)
}

// ListExpiredPending возвращает просроченные pending-офферы, самые старые первыми.
func (r *Repository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]entities.Offer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM offers
		WHERE status = 'pending'
		  AND expires_at <= $1
		ORDER BY expires_at ASC
		LIMIT $2`, offerColumns)

	return r.list(ctx, query, now, limit)
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status entities.OfferStatusType) (*entities.Offer, error) {
	query := fmt.Sprintf(`
		UPDATE offers
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, offerColumns)

	var offerDB OfferDB
	err := scanOffer(r.querier.QueryRow(ctx, query, id, status.String()), &offerDB)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrOfferNotFound
		}
		return nil, fmt.Errorf("unexpected offer repository update status error: %w", err)
	}

	return ToDomain(&offerDB), nil
}

// ExpirePendingByOrder закрывает все pending-офферы заказа кроме exceptOfferID.
// Пустой exceptOfferID закрывает все pending-офферы заказа.
func (r *Repository) ExpirePendingByOrder(ctx context.Context, orderID, exceptOfferID string) (int64, error) {
	query := `
		UPDATE offers
		SET status = 'expired', updated_at = NOW()
		WHERE order_id = $1
		  AND status = 'pending'
		  AND id != $2`

	result, err := r.querier.Exec(ctx, query, orderID, exceptOfferID)
	if err != nil {
		return 0, fmt.Errorf("unexpected offer repository expire pending error: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *Repository) CancelPendingByOrder(ctx context.Context, orderID string) (int64, error) {
	query := `
		UPDATE offers
		SET status = 'cancelled', updated_at = NOW()
		WHERE order_id = $1
		  AND status = 'pending'`

	result, err := r.querier.Exec(ctx, query, orderID)
	if err != nil {
		return 0, fmt.Errorf("unexpected offer repository cancel pending error: %w", err)
	}

	return result.RowsAffected(), nil
}

// CountLivePendingByCourier считает живые pending-офферы курьера.
// Скан ограничен limit строками, точный счет сверх порога не нужен.
func (r *Repository) CountLivePendingByCourier(ctx context.Context, courierID string, now time.Time, limit int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT 1
			FROM offers
			WHERE courier_id = $1
			  AND status = 'pending'
			  AND expires_at > $2
			LIMIT $3
		) bounded`

	var count int
	err := r.querier.QueryRow(ctx, query, courierID, now, limit).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("unexpected offer repository count pending error: %w", err)
	}

	return count, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]entities.Offer, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected offer repository list error: %w", err)
	}
	defer rows.Close()

	var offers []entities.Offer
	for rows.Next() {
		var offerDB OfferDB
		if err := scanOffer(rows, &offerDB); err != nil {
			return nil, fmt.Errorf("unexpected offer repository list scan error: %w", err)
		}
		offers = append(offers, *ToDomain(&offerDB))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected offer repository list rows error: %w", err)
	}

	return offers, nil
}

func scanOffer(row pgx.Row, o *OfferDB) error {
	return row.Scan(
		&o.ID,
		&o.OrderID,
		&o.CourierID,
		&o.RestaurantID,
		&o.Status,
		&o.ExpiresAt,
		&o.PickupLat,
		&o.PickupLng,
		&o.DropoffLat,
		&o.DropoffLng,
		&o.PriceCents,
		&o.CustomerName,
		&o.PurgeAfter,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}
