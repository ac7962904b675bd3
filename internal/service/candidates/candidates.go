// Package candidates - чистые функции отбора и ранжирования курьеров.
// Никакого состояния и I/O: вход - снимки presence, выход - упорядоченный выбор.
package candidates

import (
	"math"
	"sort"
	"time"

	"dispatch/internal/entities"
)

const earthRadiusMeters = 6371000

// Rules - пороги допуска курьера к назначению.
type Rules struct {
	PresenceStaleness time.Duration
	MaxActiveOrders   int
	MaxPendingOffers  int
}

// Eligible фильтрует presence-записи: онлайн, есть координаты, запись свежая,
// курьер не перегружен. Протухшая запись считается оффлайном независимо
// от is_online.
func Eligible(records []entities.CourierPresence, now time.Time, rules Rules) []entities.CourierPresence {
	eligible := make([]entities.CourierPresence, 0, len(records))
	for _, record := range records {
		if !record.IsOnline {
			continue
		}
		if record.Location.IsZero() {
			continue
		}
		if now.Sub(record.LastSeenAt) > rules.PresenceStaleness {
			continue
		}
		if record.ActiveOrdersCount >= rules.MaxActiveOrders {
			continue
		}
		if record.PendingOffersCount >= rules.MaxPendingOffers {
			continue
		}
		eligible = append(eligible, record)
	}
	return eligible
}

// RankByDistance сортирует кандидатов по удалению от точки забора.
// Возвращает courier_id по возрастанию дистанции; при равной дистанции
// порядок стабилизируется по courier_id.
func RankByDistance(pickup entities.GeoPoint, records []entities.CourierPresence) []string {
	type rankedCourier struct {
		courierID string
		distance  float64
	}

	ranked := make([]rankedCourier, 0, len(records))
	for _, record := range records {
		ranked = append(ranked, rankedCourier{
			courierID: record.CourierID,
			distance:  HaversineMeters(pickup, record.Location),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].courierID < ranked[j].courierID
	})

	courierIDs := make([]string, 0, len(ranked))
	for _, r := range ranked {
		courierIDs = append(courierIDs, r.courierID)
	}
	return courierIDs
}

// SelectNext выбирает курьера из ранжированного списка.
//
// Без lastOfferedCourierID берется ближайший. Иначе берется следующий за
// lastOfferedCourierID по кругу - так повторные попытки проходят весь список
// прежде чем вернуться к ближайшему. Если lastOfferedCourierID выпал из
// списка (курьер ушел в оффлайн), откатываемся к ближайшему.
func SelectNext(ranked []string, lastOfferedCourierID *string) (string, bool) {
	if len(ranked) == 0 {
		return "", false
	}

	if lastOfferedCourierID == nil {
		return ranked[0], true
	}

	for i, courierID := range ranked {
		if courierID == *lastOfferedCourierID {
			return ranked[(i+1)%len(ranked)], true
		}
	}

	return ranked[0], true
}

// HaversineMeters - расстояние по большому кругу в метрах.
func HaversineMeters(a, b entities.GeoPoint) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	dlat := degreesToRadians(b.Lat - a.Lat)
	dlng := degreesToRadians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
