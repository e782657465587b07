package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"

	"payper-storefront/internal/status"
	"payper-storefront/models"
)

// soldCountTTL bounds how stale a cached sold count may get. Writes
// invalidate the key, the TTL only covers missed invalidations.
const soldCountTTL = 30 * time.Second

// CatalogService reads the event catalog. Events and ticket types are
// owned by an external admin tool; this service never writes them.
type CatalogService struct {
	app   core.App
	redis *redis.Client
}

func NewCatalogService(app core.App, redisClient *redis.Client) *CatalogService {
	return &CatalogService{
		app:   app,
		redis: redisClient,
	}
}

// ListEvents returns events newest first with the creator display name.
func (s *CatalogService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	records, err := s.app.FindRecordsByFilter("events", "", "-created", 200, 0)
	if err != nil {
		return nil, fmt.Errorf("listEvents: find events: %w", err)
	}

	events := make([]*models.Event, 0, len(records))
	for _, r := range records {
		ev := eventFromRecord(r)
		if creator, err := s.app.FindRecordById("users", ev.CreatedBy); err == nil {
			ev.CreatorName = creator.GetString("name")
		}
		events = append(events, ev)
	}

	return events, nil
}

// GetEvent returns one event with its ticket types, each annotated with
// live sold and available counts.
func (s *CatalogService) GetEvent(ctx context.Context, eventID string) (*models.EventWithTicketTypes, error) {
	record, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, status.ErrEventNotFound
	}

	ev := eventFromRecord(record)
	if creator, err := s.app.FindRecordById("users", ev.CreatedBy); err == nil {
		ev.CreatorName = creator.GetString("name")
	}

	typeRecords, err := s.app.FindRecordsByFilter(
		"ticket_types",
		"event_id = {:eventId}",
		"price",
		0,
		0,
		dbx.Params{"eventId": eventID},
	)
	if err != nil {
		return nil, fmt.Errorf("getEvent: find ticket types: %w", err)
	}

	ticketTypes := make([]models.TicketType, 0, len(typeRecords))
	for _, r := range typeRecords {
		tt := ticketTypeFromRecord(r)
		sold, err := s.SoldCount(ctx, tt.ID)
		if err != nil {
			return nil, err
		}
		tt.QuantitySold = sold
		tt.QuantityAvailable = tt.TotalQuantity - sold
		if tt.QuantityAvailable < 0 {
			tt.QuantityAvailable = 0
		}
		ticketTypes = append(ticketTypes, *tt)
	}

	return &models.EventWithTicketTypes{
		Event:       *ev,
		TicketTypes: ticketTypes,
	}, nil
}

// SoldCount sums purchased quantities for a ticket type, excluding
// cancelled items. Served through a short redis cache.
func (s *CatalogService) SoldCount(ctx context.Context, ticketTypeID string) (int, error) {
	key := soldCountKey(ticketTypeID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			if sold, err := strconv.Atoi(cached); err == nil {
				return sold, nil
			}
		}
	}

	sold, err := countSold(s.app, ticketTypeID)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, sold, soldCountTTL).Err(); err != nil {
			slog.Warn("soldCount: cache write failed", "ticketTypeId", ticketTypeID, "error", err)
		}
	}

	return sold, nil
}

// InvalidateSoldCount drops the cached counts after an order write so
// the next read sees the database.
func (s *CatalogService) InvalidateSoldCount(ctx context.Context, ticketTypeIDs ...string) {
	if s.redis == nil || len(ticketTypeIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(ticketTypeIDs))
	for _, id := range ticketTypeIDs {
		keys = append(keys, soldCountKey(id))
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("invalidateSoldCount: redis.Del", "error", err)
	}
}

func soldCountKey(ticketTypeID string) string {
	return fmt.Sprintf("sold:%s", ticketTypeID)
}

// countSold is the uncached query. It runs against whatever app is
// handed in so transactional writes can recheck against their own view.
func countSold(app core.App, ticketTypeID string) (int, error) {
	var sold int
	err := app.DB().
		NewQuery("SELECT COALESCE(SUM(amount), 0) FROM order_items WHERE ticket_type_id = {:tt} AND status != {:cancelled}").
		Bind(map[string]any{
			"tt":        ticketTypeID,
			"cancelled": models.OrderStatusCancelled,
		}).
		Row(&sold)
	if err != nil {
		return 0, fmt.Errorf("countSold: %w", err)
	}
	return sold, nil
}
