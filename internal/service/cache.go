package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ringside/roster-service/internal/domain"
	"github.com/ringside/roster-service/internal/events"
	"github.com/ringside/roster-service/internal/repository"
	apperrors "github.com/ringside/roster-service/pkg/util"
)

// StatusCache serves frequently requested derived-status lists (bookable
// wrestlers, bookable tag teams, active titles) out of Redis. Entries are
// TTL-bounded and dropped eagerly whenever a relevant transition commits, so
// a cold read is never more than one transition behind.
type StatusCache struct {
	client  *redis.Client
	members repository.RosterRepository
	titles  repository.TitleRepository
	ttl     time.Duration
	logger  *zap.Logger
}

// NewStatusCache constructs the cache. A nil client disables caching and all
// reads go straight to the repositories.
func NewStatusCache(client *redis.Client, members repository.RosterRepository, titles repository.TitleRepository, ttl time.Duration, logger *zap.Logger) *StatusCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatusCache{client: client, members: members, titles: titles, ttl: ttl, logger: logger}
}

func bookableKey(kind domain.RosterMemberKind) string {
	return fmt.Sprintf("roster:bookable:%s", kind)
}

const activeTitlesKey = "roster:titles:active"

// BookableMembers returns the currently bookable members of one kind.
func (c *StatusCache) BookableMembers(ctx context.Context, kind domain.RosterMemberKind) ([]domain.RosterMember, error) {
	key := bookableKey(kind)
	if c.client != nil {
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var cached []domain.RosterMember
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			// Corrupt entry, fall through to the repository.
			c.client.Del(ctx, key)
		}
	}

	members, err := c.members.ListWithFilter(ctx, repository.RosterFilter{
		Kind:     &kind,
		Statuses: []domain.Status{domain.StatusBookable},
		Limit:    500,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	c.store(ctx, key, members)
	return members, nil
}

// ActiveTitles returns the currently active titles.
func (c *StatusCache) ActiveTitles(ctx context.Context) ([]domain.Title, error) {
	if c.client != nil {
		if raw, err := c.client.Get(ctx, activeTitlesKey).Bytes(); err == nil {
			var cached []domain.Title
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			c.client.Del(ctx, activeTitlesKey)
		}
	}

	titles, err := c.titles.ListWithFilter(ctx, repository.ActivatableFilter{
		Statuses: []domain.ActivationStatus{domain.ActivationActive},
		Limit:    500,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	c.store(ctx, activeTitlesKey, titles)
	return titles, nil
}

// RegisterHandlers subscribes cache invalidation to transition events.
func (c *StatusCache) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventStatusChanged, c.invalidateStatus)
	dispatcher.Subscribe(events.EventActivationChanged, c.invalidateActivation)
}

func (c *StatusCache) invalidateStatus(ctx context.Context, event events.Event) error {
	key := bookableKey(domain.RosterMemberKind(event.EntityType))
	c.drop(ctx, key)
	return nil
}

func (c *StatusCache) invalidateActivation(ctx context.Context, event events.Event) error {
	if event.EntityType == domain.EntityTitle {
		c.drop(ctx, activeTitlesKey)
	}
	return nil
}

func (c *StatusCache) store(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *StatusCache) drop(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
