package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"easycare-booking-api/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	appointmentCacheKeyPrefix = "appointments:"
	appointmentCacheTTL       = 3 * time.Minute
)

// AppointmentCache is a short-lived read-through cache of per-owner
// appointment lists. It is a pure performance layer: a miss or a Redis
// failure falls back to the database, and every write path for an owner
// invalidates that owner's entry. Entries expire on their own after the TTL,
// so staleness across instances is bounded to three minutes.
type AppointmentCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewAppointmentCache(redisClient *redis.Client, log *logrus.Logger) *AppointmentCache {
	return &AppointmentCache{
		redisClient: redisClient,
		log:         log,
	}
}

func (c *AppointmentCache) key(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s", appointmentCacheKeyPrefix, userID)
}

// Get returns the cached list for an owner, or ok=false on miss or error.
func (c *AppointmentCache) Get(ctx context.Context, userID uuid.UUID) ([]dto.AppointmentResponse, bool) {
	raw, err := c.redisClient.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read appointment cache for %s: %+v", userID, err)
		}
		return nil, false
	}

	var appointments []dto.AppointmentResponse
	if err := json.Unmarshal(raw, &appointments); err != nil {
		c.log.Warnf("Failed to decode appointment cache for %s: %+v", userID, err)
		return nil, false
	}
	return appointments, true
}

// Set stores the owner's list with the cache TTL. Failures are logged only.
func (c *AppointmentCache) Set(ctx context.Context, userID uuid.UUID, appointments []dto.AppointmentResponse) {
	raw, err := json.Marshal(appointments)
	if err != nil {
		c.log.Warnf("Failed to encode appointment cache for %s: %+v", userID, err)
		return
	}
	if err := c.redisClient.Set(ctx, c.key(userID), raw, appointmentCacheTTL).Err(); err != nil {
		c.log.Warnf("Failed to write appointment cache for %s: %+v", userID, err)
	}
}

// Invalidate drops the owner's entry after any create/update/delete.
func (c *AppointmentCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.redisClient.Del(ctx, c.key(userID)).Err(); err != nil {
		c.log.Warnf("Failed to invalidate appointment cache for %s: %+v", userID, err)
	}
}
