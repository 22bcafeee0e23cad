// Package redisstore keeps each courier's latest location sample in Redis.
// One hash per courier; a Lua script compares capture times atomically so
// concurrent reports from the same courier can never move the position
// backwards.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var _ ports.LocationStore = (*RedisLocationStore)(nil)

// saveScript writes the sample only when it is strictly newer than the
// stored one. Returns 1 when stored, 0 when discarded.
var saveScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'captured_at')
if current and tonumber(current) >= tonumber(ARGV[3]) then
  return 0
end
redis.call('HSET', KEYS[1], 'lat', ARGV[1], 'lon', ARGV[2], 'captured_at', ARGV[3])
return 1
`)

// RedisLocationStore is the live position store backing the tracking relay.
type RedisLocationStore struct {
	client *redis.Client
}

// NewRedisLocationStore creates a store on top of an already configured
// Redis client.
func NewRedisLocationStore(client *redis.Client) (*RedisLocationStore, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}

	return &RedisLocationStore{client: client}, nil
}

// Save stores the sample if it is newer than the current one for the
// courier. Returns false when an equal or newer sample is already stored.
func (s *RedisLocationStore) Save(ctx context.Context, sample tracking.Sample) (bool, error) {
	if err := sample.Validate(); err != nil {
		return false, err
	}

	stored, err := saveScript.Run(ctx, s.client,
		[]string{locationKey(sample.CourierID())},
		sample.Point().Lat(),
		sample.Point().Lon(),
		sample.CapturedAt().UnixNano(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("save location for courier %s: %w", sample.CourierID(), err)
	}

	return stored == 1, nil
}

// Get returns the latest stored sample for the courier.
func (s *RedisLocationStore) Get(ctx context.Context, courierID kernel.UUID) (tracking.Sample, error) {
	if err := courierID.Validate(); err != nil {
		return tracking.Sample{}, err
	}

	fields, err := s.client.HGetAll(ctx, locationKey(courierID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return tracking.Sample{}, fmt.Errorf("get location for courier %s: %w", courierID, err)
	}
	if len(fields) == 0 {
		return tracking.Sample{}, errs.NewObjectNotFoundError("courierId", courierID)
	}

	lat, err := strconv.ParseFloat(fields["lat"], 64)
	if err != nil {
		return tracking.Sample{}, fmt.Errorf("parse stored latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(fields["lon"], 64)
	if err != nil {
		return tracking.Sample{}, fmt.Errorf("parse stored longitude: %w", err)
	}
	capturedAtNanos, err := strconv.ParseInt(fields["captured_at"], 10, 64)
	if err != nil {
		return tracking.Sample{}, fmt.Errorf("parse stored capture time: %w", err)
	}

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return tracking.Sample{}, err
	}

	return tracking.NewSample(courierID, point, time.Unix(0, capturedAtNanos))
}

func locationKey(courierID kernel.UUID) string {
	return "courier:location:" + courierID.String()
}
