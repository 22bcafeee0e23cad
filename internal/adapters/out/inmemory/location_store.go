// Package inmemory holds process-local adapter implementations used when
// the service runs without external infrastructure.
package inmemory

import (
	"context"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var _ ports.LocationStore = (*LocationStore)(nil)

// LocationStore keeps the latest sample per courier in a map guarded by a
// mutex. Save applies the same newer-wins rule as the Redis store.
type LocationStore struct {
	mu      sync.RWMutex
	samples map[kernel.UUID]tracking.Sample
}

// NewLocationStore creates an empty store.
func NewLocationStore() *LocationStore {
	return &LocationStore{samples: make(map[kernel.UUID]tracking.Sample)}
}

// Save stores the sample if it is newer than the current one for the
// courier. Returns false when an equal or newer sample is already stored.
func (s *LocationStore) Save(_ context.Context, sample tracking.Sample) (bool, error) {
	if err := sample.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.samples[sample.CourierID()]
	if ok && !sample.IsNewerThan(current) {
		return false, nil
	}

	s.samples[sample.CourierID()] = sample

	return true, nil
}

// Get returns the latest stored sample for the courier.
func (s *LocationStore) Get(_ context.Context, courierID kernel.UUID) (tracking.Sample, error) {
	if err := courierID.Validate(); err != nil {
		return tracking.Sample{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sample, ok := s.samples[courierID]
	if !ok {
		return tracking.Sample{}, errs.NewObjectNotFoundError("courierId", courierID)
	}

	return sample, nil
}
