package services

import (
	"errors"
	"sort"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrNoCandidateFound is returned when no courier in the snapshot can take
// the offer: none are available, or all remaining ones already declined the
// order.
var ErrNoCandidateFound = errors.New("no candidate courier found")

// Candidate pairs a courier with the distance score supplied by the
// geocoding collaborator. The score is opaque to the ranker: lower is
// closer, nothing else is assumed.
type Candidate struct {
	Courier  *courier.Courier
	Distance float64
}

// CandidateRanker selects the next courier to offer an order to.
// It is a pure function over a snapshot of courier state: it filters by
// availability and prior declines, ranks by distance ascending and breaks
// ties by least-recently-assigned so quiet couriers get work first.
// It never mutates shared state.
type CandidateRanker struct{}

// NewCandidateRanker creates a CandidateRanker.
func NewCandidateRanker() CandidateRanker {
	return CandidateRanker{}
}

// Rank returns the eligible candidates in offer order. Couriers in the
// exclude set (those who already declined this order) and couriers that
// cannot receive offers are filtered out.
func (CandidateRanker) Rank(candidates []Candidate, exclude map[kernel.UUID]struct{}) ([]Candidate, error) {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Courier.Validate(); err != nil {
			return nil, err
		}
		if !c.Courier.CanReceiveOffers() {
			continue
		}
		if _, declined := exclude[c.Courier.ID()]; declined {
			continue
		}
		eligible = append(eligible, c)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Distance != eligible[j].Distance {
			return eligible[i].Distance < eligible[j].Distance
		}
		return lessRecentlyAssigned(eligible[i].Courier, eligible[j].Courier)
	})

	return eligible, nil
}

// Next returns the single best candidate, or ErrNoCandidateFound when the
// snapshot holds no eligible courier.
func (r CandidateRanker) Next(candidates []Candidate, exclude map[kernel.UUID]struct{}) (Candidate, error) {
	ranked, err := r.Rank(candidates, exclude)
	if err != nil {
		return Candidate{}, err
	}
	if len(ranked) == 0 {
		return Candidate{}, ErrNoCandidateFound
	}
	return ranked[0], nil
}

// lessRecentlyAssigned orders couriers for the fairness tie-break:
// never-assigned couriers come first, then older assignments before newer.
func lessRecentlyAssigned(a, b *courier.Courier) bool {
	aAt, bAt := a.LastAssignedAt(), b.LastAssignedAt()
	switch {
	case aAt == nil && bAt == nil:
		return a.ID().String() < b.ID().String()
	case aAt == nil:
		return true
	case bAt == nil:
		return false
	default:
		return aAt.Before(*bAt)
	}
}
