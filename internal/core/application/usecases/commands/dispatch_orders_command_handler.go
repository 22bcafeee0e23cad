package commands

import (
	"context"
	"errors"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CancelReasonNoCourierAvailable marks orders cancelled because dispatch ran
// out of candidates, rounds or time.
const CancelReasonNoCourierAvailable = "no_courier_available"

// DispatchConfig bounds the offer loop for a single order.
type DispatchConfig struct {
	// ResponseWindow is how long a courier has to answer an offer.
	ResponseWindow time.Duration
	// MaxRounds caps how many offers a single order may generate.
	MaxRounds int
	// TimeBudget caps how long an order may sit unassigned before it is
	// cancelled instead of re-offered.
	TimeBudget time.Duration
}

// DispatchOrdersCommandHandler runs the offer loop. Each pending order gets
// its own transaction so one failing order never stalls the rest of the
// sweep. Within a round: orders with a live offer are left alone, exhausted
// orders are cancelled, and the rest get an offer to the closest eligible
// courier who has not declined yet.
type DispatchOrdersCommandHandler struct {
	uowFactory DispatchUoWFactory
	locations  ports.LocationStore
	estimator  ports.DistanceEstimator
	notifier   ports.CourierNotifier
	publisher  ports.EventPublisher
	ranker     services.CandidateRanker
	cfg        DispatchConfig
}

// NewDispatchOrdersCommandHandler creates the dispatch handler.
func NewDispatchOrdersCommandHandler(
	uowFactory DispatchUoWFactory,
	locations ports.LocationStore,
	estimator ports.DistanceEstimator,
	notifier ports.CourierNotifier,
	publisher ports.EventPublisher,
	cfg DispatchConfig,
) DispatchOrdersCommandHandler {
	return DispatchOrdersCommandHandler{
		uowFactory: uowFactory,
		locations:  locations,
		estimator:  estimator,
		notifier:   notifier,
		publisher:  publisher,
		ranker:     services.NewCandidateRanker(),
		cfg:        cfg,
	}
}

// Handle processes one dispatch round. Individual order failures are joined
// into the returned error; the sweep itself keeps going.
func (h DispatchOrdersCommandHandler) Handle(ctx context.Context, cmd DispatchOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pending, err := h.pendingOrderIDs(ctx)
	if err != nil {
		return err
	}

	var errAll error
	for _, orderID := range pending {
		if err := h.dispatchOne(ctx, orderID); err != nil {
			errAll = errors.Join(errAll, err)
		}
	}

	return errAll
}

func (h DispatchOrdersCommandHandler) pendingOrderIDs(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetAllPendingAssignment(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}

	return ids, nil
}

// dispatchOne runs one offer round for a single order in its own
// transaction.
func (h DispatchOrdersCommandHandler) dispatchOne(ctx context.Context, orderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	offerRepo := uow.OfferRepository()

	aggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if aggregate.Status() != order.PendingAssignment {
		// resolved since the sweep started
		return nil
	}

	if _, err = offerRepo.GetPendingByOrder(ctx, orderID); err == nil {
		// a courier is still deciding
		return nil
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	now := time.Now().UTC()

	rounds, err := offerRepo.CountRounds(ctx, orderID)
	if err != nil {
		return err
	}
	if rounds >= h.cfg.MaxRounds || now.Sub(aggregate.Timestamps().CreatedAt) > h.cfg.TimeBudget {
		return h.cancelExhausted(ctx, uow, aggregate, now)
	}

	candidate, err := h.nextCandidate(ctx, uow, aggregate)
	if errors.Is(err, services.ErrNoCandidateFound) {
		// nobody to offer to right now; the next sweep retries
		return nil
	}
	if err != nil {
		return err
	}

	pendingOffer, err := offer.NewOffer(
		kernel.NewUUID(), orderID, candidate.Courier.ID(),
		rounds+1, now, h.cfg.ResponseWindow,
	)
	if err != nil {
		return err
	}

	if err = offerRepo.Add(ctx, pendingOffer); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// post-commit, best effort: the expiry sweep covers a missed push
	_ = h.notifier.NotifyOffer(ctx, pendingOffer)

	return nil
}

func (h DispatchOrdersCommandHandler) cancelExhausted(
	ctx context.Context,
	uow DispatchUoW,
	aggregate *order.Order,
	now time.Time,
) error {
	if err := aggregate.Cancel(order.SystemActor(), CancelReasonNoCourierAvailable, now); err != nil {
		return err
	}
	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	events := aggregate.TakeEvents()
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, events)

	return nil
}

// nextCandidate ranks the currently available couriers against the pickup
// point, skipping those who already declined this order. Couriers with no
// known position rank last.
func (h DispatchOrdersCommandHandler) nextCandidate(
	ctx context.Context,
	uow DispatchUoW,
	aggregate *order.Order,
) (services.Candidate, error) {
	declined, err := uow.OfferRepository().GetDeclinedCourierIDs(ctx, aggregate.ID())
	if err != nil {
		return services.Candidate{}, err
	}

	exclude := make(map[kernel.UUID]struct{}, len(declined))
	for _, id := range declined {
		exclude[id] = struct{}{}
	}

	couriers, err := uow.CourierRepository().GetAllAvailable(ctx)
	if err != nil {
		return services.Candidate{}, err
	}

	pickup := aggregate.PickupAddress().Geo()
	candidates := make([]services.Candidate, 0, len(couriers))
	for _, c := range couriers {
		distance := math.Inf(1)
		if pickup != nil {
			sample, err := h.locations.Get(ctx, c.ID())
			switch {
			case errors.Is(err, errs.ErrObjectNotFound):
				// keep +Inf, courier has never reported a position
			case err != nil:
				return services.Candidate{}, err
			default:
				distance, err = h.estimator.Estimate(ctx, sample.Point(), *pickup)
				if err != nil {
					return services.Candidate{}, err
				}
			}
		} else {
			// ungeocoded pickup: rank on fairness alone
			distance = 0
		}

		candidates = append(candidates, services.Candidate{Courier: c, Distance: distance})
	}

	return h.ranker.Next(candidates, exclude)
}
