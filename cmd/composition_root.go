package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shopify/sarama"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/adapters/out/inmemory"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/offerrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/settlementrepo"
	"dispatch/internal/adapters/out/redisstore"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/relay"
)

// CompositionRoot wires adapters into use case handlers. All shared
// infrastructure (DB, Redis, Kafka, relay hub) is created once here.
type CompositionRoot struct {
	cfg    Config
	gormDB *gorm.DB
	logger *slog.Logger

	uowFactory    postgres.GormUnitOfWorkFactory
	locationStore ports.LocationStore
	hub           *relay.Hub
	publisher     ports.EventPublisher
	notifier      ports.CourierNotifier
	estimator     ports.DistanceEstimator
	payout        ports.PayoutPolicy

	redisClient *redis.Client
	producer    sarama.SyncProducer
}

// NewCompositionRoot connects the external systems named in the config and
// assembles the adapter graph.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		hub:        relay.NewHub(),
		estimator:  geo.NewHaversineEstimator(),
	}

	if cfg.RedisAddr != "" {
		root.redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store, err := redisstore.NewRedisLocationStore(root.redisClient)
		if err != nil {
			return nil, err
		}
		root.locationStore = store
	} else {
		root.locationStore = inmemory.NewLocationStore()
	}

	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.Return.Successes = true
	producer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}
	root.producer = producer

	publisher, err := kafka.NewKafkaEventPublisher(producer, cfg.KafkaOrderEventsTopic, logger)
	if err != nil {
		return nil, err
	}
	// assignment events also drive the relay hub's order feed bindings
	root.publisher = fanoutEventPublisher{relay.NewBinder(root.hub), publisher}

	notifier, err := notify.NewLogCourierNotifier(logger)
	if err != nil {
		return nil, err
	}
	root.notifier = notifier

	minimum, err := kernel.NewMoney(cfg.PayoutMinimumCents)
	if err != nil {
		return nil, err
	}
	payout, err := services.NewPercentOrMinimumPolicy(cfg.PayoutPercent, minimum)
	if err != nil {
		return nil, err
	}
	root.payout = payout

	return root, nil
}

// MigrateDB creates or updates the persistence schema.
func (c *CompositionRoot) MigrateDB() error {
	return c.gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&offerrepo.OfferDTO{},
		&settlementrepo.SettlementDTO{},
	)
}

// Close releases the external connections held by the root.
func (c *CompositionRoot) Close() {
	c.hub.Close()
	if c.producer != nil {
		_ = c.producer.Close()
	}
	if c.redisClient != nil {
		_ = c.redisClient.Close()
	}
}

// Hub exposes the relay hub to the WebSocket adapter.
func (c *CompositionRoot) Hub() *relay.Hub {
	return c.hub
}

func (c *CompositionRoot) dispatchConfig() commands.DispatchConfig {
	return commands.DispatchConfig{
		ResponseWindow: c.cfg.OfferResponseWindow,
		MaxRounds:      c.cfg.MaxOfferRounds,
		TimeBudget:     c.cfg.DispatchTimeBudget,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceOrderCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	var f commands.SettleUoWFactory = FuncSettleUoWFactory(func() commands.SettleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmDeliveryCommandHandler(f, c.payout, c.publisher)
}

func (c *CompositionRoot) CreateRegenerateConfirmationCodeCommandHandler() commands.RegenerateConfirmationCodeCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegenerateConfirmationCodeCommandHandler(f)
}

func (c *CompositionRoot) CreateAcceptOfferCommandHandler() commands.AcceptOfferCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptOfferCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateDeclineOfferCommandHandler() commands.DeclineOfferCommandHandler {
	var f commands.OfferUoWFactory = FuncOfferUoWFactory(func() commands.OfferUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeclineOfferCommandHandler(f)
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() commands.ExpireOffersCommandHandler {
	var f commands.OfferUoWFactory = FuncOfferUoWFactory(func() commands.OfferUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireOffersCommandHandler(f)
}

func (c *CompositionRoot) CreateDispatchOrdersCommandHandler() commands.DispatchOrdersCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOrdersCommandHandler(
		f, c.locationStore, c.estimator, c.notifier, c.publisher, c.dispatchConfig())
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateSetCourierAvailabilityCommandHandler() commands.SetCourierAvailabilityCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetCourierAvailabilityCommandHandler(f)
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	return commands.NewReportLocationCommandHandler(
		c.locationStore, c.hub, c.cfg.LocationMinInterval)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCouriersQueryHandler() queries.GetCouriersQueryHandler {
	return queries.NewGetCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierPositionQueryHandler() queries.GetCourierPositionQueryHandler {
	return queries.NewGetCourierPositionQueryHandler(c.locationStore)
}

// CreateTrackingHandler builds the WebSocket tracking adapter.
func (c *CompositionRoot) CreateTrackingHandler() (*ws.TrackingHandler, error) {
	return ws.NewTrackingHandler(c.hub, c.locationStore, c.CreateGetOrderQueryHandler(), c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOfferUoWFactory func() commands.OfferUoW

func (f FuncOfferUoWFactory) Create() commands.OfferUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncSettleUoWFactory func() commands.SettleUoW

func (f FuncSettleUoWFactory) Create() commands.SettleUoW {
	return f()
}

// fanoutEventPublisher delivers each event batch to every target. Targets
// are best-effort individually; errors are joined for the caller's log.
type fanoutEventPublisher []ports.EventPublisher

func (p fanoutEventPublisher) Publish(ctx context.Context, events []order.Event) error {
	var errAll error
	for _, target := range p {
		errAll = errors.Join(errAll, target.Publish(ctx, events))
	}
	return errAll
}
