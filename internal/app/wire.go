//go:build wireinject
// +build wireinject

package app

import (
	"context"
	"time"

	"dispatch/internal/handlers/rest/dispatch_post"
	"dispatch/internal/handlers/tasks/offer_expiry"
	"dispatch/internal/pkg/config"

	offerRepo "dispatch/internal/repository/offer"
	orderRepo "dispatch/internal/repository/order"
	presenceRepo "dispatch/internal/repository/presence"
	dispatchService "dispatch/internal/service/dispatch"
	loadcountService "dispatch/internal/service/loadcount"
	reconcileService "dispatch/internal/service/reconcile"

	"dispatch/internal/repository"
	"dispatch/pkg/background"
	"dispatch/pkg/logger"
	"dispatch/pkg/querier"
	"dispatch/pkg/tx"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

type (
	OfferExpiryInterval time.Duration
)

type Application struct {
	ServiceDispatch   ServiceDispatch
	BackgroundWorkers *background.Worker
}

type ServiceDispatch interface {
	dispatch_post.Service
}

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,
		provideOfferExpiryInterval,

		provideOrderRepository,
		provideOfferRepository,
		providePresenceRepository,

		provideDispatcher,
		provideReconciler,

		provideOfferExpiryTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceDispatch), new(*dispatchService.Dispatcher)),
	)
	return &Application{}, nil
}

type KafkaWorkerApp struct {
	ServiceDispatch *dispatchService.Dispatcher
	ServiceLoad     *loadcountService.Maintainer
}

// InitializeKafkaWorkerApp для Kafka воркера (cmd/worker-dispatch-events)
func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,

		provideOrderRepository,
		provideOfferRepository,
		providePresenceRepository,

		provideDispatcher,
		provideLoadMaintainer,

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool, repository.IsSerializationConflict)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideOrderRepository(querier *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(querier)
}

func provideOfferRepository(querier *querier.Querier) *offerRepo.Repository {
	return offerRepo.New(querier)
}

func providePresenceRepository(querier *querier.Querier) *presenceRepo.Repository {
	return presenceRepo.New(querier)
}

func provideDispatcher(
	orders *orderRepo.Repository,
	offers *offerRepo.Repository,
	presence *presenceRepo.Repository,
	txManager *tx.Manager,
	cfg *config.Config,
) *dispatchService.Dispatcher {
	return dispatchService.New(orders, offers, presence, txManager, dispatchService.Config{
		OfferTimeout:      cfg.Dispatch.OfferTimeout,
		PresenceStaleness: cfg.Dispatch.PresenceStaleness,
		MaxActiveOrders:   cfg.Dispatch.MaxActiveOrders,
		MaxPendingOffers:  cfg.Dispatch.MaxPendingOffers,
		CandidatePageSize: cfg.Dispatch.CandidatePageSize,
		OfferPageSize:     cfg.Dispatch.OfferPageSize,
		OfferRetention:    cfg.Dispatch.OfferRetention,
	})
}

func provideReconciler(
	log logger.Logger,
	offers *offerRepo.Repository,
	orders *orderRepo.Repository,
	dispatcher *dispatchService.Dispatcher,
	txManager *tx.Manager,
	cfg *config.Config,
) *reconcileService.Reconciler {
	return reconcileService.New(log, offers, orders, dispatcher, txManager, reconcileService.Config{
		PageSize: cfg.Dispatch.OfferPageSize,
	})
}

func provideLoadMaintainer(
	orders *orderRepo.Repository,
	offers *offerRepo.Repository,
	presence *presenceRepo.Repository,
	cfg *config.Config,
) *loadcountService.Maintainer {
	return loadcountService.New(orders, offers, presence, loadcountService.Config{
		MaxActiveOrders:  cfg.Dispatch.MaxActiveOrders,
		MaxPendingOffers: cfg.Dispatch.MaxPendingOffers,
	})
}

func provideOfferExpiryInterval(cfg *config.Config) OfferExpiryInterval {
	return OfferExpiryInterval(cfg.Tasks.OfferExpiryInterval)
}

func provideOfferExpiryTask(
	reconciler *reconcileService.Reconciler,
	interval OfferExpiryInterval,
) *offer_expiry.OfferExpiry {
	return offer_expiry.NewOfferExpiry(reconciler, time.Duration(interval))
}

func provideTaskList(
	offerExpiryTask *offer_expiry.OfferExpiry,
) []background.Task {
	return []background.Task{
		offerExpiryTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
