package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/ligue-crm/internal/aggregate"
	"github.com/xavierca1/ligue-crm/internal/analytics"
	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/security"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// recordStore é a store escolhida no boot, vista pelas interfaces do domínio.
type recordStore struct {
	name       string
	admins     entity.AdminRepositoryInterface
	agents     entity.AgentRepositoryInterface
	leads      entity.LeadRepositoryInterface
	buyers     entity.BuyerRepositoryInterface
	sellers    entity.SellerRepositoryInterface
	aggregator aggregate.Aggregator
	pinger     handlers.Pinger
	close      func() error
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*recordStore, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL vazio, usando store em memória")
		s := memory.NewStore()
		return &recordStore{
			name:       "memory",
			admins:     s.Admins(),
			agents:     s.Agents(),
			leads:      s.Leads(),
			buyers:     s.Buyers(),
			sellers:    s.Sellers(),
			aggregator: s,
			pinger:     s,
			close:      func() error { return nil },
		}, nil
	}

	db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	s := database.NewStore(db)
	return &recordStore{
		name:       "database",
		admins:     s.Admins(),
		agents:     s.Agents(),
		leads:      s.Leads(),
		buyers:     s.Buyers(),
		sellers:    s.Sellers(),
		aggregator: s,
		pinger:     s,
		close:      db.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	for _, key := range cfg.Fallbacks {
		log.Debug("valor inválido no ambiente, usando default", "key", key)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Record Store
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("falha ao abrir store", "error", err)
	}
	defer store.close()

	// 2. Eventos (opcional)
	var (
		publisher usecase.EventPublisher
		broker    handlers.Broker
	)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal("falha ao conectar no RabbitMQ", "error", err)
		}
		defer rabbitMQ.Close()
		publisher = queue.NewProducer(rabbitMQ.Ch)
		broker = rabbitMQ

		if cfg.SMTPHost != "" {
			sender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
			notificationWorker := queue.NewWorker(rabbitMQ.Ch, sender, log.With("component", "notification_worker"))
			go func() {
				if err := notificationWorker.Start(ctx, queue.QueueName); err != nil {
					log.Error("worker de notificação parou", "error", err)
				}
			}()
		}
	}

	// 3. Segurança
	hasher := security.NewBcryptHasher()
	tokens := security.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// 4. UseCases
	notifier := usecase.NewNotifier(publisher, metrics.Domain{}, log)
	agentUC := usecase.NewAgentUseCase(store.agents, store.leads, hasher, notifier)
	leadUC := usecase.NewLeadUseCase(store.agents, store.leads, store.buyers, store.sellers, notifier)
	buyerUC := usecase.NewBuyerUseCase(store.leads, store.buyers, notifier)
	sellerUC := usecase.NewSellerUseCase(store.leads, store.sellers, cfg.SyncSellerSummaries, notifier)
	loginUC := usecase.NewLoginUseCase(store.admins, hasher, tokens, log)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := loginUC.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatal("falha ao criar admin inicial", "error", err)
		}
		if created {
			log.Info("admin inicial criado", "email", cfg.AdminEmail)
		}
	}

	// 5. Reconciliação periódica
	if cfg.ReconcileInterval > 0 {
		reconciler := usecase.NewReconciler(store.agents, store.leads, store.buyers, store.sellers, notifier)
		go worker.NewReconcileWorker(reconciler, cfg.ReconcileInterval, log.With("component", "reconcile_worker")).Start(ctx)
	}

	// 6. Router
	router := newRouter(routes{
		Auth:      handlers.NewAuthHandler(loginUC, log),
		Health:    handlers.NewHealthHandler(store.pinger, store.name, broker),
		Agents:    handlers.NewAgentHandler(agentUC, log),
		Leads:     handlers.NewLeadHandler(leadUC, log),
		Buyers:    handlers.NewBuyerHandler(buyerUC, log),
		Sellers:   handlers.NewSellerHandler(sellerUC, log),
		Analytics: handlers.NewAnalyticsHandler(analytics.NewService(store.aggregator), log),
		Verifier:  tokens,
	}, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🔥 Server CRM rodando", "addr", cfg.Addr(), "store", store.name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("servidor HTTP falhou", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown com erro", "error", err)
	}
}
