package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/ligue-prospect/internal/config"
	"github.com/xavierca1/ligue-prospect/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-prospect/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-prospect/internal/infra/integration/supabase"
	"github.com/xavierca1/ligue-prospect/internal/infra/mail"
	"github.com/xavierca1/ligue-prospect/internal/infra/queue"
	"github.com/xavierca1/ligue-prospect/internal/infra/store"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.SupabaseURL == "" {
		return errors.New("SUPABASE_URL é obrigatório")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Repositórios
	stores, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	events := middleware.PrometheusEvents{}

	// 2. Adapters
	resolver := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)

	var sender usecase.OutreachSender
	if cfg.MailHost != "" {
		sender = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	} else {
		log.Println("⚠️ MAIL_HOST não definido: envio de outreach desativado")
	}

	// 3. UseCases
	leadSvc := usecase.NewLeadService(stores.Leads, events)
	scriptSvc := usecase.NewScriptService(stores.Scripts, stores.Leads)
	importUC := usecase.NewImportLeadsUseCase(stores.Leads, events)
	migrateUC := usecase.NewMigrateOrphansUseCase(stores.Leads, events)
	outreachUC := usecase.NewSendOutreachUseCase(scriptSvc, leadSvc, sender, events)

	checks := map[string]handlers.HealthCheck{"store": stores.Ping}

	// 4. Worker (consome a fila de importação do scraper)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		worker := queue.NewWorker(rabbitMQ.Ch, importUC)
		go func() {
			if err := worker.Start(ctx, queue.QueueName); err != nil {
				log.Printf("❌ [WORKER] %v", err)
			}
		}()
		checks["rabbitmq"] = func(context.Context) error {
			if rabbitMQ.Conn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}
	} else {
		checks["rabbitmq"] = nil
	}

	// 5. Router
	router := handlers.NewRouter(handlers.RouterConfig{
		Resolver:      resolver,
		ImportLimiter: middleware.NewPrincipalLimiter(cfg.ImportRatePerMinute),
		CORSOrigins:   cfg.CORSOrigins,
		Health:        handlers.NewHealthHandler(checks),
		Session:       handlers.NewSessionHandler(migrateUC),
		Leads:         handlers.NewLeadHandler(leadSvc, outreachUC),
		Imports:       handlers.NewImportHandler(importUC),
		Scripts:       handlers.NewScriptHandler(scriptSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🔥 Server Prospect rodando na porta %s (store: %s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Println("🛑 Encerrando servidor...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
