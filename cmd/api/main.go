package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	catalogapp "github.com/vietcart/ordercore/internal/catalog/app"
	catalogmem "github.com/vietcart/ordercore/internal/catalog/infra/memory"
	catalogpg "github.com/vietcart/ordercore/internal/catalog/infra/postgres"

	inventoryapp "github.com/vietcart/ordercore/internal/inventory/app"
	inventorypg "github.com/vietcart/ordercore/internal/inventory/infra/postgres"

	orderapp "github.com/vietcart/ordercore/internal/order/app"
	"github.com/vietcart/ordercore/internal/order/events"
	"github.com/vietcart/ordercore/internal/order/httpapi"
	"github.com/vietcart/ordercore/internal/order/infra/adapter"
	ordermem "github.com/vietcart/ordercore/internal/order/infra/memory"
	orderpg "github.com/vietcart/ordercore/internal/order/infra/postgres"

	"github.com/vietcart/ordercore/pkg/config"
	"github.com/vietcart/ordercore/pkg/kafka"
	"github.com/vietcart/ordercore/pkg/logger"
	"github.com/vietcart/ordercore/pkg/metrics"
	"github.com/vietcart/ordercore/pkg/postgres"
	"github.com/vietcart/ordercore/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "ordercore", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	var (
		productRepo catalogapp.ProductRepo
		stockStore  inventoryapp.StockStore
		orderRepo   orderapp.OrderRepo
	)

	if cfg.PostgresHost != "" {
		db, err := postgres.Open(postgres.Config{
			Host: cfg.PostgresHost,
			Port: cfg.PostgresPort,
			User: cfg.PostgresUser,
			Pass: cfg.PostgresPass,
			DB:   cfg.PostgresDB,
		})
		if err != nil {
			log.Error("db open failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer db.Close()

		productRepo = catalogpg.NewProductRepo(db)
		stockStore = inventorypg.NewStockRepo(db)
		orderRepo = orderpg.NewOrderRepo(db)
	} else {
		log.Warn("postgres not configured, using in-memory stores")
		store := catalogmem.NewProductStore()
		productRepo = store
		stockStore = store
		orderRepo = ordermem.NewOrderRepo()
	}

	catalogSvc := catalogapp.NewService(productRepo)
	ledger := inventoryapp.NewLedger(stockStore)

	kc := kafka.NewClient(cfg.KafkaBrokers)
	var sink orderapp.EventSink = orderapp.NopSink{}
	if kc.Enabled() {
		writer := kc.NewWriter(cfg.OrderEventsTopic)
		defer writer.Close()
		sink = events.NewPublisher(writer, log)
	}

	orderSvc := orderapp.NewService(orderRepo, adapter.NewCatalogServiceReader(catalogSvc), ledger, sink)

	m := metrics.NewServerMetrics("api")
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", metrics.Handler())
	httpapi.NewHandler(orderSvc, log, m, cfg.InternalToken).Register(mux)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	if kc.Enabled() {
		reader := kc.NewReader(cfg.PaymentTopic, cfg.KafkaGroupID)
		consumer := events.NewPaymentConsumer(reader, orderSvc, log)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer reader.Close()
			log.Info("payment consumer starting", slog.String("topic", cfg.PaymentTopic))
			if err := consumer.Run(ctx); err != nil {
				log.Error("payment consumer error", slog.Any("err", err))
				cancel()
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
