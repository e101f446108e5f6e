package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appDesign "github.com/Zhima-Mochi/tshirt-agent/internal/application/design"
	appOrder "github.com/Zhima-Mochi/tshirt-agent/internal/application/order"
	appPayment "github.com/Zhima-Mochi/tshirt-agent/internal/application/payment"
	"github.com/Zhima-Mochi/tshirt-agent/internal/config"
	domainPayment "github.com/Zhima-Mochi/tshirt-agent/internal/domain/payment"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/id"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/memory"
	infraObs "github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/openai"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/rabbitmq"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/stripe"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
	httppresentation "github.com/Zhima-Mochi/tshirt-agent/internal/presentation/http"
	workerpresentation "github.com/Zhima-Mochi/tshirt-agent/internal/presentation/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	baseLogger, err := zaplogger.New(cfg.ServiceName, cfg.Env, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if s, ok := baseLogger.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
	}()
	systemLogger := baseLogger.With(observability.F("component", "main"))

	oteltrace.InstallPropagator()
	tel := infraObs.New(
		oteltrace.New(cfg.ServiceName),
		baseLogger,
		infraObs.NewMetrics(prometrics.New(nil, "", "")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// In-memory event bus; order events are fanned out to the audit worker and the optional relay
	bus := outbox.NewBus(baseLogger)
	workerpresentation.NewAuditWorker(bus, tel).Start()

	if cfg.AMQPURL != "" {
		conn, ch, err := rabbitmq.Connect(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer func() {
			_ = ch.Close()
			_ = conn.Close()
		}()
		rabbitmq.NewRelay(ch, cfg.AMQPExchange, baseLogger).Attach(bus, workerpresentation.OrderEventNames...)
		systemLogger.Info("event_relay_enabled", observability.F("exchange", cfg.AMQPExchange))
	}

	bus.Start(context.Background())
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		bus.Stop(stopCtx)
	}()

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	generator := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, httpClient)

	var processor domainPayment.Processor
	if cfg.UseMockPayments() {
		processor = stripe.NewMockProcessor()
		systemLogger.Warn("payment_provider_mock")
	} else {
		processor = stripe.NewClient(cfg.StripeAPIKey, cfg.StripeBaseURL, httpClient)
	}

	orderRepo := memory.NewOrderRepository()
	idGenerator := id.NewUUIDGenerator()

	handler := httppresentation.NewHandler(httppresentation.UseCases{
		CreateDesign:   appDesign.NewCreateDesignUseCase(orderRepo, generator, idGenerator, bus, tel),
		ProcessPayment: appPayment.NewProcessPaymentUseCase(orderRepo, processor, domainPayment.DefaultCeilingPolicy(), bus, tel),
		GetOrder:       appOrder.NewGetOrderUseCase(orderRepo, tel),
		ListOrders:     appOrder.NewListOrdersUseCase(orderRepo, tel),
		RefundOrder:    appOrder.NewRefundOrderUseCase(orderRepo, bus, tel),
	}, tel)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		systemLogger.Info("http_server_start",
			observability.F("addr", server.Addr),
			observability.F("mock_payments", cfg.UseMockPayments()),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error", observability.F("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error", observability.F("error", err))
		return err
	}
	systemLogger.Info("http_server_stopped")
	return nil
}
