package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	blockSlotHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/block_slot"
	cancelBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/create_booking"
	generateSlotsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/generate_slots"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_booking"
	getFacilityPolicyHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_facility_policy"
	getUserBookingsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_user_bookings"
	paymentCancelHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/payment_cancel"
	paymentSuccessHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/payment_success"
	quotePriceHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/quote_price"
	rescheduleBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/reschedule_booking"
	retryPaymentHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/retry_payment"
	stripeWebhookHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/stripe_webhook"
	unblockSlotHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/unblock_slot"
	updateFacilityPolicyHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/update_facility_policy"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/config"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/dedup"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/paymentgateway"
	bookingsService "github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	paymentsService "github.com/m04kA/SMC-CourtBookingService/internal/service/payments"
	policyService "github.com/m04kA/SMC-CourtBookingService/internal/service/policy"
	pricingService "github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
	slotsService "github.com/m04kA/SMC-CourtBookingService/internal/service/slots"
	createBookingUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_booking"
	generateSlotsUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/generate_slots"
	getAvailableSlotsUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_available_slots"
	modifyBookingUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/modify_booking"
	"github.com/m04kA/SMC-CourtBookingService/internal/worker/sweeper"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CourtBookingService...")
	log.Info("Configuration loaded from config.toml")

	policy, err := cfg.Policy()
	if err != nil {
		log.Fatal("Failed to build booking policy: %v", err)
	}
	admins := domain.NewAdmins(cfg.Admin.UserIDs)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var store *storage
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store = newMemoryStorage(time.Now())
		log.Warn("Using in-memory storage with demo data, state is lost on restart")
	default:
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := openPostgres(pingCtx, cfg.Database.DSN(),
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			time.Duration(cfg.Database.ConnMaxLifetime)*time.Second,
		)
		cancelPing()
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		store = newPostgresStorage(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		if cfg.Metrics.Enabled {
			log.Info("Database metrics collection started")
		}
	}

	// Инициализируем интеграции
	var gateway paymentsService.Gateway
	switch cfg.Payments.Provider {
	case config.PaymentProviderStripe:
		gateway = paymentgateway.NewStripeGateway(
			cfg.Payments.StripeSecretKey,
			cfg.Payments.StripeWebhookSecret,
			cfg.Payments.ProductName,
			log,
		)
		log.Info("Payment gateway: stripe")
	default:
		gateway = paymentgateway.NewSandboxGateway(cfg.Payments.PublicBaseURL, cfg.Payments.StripeWebhookSecret, log)
		log.Warn("Payment gateway: sandbox, no real charges are made")
	}

	dedupTTL := time.Duration(cfg.Redis.DedupTTLMinutes) * time.Minute
	var dedupStore paymentsService.DedupStore
	if cfg.Redis.Enabled {
		redisStore := dedup.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, dedupTTL)
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancelPing()
		if err != nil {
			log.Fatal("Failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
		}
		defer redisStore.Close()
		dedupStore = redisStore
		log.Info("Webhook de-duplication backed by redis at %s", cfg.Redis.Addr)
	} else {
		dedupStore = dedup.NewMemoryStore(dedupTTL)
	}

	var publisher eventbus.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbit, err := eventbus.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer rabbit.Close()
		publisher = rabbit
		log.Info("Audit and snapshot events published to exchange %s", cfg.RabbitMQ.Exchange)
	} else {
		publisher = eventbus.NewLogPublisher(log)
	}
	bus := eventbus.NewBus(publisher, cfg.RabbitMQ.BufferSize, log)

	// Инициализируем сервисы
	var cancellationFees bookingsService.CancellationFeePolicy = pricingService.NoFees{}
	var modificationFees bookingsService.ModificationFeeSchedule = pricingService.NoFees{}
	if cfg.Engine.FeePolicy == config.FeePolicyFacility {
		facilityFees := pricingService.NewFacilityFees(store.policies, policy.Loc())
		cancellationFees = facilityFees
		modificationFees = facilityFees
		log.Info("Cancellation and modification fees taken from facility policies")
	}

	pricingEngine := pricingService.NewEngine(store.coupons, store.slots, policy, log)

	bookingSvc := bookingsService.NewService(bookingsService.Deps{
		Slots:            store.slots,
		Bookings:         store.bookings,
		Payments:         store.payments,
		Coupons:          store.coupons,
		Courts:           store.facilities,
		Pricing:          pricingEngine,
		CancellationFees: cancellationFees,
		ModificationFees: modificationFees,
		Audit:            bus,
		Snapshots:        bus,
		Metrics:          metricsCollector,
		TxManager:        store.tx,
	}, policy, log)

	paymentSvc := paymentsService.NewService(paymentsService.Deps{
		Bookings: bookingSvc,
		Payments: store.payments,
		Gateway:  gateway,
		Dedup:    dedupStore,
		Metrics:  metricsCollector,
	}, paymentsService.Config{
		PublicBaseURL:  cfg.Payments.PublicBaseURL,
		SweepBatchSize: cfg.Sweeper.BatchSize,
	}, log)

	policySvc := policyService.NewService(store.policies, store.facilities, admins, log)
	slotSvc := slotsService.NewService(store.slots, admins, log)

	// Инициализируем use cases
	generateSlotsUseCase := generateSlotsUC.NewUseCase(store.facilities, store.slots, store.tx, policy, admins, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(store.facilities, store.slots, log)
	createBookingUseCase := createBookingUC.NewUseCase(bookingSvc, paymentSvc, log)
	modifyBookingUseCase := modifyBookingUC.NewUseCase(bookingSvc, policy, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	blockSlot := blockSlotHandler.NewHandler(slotSvc, log)
	unblockSlot := unblockSlotHandler.NewHandler(slotSvc, log)
	quotePrice := quotePriceHandler.NewHandler(pricingEngine, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(modifyBookingUseCase, log)
	retryPayment := retryPaymentHandler.NewHandler(paymentSvc, log)
	paymentSuccess := paymentSuccessHandler.NewHandler(paymentSvc, log)
	paymentCancel := paymentCancelHandler.NewHandler(paymentSvc, log)
	stripeWebhook := stripeWebhookHandler.NewHandler(paymentSvc, log)
	getFacilityPolicy := getFacilityPolicyHandler.NewHandler(policySvc, log)
	updateFacilityPolicy := updateFacilityPolicyHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты корта на дату
	api.HandleFunc("/courts/{courtId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Предварительный расчет стоимости (X-User-ID опционален, нужен для лимитов купона)
	api.Handle("/pricing/quote", middleware.OptionalAuth(http.HandlerFunc(quotePrice.Handle))).Methods(http.MethodPost)

	// Политика сборов площадки
	api.HandleFunc("/facilities/{facilityId}/policy", getFacilityPolicy.Handle).Methods(http.MethodGet)

	// --- Платежный провайдер ---
	// Редиректы после оплаты
	api.HandleFunc("/payments/{publicId}/success", paymentSuccess.Handle).Methods(http.MethodGet)
	api.HandleFunc("/payments/{publicId}/cancel", paymentCancel.Handle).Methods(http.MethodGet)

	// Webhook провайдера (подлинность проверяется подписью)
	api.HandleFunc("/webhooks/stripe", stripeWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Слоты (для администраторов) ---
	protected.HandleFunc("/courts/{courtId}/slots/generate", generateSlots.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/slots/{slotId}/block", blockSlot.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/slots/{slotId}/unblock", unblockSlot.Handle).Methods(http.MethodPatch)

	// --- Бронирования ---
	// Создание бронирования и платежной сессии
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена и перенос бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// Повторная платежная сессия
	protected.HandleFunc("/bookings/{bookingId}/payment/retry", retryPayment.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Политики сборов (для администраторов) ---
	protected.HandleFunc("/facilities/{facilityId}/policy", updateFacilityPolicy.Handle).Methods(http.MethodPut)

	// Запускаем фоновые задачи
	var sweep *sweeper.Sweeper
	if cfg.Sweeper.Enabled {
		sweep, err = sweeper.New(paymentSvc, bookingSvc, metricsCollector, sweeper.Config{
			ExpiryInterval:     time.Duration(cfg.Sweeper.ExpiryIntervalSeconds) * time.Second,
			CompletionInterval: time.Duration(cfg.Sweeper.CompletionIntervalSeconds) * time.Second,
			BatchSize:          cfg.Sweeper.BatchSize,
		}, log)
		if err != nil {
			log.Fatal("Failed to create sweeper: %v", err)
		}
		if err := sweep.Start(); err != nil {
			log.Fatal("Failed to start sweeper: %v", err)
		}
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if sweep != nil {
		if err := sweep.Shutdown(); err != nil {
			log.Error("Sweeper shutdown failed: %v", err)
		}
	}

	// Дожидаемся отправки накопленных событий
	if err := bus.Close(shutdownCtx); err != nil {
		log.Error("Event bus did not drain: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
