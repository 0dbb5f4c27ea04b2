package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/SMC-ArtistBooking/internal/api"
	checkSlotHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/check_slot"
	completeBookingHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/get_calendar"
	listArtistBookingsHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/list_artist_bookings"
	listClientBookingsHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/list_client_bookings"
	setAvailabilityHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/set_availability"
	transitionBookingHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/transition_booking"
	"github.com/m04kA/SMC-ArtistBooking/internal/config"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/cache"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/events"
	availabilityRepo "github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/memory"
	artistServiceClient "github.com/m04kA/SMC-ArtistBooking/internal/integrations/artistservice"
	availabilityService "github.com/m04kA/SMC-ArtistBooking/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-ArtistBooking/internal/service/bookings"
	checkSlotUC "github.com/m04kA/SMC-ArtistBooking/internal/usecase/check_slot"
	createBookingUC "github.com/m04kA/SMC-ArtistBooking/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-ArtistBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ArtistBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ArtistBooking/pkg/logger"
	"github.com/m04kA/SMC-ArtistBooking/pkg/metrics"
	"github.com/m04kA/SMC-ArtistBooking/pkg/tracing"
	"github.com/m04kA/SMC-ArtistBooking/pkg/txmanager"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// bookingStore общий набор методов Postgres и in-memory хранилищ бронирований
type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, artistID, key string) (*domain.Booking, error)
	GetByArtistID(ctx context.Context, artistID string) ([]*domain.Booking, error)
	GetByClientEmail(ctx context.Context, email string) ([]*domain.Booking, error)
	GetElapsedConfirmed(ctx context.Context, upTo time.Time) ([]*domain.Booking, error)
	GetBookedSlots(ctx context.Context, artistID string, start, end time.Time) (map[string][]types.TimeString, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error)
}

type availabilityStore interface {
	GetByDateRange(ctx context.Context, artistID string, start, end time.Time) ([]*domain.AvailabilityDay, error)
	Upsert(ctx context.Context, days []*domain.AvailabilityDay) error
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type availabilityCache interface {
	Get(ctx context.Context, artistID string, start, end time.Time) (*domain.Availability, int64, error)
	Set(ctx context.Context, a *domain.Availability, version int64) error
	Invalidate(ctx context.Context, artistID string) error
}

type eventPublisher interface {
	PublishBooking(ctx context.Context, eventType string, b *domain.Booking) error
	PublishAvailability(ctx context.Context, artistID string, dates []time.Time) error
	Close() error
}

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

	log.Info("Starting SMC-ArtistBooking...")
	log.Info("Configuration loaded from config.toml (storage=%s)", cfg.Storage.Driver)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}
	defaultSlots := cfg.Availability.Slots()

	// Трассировка (пропагаторы ставятся всегда, экспорт - только если включена)
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	var (
		bookings     bookingStore
		availability availabilityStore
		txMgr        txManager
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		bookings = store
		availability = store
		txMgr = memory.TxManager{}
		log.Warn("Using in-memory storage, data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		// С nil-метриками обёртка работает как обычный *sql.DB
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		bookings = bookingRepo.NewRepository(wrappedDB)
		availability = availabilityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}

	// Кеш доступности
	var availabilityCacheImpl availabilityCache = cache.Noop{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			// Кеш необязателен: без него чтение идет в хранилище
			log.Warn("Redis unavailable at %s, availability cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			availabilityCacheImpl = cache.NewAvailabilityCache(rdb, time.Duration(cfg.Redis.TTL)*time.Second, cfg.Redis.KeyPrefix)
			log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
		}
	}

	// События жизненного цикла
	var publisher eventPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithMetrics(metricsCollector)
		log.Info("Booking events enabled (brokers=%s, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Каталог артистов (nil - проверка артиста отключена)
	var artists createBookingUC.ArtistDirectory
	if cfg.ArtistService.Enabled {
		artists = artistServiceClient.NewClient(
			cfg.ArtistService.URL,
			time.Duration(cfg.ArtistService.Timeout)*time.Second,
			log,
		)
		log.Info("ArtistService client initialized (url=%s timeout=%ds)", cfg.ArtistService.URL, cfg.ArtistService.Timeout)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookings,
		availabilityCacheImpl,
		publisher,
		metricsCollector,
		location,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		availability,
		bookings,
		availabilityCacheImpl,
		publisher,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		availability,
		bookings,
		availabilityCacheImpl,
		txMgr,
		metricsCollector,
		getAvailabilityUC.Config{
			DefaultSlots: defaultSlots,
			MaxRangeDays: cfg.Availability.MaxRangeDays,
			Location:     location,
		},
		log,
	)
	checkSlotUseCase := checkSlotUC.NewUseCase(
		availability,
		bookings,
		defaultSlots,
		location,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookings,
		availability,
		artists,
		availabilityCacheImpl,
		publisher,
		metricsCollector,
		txMgr,
		defaultSlots,
		location,
		log,
	)

	// Настраиваем роутер
	routerOpts := api.Options{}
	if cfg.Metrics.Enabled {
		routerOpts.Metrics = metricsCollector
		routerOpts.MetricsPath = cfg.Metrics.Path
		routerOpts.MetricsHandler = promhttp.Handler()
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r := api.NewRouter(api.Handlers{
		GetAvailability:    getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log),
		GetCalendar:        getCalendarHandler.NewHandler(getAvailabilityUseCase, log),
		SetAvailability:    setAvailabilityHandler.NewHandler(availabilitySvc, log),
		CheckSlot:          checkSlotHandler.NewHandler(checkSlotUseCase, log),
		CreateBooking:      createBookingHandler.NewHandler(createBookingUseCase, log),
		GetBooking:         getBookingHandler.NewHandler(bookingSvc, log),
		TransitionBooking:  transitionBookingHandler.NewHandler(bookingSvc, log),
		CompleteBooking:    completeBookingHandler.NewHandler(bookingSvc, log),
		ListArtistBookings: listArtistBookingsHandler.NewHandler(bookingSvc, log),
		ListClientBookings: listClientBookingsHandler.NewHandler(bookingSvc, log),
	}, routerOpts)

	var handler http.Handler = r
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(r, cfg.Tracing.ServiceName)
	}

	// Фоновое завершение прошедших бронирований
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	sweeperDone := make(chan struct{})
	if cfg.Sweeper.Enabled {
		interval := time.Duration(cfg.Sweeper.Interval) * time.Second
		go func() {
			defer close(sweeperDone)
			runSweeper(sweeperCtx, bookingSvc, interval, log)
		}()
		log.Info("Completion sweeper started (interval=%s)", interval)
	} else {
		close(sweeperDone)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
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

	stopSweeper()
	<-sweeperDone

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
