package get_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/calendar"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// UseCase use case чтения доступности и календаря артиста
type UseCase struct {
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	cache            AvailabilityCache
	txManager        TransactionManager
	metrics          Metrics
	config           Config
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	metrics Metrics,
	config Config,
	logger Logger,
) *UseCase {
	if len(config.DefaultSlots) == 0 {
		config.DefaultSlots = domain.DefaultSlots()
	}
	if config.MaxRangeDays <= 0 {
		config.MaxRangeDays = domain.DefaultMaxRangeDays
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &UseCase{
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		cache:            cache,
		txManager:        txManager,
		metrics:          metrics,
		config:           config,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает открытые и занятые слоты артиста за период [Start, End]
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Availability, error) {
	uc.logger.Info("GetAvailability: artist=%s, period=%s to %s",
		req.ArtistID, req.Start.Format(domain.DateFormat), req.End.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.config.MaxRangeDays); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	start, end := types.DateOnly(req.Start), types.DateOnly(req.End)

	// 2. Кеш
	cached, version, err := uc.cache.Get(ctx, req.ArtistID, start, end)
	cacheable := err == nil
	switch {
	case err != nil:
		uc.metrics.CacheLookup(cacheError)
		uc.logger.Warn("GetAvailability: cache read failed for artist=%s: %v", req.ArtistID, err)
	case cached != nil:
		uc.metrics.CacheLookup(cacheHit)
		return cached, nil
	default:
		uc.metrics.CacheLookup(cacheMiss)
	}

	// 3. Читаем настройки и занятые слоты согласованно
	var (
		days   []*domain.AvailabilityDay
		booked map[string][]types.TimeString
	)
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if days, err = uc.availabilityRepo.GetByDateRange(txCtx, req.ArtistID, start, end); err != nil {
			return err
		}
		booked, err = uc.bookingRepo.GetBookedSlots(txCtx, req.ArtistID, start, end)
		return err
	})
	if err != nil {
		uc.logger.Error("GetAvailability: store error for artist=%s: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: GetAvailability - repository error: %v", domain.ErrStoreUnavailable, err)
	}

	result := compose(req.ArtistID, start, end, days, booked, uc.config.DefaultSlots)

	// 4. Пишем под версией, наблюдавшейся до чтения: инвалидация после коммита брони делает запись недостижимой
	if cacheable {
		if err := uc.cache.Set(ctx, result, version); err != nil {
			uc.logger.Warn("GetAvailability: cache write failed for artist=%s: %v", req.ArtistID, err)
		}
	}

	return result, nil
}

// Calendar строит календарь артиста в виде month, week или day вокруг Anchor.
// Без Anchor календарь строится вокруг сегодняшней даты по настенным часам артистов.
func (uc *UseCase) Calendar(ctx context.Context, req *CalendarRequest) (*CalendarResponse, error) {
	asOf := types.DateOnly(types.WallClock(uc.timeProvider.Now(), uc.config.Location))

	anchor := types.DateOnly(req.Anchor)
	if req.Anchor.IsZero() {
		anchor = asOf
	}

	start, end := calendar.Range(anchor, req.View)

	availability, err := uc.Execute(ctx, &Request{ArtistID: req.ArtistID, Start: start, End: end})
	if err != nil {
		return nil, err
	}

	cells, err := calendar.Build(calendar.Input{
		OpenSlotsByDate:   availability.OpenSlotsByDate,
		BookedSlotsByDate: availability.BookedSlotsByDate,
		DefaultSlots:      uc.config.DefaultSlots,
		AsOf:              asOf,
		Anchor:            anchor,
	}, req.View)
	if err != nil {
		return nil, fmt.Errorf("%w: Calendar - %v", ErrInternal, err)
	}

	return &CalendarResponse{
		ArtistID: req.ArtistID,
		View:     req.View,
		Anchor:   anchor,
		AsOf:     asOf,
		Cells:    cells,
	}, nil
}
