package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ArtistBooking/internal/integrations/artistservice"
	"github.com/m04kA/SMC-ArtistBooking/pkg/txmanager"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	artists          ArtistDirectory
	cache            AvailabilityCache
	publisher        EventPublisher
	metrics          Metrics
	txManager        TransactionManager
	defaultSlots     []types.TimeString
	location         *time.Location
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case. artists может быть nil - проверка артиста отключена.
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	artists ArtistDirectory,
	cache AvailabilityCache,
	publisher EventPublisher,
	metrics Metrics,
	txManager TransactionManager,
	defaultSlots []types.TimeString,
	location *time.Location,
	logger Logger,
) *UseCase {
	if len(defaultSlots) == 0 {
		defaultSlots = domain.DefaultSlots()
	}
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		artists:          artists,
		cache:            cache,
		publisher:        publisher,
		metrics:          metrics,
		txManager:        txManager,
		defaultSlots:     defaultSlots,
		location:         location,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Вставка атомарна: при гонке за слот ровно один запрос получает pending бронирование,
// остальные - domain.ErrSlotConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	req = normalize(req)
	uc.logger.Info("CreateBooking: artist=%s, date=%s, time=%s", req.ArtistID, req.Date, req.Time)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	draft, err := validateRequest(req, types.WallClock(now, uc.location))
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем артиста в каталоге
	if err := uc.checkArtist(ctx, draft.ArtistID); err != nil {
		return nil, err
	}

	var (
		result   *domain.Booking
		replayed bool
	)

	// 3. Повтор по ключу, проверка слота и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if draft.IdempotencyKey != nil {
			existing, err := uc.bookingRepo.GetByIdempotencyKey(txCtx, draft.ArtistID, *draft.IdempotencyKey)
			switch {
			case err == nil:
				result, replayed = existing, true
				return nil
			case !errors.Is(err, bookingRepo.ErrBookingNotFound):
				return fmt.Errorf("%w: CreateBooking - get by idempotency key: %v", domain.ErrStoreUnavailable, err)
			}
		}

		days, err := uc.availabilityRepo.GetByDateRange(txCtx, draft.ArtistID, draft.Date, draft.Date)
		if err != nil {
			return fmt.Errorf("%w: CreateBooking - get availability: %v", domain.ErrStoreUnavailable, err)
		}
		var setting *domain.AvailabilityDay
		if len(days) > 0 {
			setting = days[0]
		}
		if !domain.ContainsSlot(setting.Slots(uc.defaultSlots), draft.Time) {
			return fmt.Errorf("%w: %w", domain.ErrSlotConflict, ErrSlotNotOpen)
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			ArtistID:       draft.ArtistID,
			ClientName:     draft.ClientName,
			ClientEmail:    draft.ClientEmail,
			Date:           draft.Date,
			Time:           draft.Time,
			Service:        draft.Service,
			Message:        draft.Message,
			Status:         domain.StatusPending,
			IdempotencyKey: draft.IdempotencyKey,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return err
		}
		result = created
		return nil
	})

	// 4. Параллельный запрос с тем же ключом мог успеть записать бронирование
	if err != nil && draft.IdempotencyKey != nil &&
		(errors.Is(err, bookingRepo.ErrIdempotencyKeyTaken) || errors.Is(err, txmanager.ErrSerialization)) {
		existing, getErr := uc.bookingRepo.GetByIdempotencyKey(ctx, draft.ArtistID, *draft.IdempotencyKey)
		switch {
		case getErr == nil:
			result, replayed, err = existing, true, nil
		case !errors.Is(getErr, bookingRepo.ErrBookingNotFound):
			uc.logger.Error("CreateBooking: failed to replay idempotency key for artist=%s: %v", draft.ArtistID, getErr)
			return nil, fmt.Errorf("%w: CreateBooking - replay: %v", domain.ErrStoreUnavailable, getErr)
		}
	}

	// 5. Разбираем ошибки записи
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSlotConflict):
		uc.metrics.SlotConflict()
		uc.logger.Warn("CreateBooking: slot %s %s is not open for artist=%s", req.Date, req.Time, draft.ArtistID)
		return nil, err
	case errors.Is(err, bookingRepo.ErrSlotTaken), errors.Is(err, txmanager.ErrSerialization):
		uc.metrics.SlotConflict()
		uc.logger.Warn("CreateBooking: slot %s %s is already taken for artist=%s: %v",
			req.Date, req.Time, draft.ArtistID, err)
		return nil, fmt.Errorf("%w: CreateBooking - %v", domain.ErrSlotConflict, err)
	case errors.Is(err, domain.ErrStoreUnavailable):
		uc.logger.Error("CreateBooking: store error: %v", err)
		return nil, err
	default:
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: CreateBooking - repository error: %v", domain.ErrStoreUnavailable, err)
	}

	if replayed {
		uc.logger.Info("CreateBooking: replayed booking id=%d for idempotency key", result.ID)
		return &Response{Booking: result, Replayed: true}, nil
	}

	// 6. Побочные эффекты после коммита не влияют на результат
	uc.metrics.BookingCreated()
	if err := uc.cache.Invalidate(ctx, result.ArtistID); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate cache for artist=%s: %v", result.ArtistID, err)
	}
	if err := uc.publisher.PublishBooking(ctx, events.TypeBookingCreated, result); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	uc.logger.Info("CreateBooking: booking id=%d created for artist=%s at %s %s",
		result.ID, result.ArtistID, req.Date, result.Time)

	return &Response{Booking: result}, nil
}

// checkArtist проверяет, что артист существует и принимает бронирования.
// Недоступность каталога не блокирует создание.
func (uc *UseCase) checkArtist(ctx context.Context, artistID string) error {
	if uc.artists == nil {
		return nil
	}

	artist, err := uc.artists.GetArtistWithGracefulDegradation(ctx, artistID)
	switch {
	case errors.Is(err, artistservice.ErrArtistNotFound):
		verr := domain.NewValidationError()
		verr.Add("artistId", "artist not found")
		return verr
	case err != nil:
		uc.logger.Warn("CreateBooking: artist directory unavailable, proceeding for artist=%s: %v", artistID, err)
		return nil
	case artist != nil && !artist.Bookable:
		verr := domain.NewValidationError()
		verr.Add("artistId", "artist does not accept bookings")
		return verr
	}
	return nil
}
