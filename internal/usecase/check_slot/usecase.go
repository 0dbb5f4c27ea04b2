package check_slot

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// UseCase рекомендательная проверка слота перед созданием бронирования.
// Результат не резервирует слот: окончательное решение принимает create_booking.
type UseCase struct {
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	defaultSlots     []types.TimeString
	location         *time.Location
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
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
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
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

// Execute возвращает Available=true, только если слот в будущем, открыт и не занят
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация
	date, at, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	resp := &Response{ArtistID: req.ArtistID, Date: date, Time: at}

	// 2. Прошедший слот
	slotAt, err := types.Combine(date, at)
	if err != nil {
		return nil, err
	}
	if !slotAt.After(types.WallClock(uc.timeProvider.Now(), uc.location)) {
		resp.Reason = ReasonPast
		return resp, nil
	}

	// 3. Слот открыт у артиста
	days, err := uc.availabilityRepo.GetByDateRange(ctx, req.ArtistID, date, date)
	if err != nil {
		uc.logger.Error("CheckSlot: failed to get availability for artist=%s: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: CheckSlot - availability repository: %v", domain.ErrStoreUnavailable, err)
	}
	var setting *domain.AvailabilityDay
	if len(days) > 0 {
		setting = days[0]
	}
	if !domain.ContainsSlot(setting.Slots(uc.defaultSlots), at) {
		resp.Reason = ReasonNotOpen
		return resp, nil
	}

	// 4. Слот не занят активным бронированием
	booked, err := uc.bookingRepo.GetBookedSlots(ctx, req.ArtistID, date, date)
	if err != nil {
		uc.logger.Error("CheckSlot: failed to get booked slots for artist=%s: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: CheckSlot - booking repository: %v", domain.ErrStoreUnavailable, err)
	}
	if domain.ContainsSlot(booked[types.DateKey(date)], at) {
		resp.Reason = ReasonBooked
		return resp, nil
	}

	resp.Available = true
	resp.Reason = ReasonAvailable
	return resp, nil
}
