package availability

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

const maxDaysPerRequest = 366

// Service сервис настройки доступности артиста
type Service struct {
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	cache            AvailabilityCache
	publisher        EventPublisher
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	cache AvailabilityCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		cache:            cache,
		publisher:        publisher,
		txManager:        txManager,
		logger:           logger,
	}
}

// SetAvailability сохраняет настройки дней артиста одной транзакцией.
// Недоступный день теряет все открытые слоты, существующие бронирования не отменяются.
func (s *Service) SetAvailability(ctx context.Context, req *models.SetAvailabilityRequest) (*models.SetAvailabilityResponse, error) {
	s.logger.Info("SetAvailability: artist=%s days=%d by caller=%q", req.ArtistID, len(req.Days), req.CallerID)

	// 1. Только сам артист
	if req.CallerID == "" || req.CallerID != req.ArtistID {
		s.logger.Warn("SetAvailability: caller=%q is not artist=%s", req.CallerID, req.ArtistID)
		return nil, fmt.Errorf("%w: availability can be changed by the artist only", domain.ErrForbidden)
	}

	// 2. Валидация и нормализация
	days, err := toDomainDays(req)
	if err != nil {
		s.logger.Warn("SetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем весь набор атомарно
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.availabilityRepo.Upsert(txCtx, days)
	})
	if err != nil {
		s.logger.Error("SetAvailability: failed to upsert days for artist=%s: %v", req.ArtistID, err)
		return nil, fmt.Errorf("%w: SetAvailability - repository error: %v", domain.ErrStoreUnavailable, err)
	}

	dates := make([]time.Time, len(days))
	updated := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.Date
		updated[i] = types.DateKey(d.Date)
	}

	// 4. Побочные эффекты после записи не влияют на результат
	affected := s.countAffectedBookings(ctx, req.ArtistID, days)
	if affected > 0 {
		s.logger.Warn("SetAvailability: artist=%s has %d active bookings on days marked unavailable", req.ArtistID, affected)
	}

	if err := s.cache.Invalidate(ctx, req.ArtistID); err != nil {
		s.logger.Warn("SetAvailability: failed to invalidate cache for artist=%s: %v", req.ArtistID, err)
	}
	if err := s.publisher.PublishAvailability(ctx, req.ArtistID, dates); err != nil {
		s.logger.Warn("SetAvailability: failed to publish event for artist=%s: %v", req.ArtistID, err)
	}

	s.logger.Info("SetAvailability: artist=%s updated %d days", req.ArtistID, len(days))
	return &models.SetAvailabilityResponse{
		ArtistID:         req.ArtistID,
		UpdatedDates:     updated,
		AffectedBookings: affected,
	}, nil
}

// countAffectedBookings считает активные бронирования на днях, ставших недоступными
func (s *Service) countAffectedBookings(ctx context.Context, artistID string, days []*domain.AvailabilityDay) int {
	var closed []*domain.AvailabilityDay
	for _, d := range days {
		if d.Status == domain.DayUnavailable {
			closed = append(closed, d)
		}
	}
	if len(closed) == 0 {
		return 0
	}

	// days отсортированы по дате
	booked, err := s.bookingRepo.GetBookedSlots(ctx, artistID, closed[0].Date, closed[len(closed)-1].Date)
	if err != nil {
		s.logger.Warn("SetAvailability: failed to check bookings on closed days for artist=%s: %v", artistID, err)
		return 0
	}

	count := 0
	for _, d := range closed {
		count += len(booked[types.DateKey(d.Date)])
	}
	return count
}

// toDomainDays проверяет запрос и возвращает дни, отсортированные по дате.
// Все ошибки по полям собираются в одну ValidationError.
func toDomainDays(req *models.SetAvailabilityRequest) ([]*domain.AvailabilityDay, error) {
	verr := domain.NewValidationError()

	if len(req.Days) == 0 {
		verr.Add("days", "at least one date is required")
		return nil, verr
	}
	if len(req.Days) > maxDaysPerRequest {
		verr.Add("days", fmt.Sprintf("at most %d dates per request", maxDaysPerRequest))
		return nil, verr
	}

	days := make([]*domain.AvailabilityDay, 0, len(req.Days))
	for key, input := range req.Days {
		field := "days." + key

		date, err := types.ParseDate(key)
		if err != nil {
			verr.Add(field, "date must be YYYY-MM-DD")
			continue
		}

		status := domain.DayStatus(strings.ToLower(strings.TrimSpace(input.Status)))
		if !status.IsValid() {
			verr.Add(field, "status must be available or unavailable")
			continue
		}

		day := &domain.AvailabilityDay{ArtistID: req.ArtistID, Date: date, Status: status}

		if status == domain.DayUnavailable {
			if len(input.Slots) > 0 {
				verr.Add(field, "slots are not allowed for an unavailable day")
				continue
			}
			days = append(days, day)
			continue
		}

		slots := make([]types.TimeString, len(input.Slots))
		for i, raw := range input.Slots {
			slots[i] = types.TimeString(strings.TrimSpace(raw))
		}
		normalized, err := domain.NormalizeSlots(slots)
		if err != nil {
			verr.Add(field, "slots must be HH:MM")
			continue
		}
		day.OpenSlots = normalized
		days = append(days, day)
	}

	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}
