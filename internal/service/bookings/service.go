package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ArtistBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

const actionComplete = "complete"

// Service сервис жизненного цикла и справочника бронирований
type Service struct {
	bookingRepo  BookingRepository
	cache        AvailabilityCache
	publisher    EventPublisher
	metrics      Metrics
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// location - часовой пояс настенных часов артистов, в котором сравнивается "сейчас" со слотами.
func NewService(
	bookingRepo BookingRepository,
	cache AvailabilityCache,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		cache:        cache,
		publisher:    publisher,
		metrics:      metrics,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// Transition применяет решение артиста (accept/decline) к бронированию в статусе pending.
// Обновление условное: из двух конкурентных переходов успешен только один.
func (s *Service) Transition(ctx context.Context, req *models.TransitionRequest) (*models.BookingResponse, error) {
	s.logger.Info("Transition: booking id=%d action=%s by artist=%s", req.BookingID, req.Action, req.ArtistID)

	action, ok := domain.ParseAction(req.Action)
	if !ok {
		verr := domain.NewValidationError()
		verr.Add("action", "must be accept or decline")
		return nil, verr
	}

	booking, err := s.getBooking(ctx, "Transition", req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.ArtistID != req.ArtistID {
		s.logger.Warn("Transition: artist=%s does not own booking id=%d", req.ArtistID, req.BookingID)
		return nil, fmt.Errorf("%w: booking id=%d", domain.ErrForbidden, req.BookingID)
	}

	next, err := booking.Status.Next(action)
	if err != nil {
		s.logger.Warn("Transition: booking id=%d: %v", req.BookingID, err)
		return nil, err
	}

	updated, err := s.applyStatus(ctx, "Transition", booking, next, string(action))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transition: booking id=%d %s -> %s", updated.ID, booking.Status, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// Complete переводит подтвержденное бронирование, время которого прошло, в completed
func (s *Service) Complete(ctx context.Context, req *models.CompleteRequest) (*models.BookingResponse, error) {
	s.logger.Info("Complete: booking id=%d by artist=%s", req.BookingID, req.ArtistID)

	booking, err := s.getBooking(ctx, "Complete", req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.ArtistID != req.ArtistID {
		s.logger.Warn("Complete: artist=%s does not own booking id=%d", req.ArtistID, req.BookingID)
		return nil, fmt.Errorf("%w: booking id=%d", domain.ErrForbidden, req.BookingID)
	}

	if !booking.CanBeCompleted(s.wallNow()) {
		s.logger.Warn("Complete: booking id=%d status=%s dateTime=%s cannot be completed yet",
			booking.ID, booking.Status, booking.DateTime().Format(domain.DateTimeFormat))
		return nil, domain.NewTransitionError(booking.Status, actionComplete)
	}

	updated, err := s.applyStatus(ctx, "Complete", booking, domain.StatusCompleted, actionComplete)
	if err != nil {
		return nil, err
	}

	s.metrics.BookingsCompleted(1)
	return models.FromDomainBooking(updated), nil
}

// CompleteElapsed переводит в completed все подтвержденные бронирования, время которых прошло.
// Бронирования, изменившиеся конкурентно, пропускаются.
func (s *Service) CompleteElapsed(ctx context.Context) (int, error) {
	now := s.wallNow()

	candidates, err := s.bookingRepo.GetElapsedConfirmed(ctx, now)
	if err != nil {
		s.logger.Error("CompleteElapsed: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteElapsed - repository error: %v", domain.ErrStoreUnavailable, err)
	}

	completed := 0
	for _, booking := range candidates {
		if !booking.CanBeCompleted(now) {
			continue
		}
		if _, err := s.applyStatus(ctx, "CompleteElapsed", booking, domain.StatusCompleted, actionComplete); err != nil {
			if errors.Is(err, domain.ErrIllegalTransition) {
				continue
			}
			return completed, err
		}
		completed++
	}

	if completed > 0 {
		s.metrics.BookingsCompleted(completed)
		s.logger.Info("CompleteElapsed: completed %d bookings", completed)
	}
	return completed, nil
}

// ListBookings возвращает бронирования артиста или клиента с фильтром по статусу и поиском
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	artistID := strings.TrimSpace(req.ArtistID)
	email := strings.TrimSpace(req.ClientEmail)

	s.logger.Info("ListBookings: artist=%q email=%q status=%q query=%q", artistID, email, req.Status, req.Query)

	verr := domain.NewValidationError()
	if (artistID == "") == (email == "") {
		verr.Add("owner", "exactly one of artistId or email is required")
	}

	var status *domain.BookingStatus
	if st := strings.TrimSpace(req.Status); st != "" && !strings.EqualFold(st, "all") {
		parsed, ok := domain.ParseBookingStatus(st)
		if !ok {
			verr.Add("status", "unknown status")
		}
		status = &parsed
	}

	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	var (
		all []*domain.Booking
		err error
	)
	if artistID != "" {
		if req.CallerID != artistID {
			s.logger.Warn("ListBookings: caller=%q is not artist=%s", req.CallerID, artistID)
			return nil, fmt.Errorf("%w: artist bookings are visible to the artist only", domain.ErrForbidden)
		}
		all, err = s.bookingRepo.GetByArtistID(ctx, artistID)
	} else {
		all, err = s.bookingRepo.GetByClientEmail(ctx, email)
	}
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", domain.ErrStoreUnavailable, err)
	}

	bookings, counts := BuildDirectory(all, status, req.Query)
	return models.FromDomainBookingList(bookings, counts), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, fmt.Errorf("%w: id=%d", domain.ErrBookingNotFound, id)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", domain.ErrStoreUnavailable, op, err)
	}
	return booking, nil
}

// applyStatus выполняет условное обновление и побочные эффекты после него
func (s *Service) applyStatus(ctx context.Context, op string, booking *domain.Booking, to domain.BookingStatus, action string) (*domain.Booking, error) {
	updated, err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, to)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusChanged) {
			s.logger.Warn("%s: booking id=%d changed concurrently", op, booking.ID)
			return nil, domain.NewTransitionError(booking.Status, action)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, booking.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", domain.ErrStoreUnavailable, op, err)
	}

	s.metrics.BookingTransition(string(booking.Status), string(updated.Status))

	if err := s.cache.Invalidate(ctx, updated.ArtistID); err != nil {
		s.logger.Warn("%s: failed to invalidate availability cache for artist=%s: %v", op, updated.ArtistID, err)
	}
	if err := s.publisher.PublishBooking(ctx, events.TypeForStatus(updated.Status), updated); err != nil {
		s.logger.Warn("%s: failed to publish event for booking id=%d: %v", op, updated.ID, err)
	}

	return updated, nil
}

func (s *Service) wallNow() time.Time {
	return types.WallClock(s.timeProvider.Now(), s.location)
}
