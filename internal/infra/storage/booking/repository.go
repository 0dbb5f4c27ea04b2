package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ArtistBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

const (
	tableName = "bookings"

	pgUniqueViolation = "23505"

	// Частичный уникальный индекс (artist_id, booking_date, start_time) WHERE status IN ('pending','confirmed')
	activeSlotIndex = "bookings_active_slot_uidx"
	// Уникальный индекс (artist_id, idempotency_key) WHERE idempotency_key IS NOT NULL
	idempotencyIndex = "bookings_idempotency_uidx"
)

var bookingColumns = []string{
	"id",
	"artist_id",
	"client_name",
	"client_email",
	"booking_date",
	"start_time",
	"service",
	"message",
	"status",
	"idempotency_key",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Эксклюзивность слота обеспечивает частичный уникальный индекс: вставка второго активного
// бронирования на тот же слот завершается ErrSlotTaken.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"artist_id",
			"client_name",
			"client_email",
			"booking_date",
			"start_time",
			"service",
			"message",
			"status",
			"idempotency_key",
		).
		Values(
			booking.ArtistID,
			booking.ClientName,
			booking.ClientEmail,
			booking.Date,
			booking.Time,
			booking.Service,
			booking.Message,
			booking.Status,
			booking.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, fmt.Errorf("%w: Create - artist=%s date=%s time=%s",
				mapped, booking.ArtistID, types.DateKey(booking.Date), booking.Time)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByIdempotencyKey получает бронирование артиста, созданное с указанным ключом идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, artistID, key string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		Where(squirrel.Eq{"artist_id": artistID, "idempotency_key": key}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByArtistID получает все бронирования артиста в порядке даты, времени и ID
func (r *Repository) GetByArtistID(ctx context.Context, artistID string) ([]*domain.Booking, error) {
	return r.list(ctx, "GetByArtistID", squirrel.Eq{"artist_id": artistID})
}

// GetByClientEmail получает все бронирования клиента. Email сравнивается без учета регистра.
func (r *Repository) GetByClientEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	return r.list(ctx, "GetByClientEmail", squirrel.Expr("LOWER(client_email) = LOWER(?)", strings.TrimSpace(email)))
}

// GetElapsedConfirmed получает подтвержденные бронирования с датой не позже upTo.
// Точную проверку времени слота выполняет вызывающий код.
func (r *Repository) GetElapsedConfirmed(ctx context.Context, upTo time.Time) ([]*domain.Booking, error) {
	return r.list(ctx, "GetElapsedConfirmed", squirrel.And{
		squirrel.Eq{"status": domain.StatusConfirmed},
		squirrel.LtOrEq{"booking_date": types.DateOnly(upTo)},
	})
}

// GetBookedSlots возвращает занятые слоты артиста за период, сгруппированные по дате (YYYY-MM-DD).
// Занятым считается слот активного бронирования (pending, confirmed).
func (r *Repository) GetBookedSlots(ctx context.Context, artistID string, start, end time.Time) (map[string][]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booking_date", "start_time").
		From(tableName).
		Where(squirrel.Eq{"artist_id": artistID, "status": activeStatusStrings()}).
		Where(squirrel.GtOrEq{"booking_date": types.DateOnly(start)}).
		Where(squirrel.LtOrEq{"booking_date": types.DateOnly(end)}).
		OrderBy("booking_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedSlots - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedSlots - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	booked := make(map[string][]types.TimeString)
	for rows.Next() {
		var date time.Time
		var slot types.TimeString
		if err := rows.Scan(&date, &slot); err != nil {
			return nil, fmt.Errorf("%w: GetBookedSlots - scan row: %w", ErrScanRow, err)
		}
		key := types.DateKey(date)
		booked[key] = append(booked[key], slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBookedSlots - rows error: %w", ErrScanRow, err)
	}

	return booked, nil
}

// UpdateStatus условно меняет статус: строка обновляется, только если текущий статус равен from.
// Конкурентные переходы одного бронирования линеаризуются, проигравший получает ErrStatusChanged.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: UpdateStatus - id=%d expected status %s", ErrStatusChanged, id, from)
	}
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, fmt.Errorf("%w: UpdateStatus - id=%d", mapped, id)
		}
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		Where(where).
		OrderBy("booking_date ASC", "start_time ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var idempotencyKey sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ArtistID,
		&booking.ClientName,
		&booking.ClientEmail,
		&booking.Date,
		&booking.Time,
		&booking.Service,
		&booking.Message,
		&booking.Status,
		&idempotencyKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Date = types.DateOnly(booking.Date)
	if idempotencyKey.Valid {
		booking.IdempotencyKey = &idempotencyKey.String
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// mapUniqueViolation переводит нарушение уникальных индексов в ошибки репозитория
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pgUniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case idempotencyIndex:
		return ErrIdempotencyKeyTaken
	default:
		return ErrSlotTaken
	}
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
