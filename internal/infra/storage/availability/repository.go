package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ArtistBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

const tableName = "artist_availability"

// DBExecutor интерфейс выполнения запросов (*dbmetrics.DB или транзакция)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий явных настроек дней артиста.
// Дни без строки в таблице трактуются вызывающим кодом как шаблон по умолчанию.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDateRange получает настройки артиста за период [start, end] в порядке дат
func (r *Repository) GetByDateRange(ctx context.Context, artistID string, start, end time.Time) ([]*domain.AvailabilityDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("artist_id", "day", "status", "open_slots", "updated_at").
		From(tableName).
		Where(squirrel.Eq{"artist_id": artistID}).
		Where(squirrel.GtOrEq{"day": types.DateOnly(start)}).
		Where(squirrel.LtOrEq{"day": types.DateOnly(end)}).
		OrderBy("day ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.AvailabilityDay, 0)
	for rows.Next() {
		var day domain.AvailabilityDay
		var slots []string
		var updatedAt sql.NullTime

		if err := rows.Scan(&day.ArtistID, &day.Date, &day.Status, pq.Array(&slots), &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetByDateRange - scan row: %w", ErrScanRow, err)
		}

		day.Date = types.DateOnly(day.Date)
		day.OpenSlots = make([]types.TimeString, len(slots))
		for i, s := range slots {
			day.OpenSlots[i] = types.TimeString(s)
		}
		day.UpdatedAt = updatedAt.Time

		days = append(days, &day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - rows error: %w", ErrScanRow, err)
	}

	return days, nil
}

// Upsert сохраняет настройки дней одним запросом, последняя запись по дню побеждает.
// Для атомарности набора вызывать внутри транзакции.
func (r *Repository) Upsert(ctx context.Context, days []*domain.AvailabilityDay) error {
	if len(days) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert(tableName).
		Columns("artist_id", "day", "status", "open_slots", "updated_at")

	for _, day := range days {
		slots := make([]string, len(day.OpenSlots))
		for i, s := range day.OpenSlots {
			slots[i] = s.String()
		}
		builder = builder.Values(day.ArtistID, types.DateOnly(day.Date), day.Status, pq.Array(slots), squirrel.Expr("NOW()"))
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (artist_id, day) DO UPDATE SET " +
			"status = EXCLUDED.status, open_slots = EXCLUDED.open_slots, updated_at = EXCLUDED.updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}
