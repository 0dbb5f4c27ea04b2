package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

const defaultPrefix = "artist-booking"

// AvailabilityCache кеш чтений доступности артиста.
// Ключи данных включают версию артиста: Invalidate увеличивает версию,
// и все ранее записанные диапазоны перестают читаться без удаления по шаблону.
type AvailabilityCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewAvailabilityCache создает кеш поверх клиента Redis
func NewAvailabilityCache(rdb redis.Cmdable, ttl time.Duration, prefix string) *AvailabilityCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

type entry struct {
	ArtistID string              `json:"artistId"`
	Start    string              `json:"start"`
	End      string              `json:"end"`
	Open     map[string][]string `json:"open"`
	Booked   map[string][]string `json:"booked"`
}

// Get возвращает закешированную доступность и версию артиста, под которой выполнялось чтение.
// При промахе доступность nil. Версию нужно передать в Set: запись под версией, наблюдавшейся
// до чтения из хранилища, не переживает Invalidate, случившийся между чтением и записью.
func (c *AvailabilityCache) Get(ctx context.Context, artistID string, start, end time.Time) (*domain.Availability, int64, error) {
	version, err := c.version(ctx, artistID)
	if err != nil {
		return nil, 0, err
	}

	raw, err := c.rdb.Get(ctx, c.dataKey(artistID, version, start, end)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, nil
	}
	if err != nil {
		return nil, version, fmt.Errorf("%w: Get - artist=%s: %w", ErrRedis, artistID, err)
	}

	availability, err := decode(raw)
	if err != nil {
		return nil, version, err
	}
	return availability, version, nil
}

// Set сохраняет доступность под версией, полученной из Get
func (c *AvailabilityCache) Set(ctx context.Context, a *domain.Availability, version int64) error {
	raw, err := encode(a)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, c.dataKey(a.ArtistID, version, a.Start, a.End), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - artist=%s: %w", ErrRedis, a.ArtistID, err)
	}
	return nil
}

// Invalidate делает недействительными все закешированные диапазоны артиста
func (c *AvailabilityCache) Invalidate(ctx context.Context, artistID string) error {
	if err := c.rdb.Incr(ctx, c.versionKey(artistID)).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - artist=%s: %w", ErrRedis, artistID, err)
	}
	return nil
}

func (c *AvailabilityCache) version(ctx context.Context, artistID string) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey(artistID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: version - artist=%s: %w", ErrRedis, artistID, err)
	}
	return v, nil
}

func (c *AvailabilityCache) versionKey(artistID string) string {
	return fmt.Sprintf("%s:availability:%s:version", c.prefix, artistID)
}

func (c *AvailabilityCache) dataKey(artistID string, version int64, start, end time.Time) string {
	return fmt.Sprintf("%s:availability:%s:v%d:%s:%s", c.prefix, artistID, version, types.DateKey(start), types.DateKey(end))
}

func encode(a *domain.Availability) ([]byte, error) {
	e := entry{
		ArtistID: a.ArtistID,
		Start:    types.DateKey(a.Start),
		End:      types.DateKey(a.End),
		Open:     toStrings(a.OpenSlotsByDate),
		Booked:   toStrings(a.BookedSlotsByDate),
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrDecode, err)
	}
	return raw, nil
}

func decode(raw []byte) (*domain.Availability, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	start, err := types.ParseDate(e.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	end, err := types.ParseDate(e.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &domain.Availability{
		ArtistID:          e.ArtistID,
		Start:             start,
		End:               end,
		OpenSlotsByDate:   fromStrings(e.Open),
		BookedSlotsByDate: fromStrings(e.Booked),
	}, nil
}

func toStrings(m map[string][]types.TimeString) map[string][]string {
	out := make(map[string][]string, len(m))
	for date, slots := range m {
		list := make([]string, len(slots))
		for i, s := range slots {
			list[i] = s.String()
		}
		out[date] = list
	}
	return out
}

func fromStrings(m map[string][]string) map[string][]types.TimeString {
	out := make(map[string][]types.TimeString, len(m))
	for date, slots := range m {
		list := make([]types.TimeString, len(slots))
		for i, s := range slots {
			list[i] = types.TimeString(s)
		}
		out[date] = list
	}
	return out
}
