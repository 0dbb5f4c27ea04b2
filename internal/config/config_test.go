package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

const sampleConfig = `
[server]
http_port = 8090

[storage]
driver = "memory"

[logs]
level = "debug"

[availability]
default_slots = ["10:00", "12:00"]
max_range_days = 31

[booking]
timezone = "Europe/Berlin"

[sweeper]
enabled = true
interval = 60
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, 31, cfg.Availability.MaxRangeDays)
	assert.Equal(t, []types.TimeString{"10:00", "12:00"}, cfg.Availability.Slots())
	assert.True(t, cfg.Sweeper.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ARTIST_BOOKING_SERVER_HTTP_PORT", "9000")
	t.Setenv("ARTIST_BOOKING_REDIS_ENABLED", "true")
	t.Setenv("ARTIST_BOOKING_REDIS_ADDR", "redis:6379")
	t.Setenv("ARTIST_BOOKING_AVAILABILITY_DEFAULT_SLOTS", "09:00,11:00,13:00")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Len(t, cfg.Availability.Slots(), 3)
	// непереопределенные значения остаются из файла
	assert.Equal(t, 31, cfg.Availability.MaxRangeDays)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown storage driver",
			content: "[storage]\ndriver = \"sqlite\"\n",
		},
		{
			name:    "unknown timezone",
			content: "[storage]\ndriver = \"memory\"\n[booking]\ntimezone = \"Mars/Olympus\"\n",
		},
		{
			name:    "malformed default slot",
			content: "[storage]\ndriver = \"memory\"\n[availability]\ndefault_slots = [\"9am\"]\n",
		},
		{
			name:    "redis enabled without addr",
			content: "[storage]\ndriver = \"memory\"\n[redis]\nenabled = true\n",
		},
		{
			name:    "postgres without database",
			content: "[database]\nhost = \"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "booking", Password: "secret", DBName: "artists", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=booking password=secret dbname=artists sslmode=disable", d.DSN())
}

func TestBookingConfig_DefaultLocation(t *testing.T) {
	loc, err := BookingConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
