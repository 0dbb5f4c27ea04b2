package artistservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ArtistBooking/pkg/logger"
)

func TestClient_GetArtist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/artists/artist-1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"artist-1","display_name":"Nova","bookable":true}`))
		case "/internal/artists/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.Discard())
	ctx := context.Background()

	artist, err := client.GetArtist(ctx, "artist-1")
	require.NoError(t, err)
	assert.Equal(t, "Nova", artist.DisplayName)
	assert.True(t, artist.Bookable)

	_, err = client.GetArtistWithGracefulDegradation(ctx, "missing")
	assert.ErrorIs(t, err, ErrArtistNotFound)

	_, err = client.GetArtistWithGracefulDegradation(ctx, "broken")
	assert.ErrorIs(t, err, ErrServiceDegraded)
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, logger.Discard())

	_, err := client.GetArtistWithGracefulDegradation(context.Background(), "artist-1")
	assert.ErrorIs(t, err, ErrServiceDegraded)
}
