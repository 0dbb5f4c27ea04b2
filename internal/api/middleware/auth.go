package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ArtistBooking/internal/api/handlers"
)

// HeaderArtistID заголовок с ID артиста, выставляется шлюзом после аутентификации
const HeaderArtistID = "X-Artist-ID"

const msgMissingArtistID = "missing X-Artist-ID header"

type contextKey string

const artistIDKey contextKey = "artist_id"

// ArtistAuth требует заголовок X-Artist-ID и кладет его значение в контекст
func ArtistAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		artistID := strings.TrimSpace(r.Header.Get(HeaderArtistID))
		if artistID == "" {
			handlers.RespondUnauthorized(w, msgMissingArtistID)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithArtistID(r.Context(), artistID)))
	})
}

// WithArtistID кладет ID артиста в контекст
func WithArtistID(ctx context.Context, artistID string) context.Context {
	return context.WithValue(ctx, artistIDKey, artistID)
}

// GetArtistID возвращает ID артиста из контекста
func GetArtistID(ctx context.Context) (string, bool) {
	artistID, ok := ctx.Value(artistIDKey).(string)
	return artistID, ok && artistID != ""
}
