package artistservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client клиент каталога артистов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога артистов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// GetArtist получает артиста по ID
func (c *Client) GetArtist(ctx context.Context, artistID string) (*Artist, error) {
	endpoint := fmt.Sprintf("%s/internal/artists/%s", c.baseURL, url.PathEscape(artistID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrArtistNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var artist Artist
	if err := json.NewDecoder(resp.Body).Decode(&artist); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &artist, nil
}

// GetArtistWithGracefulDegradation получает артиста с graceful degradation.
// ErrArtistNotFound пробрасывается как есть, любая другая ошибка превращается в ErrServiceDegraded,
// и вызывающий код продолжает без проверки каталога.
func (c *Client) GetArtistWithGracefulDegradation(ctx context.Context, artistID string) (*Artist, error) {
	artist, err := c.GetArtist(ctx, artistID)
	if err != nil {
		if errors.Is(err, ErrArtistNotFound) {
			c.log.Info("Artist %s not found in catalog", artistID)
			return nil, err
		}

		c.log.Error("ArtistService unavailable, applying graceful degradation for artist=%s: %v", artistID, err)
		return nil, fmt.Errorf("%w: artist=%s, error=%v", ErrServiceDegraded, artistID, err)
	}

	return artist, nil
}
