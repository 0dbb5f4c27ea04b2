package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

const (
	headerArtistID       = "X-Artist-ID"
	headerIdempotencyKey = "Idempotency-Key"

	codeValidation        = "validation_failed"
	codeSlotConflict      = "slot_conflict"
	codeIllegalTransition = "illegal_transition"
	codeNotFound          = "not_found"
	codeForbidden         = "forbidden"
	codeUnauthorized      = "unauthorized"
)

// Client HTTP клиент сервиса бронирований для фронтенда маркетплейса.
// Запись никогда не повторяется автоматически. Чтение доступности при недоступности
// сервиса отдает шаблон по умолчанию с Degraded=true.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	defaultSlots []types.TimeString
	log          Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, defaultSlots []types.TimeString, log Logger) *Client {
	if len(defaultSlots) == 0 {
		defaultSlots = domain.DefaultSlots()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		defaultSlots: defaultSlots,
		log:          log,
	}
}

// GetAvailability получает доступность артиста за период.
// Сетевые ошибки и 5xx переводят клиента в режим только чтения с шаблоном по умолчанию.
func (c *Client) GetAvailability(ctx context.Context, artistID string, start, end time.Time) (*domain.Availability, error) {
	query := url.Values{}
	query.Set("start", types.DateKey(start))
	query.Set("end", types.DateKey(end))
	endpoint := fmt.Sprintf("%s/api/v1/artists/%s/availability?%s", c.baseURL, url.PathEscape(artistID), query.Encode())

	var body availabilityResponse
	err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &body)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			c.log.Warn("BookingAPI unavailable, serving default availability for artist=%s: %v", artistID, err)
			degraded := domain.DefaultAvailability(artistID, start, end, c.defaultSlots)
			degraded.Degraded = true
			return degraded, nil
		}
		return nil, err
	}

	availability, err := body.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: availability: %v", ErrInvalidResponse, err)
	}
	return availability, nil
}

// SetAvailability обновляет дни артиста от имени callerID
func (c *Client) SetAvailability(ctx context.Context, callerID, artistID string, days map[string]domain.DayUpdate) (*SetAvailabilityResult, error) {
	payload := setAvailabilityRequest{Days: make(map[string]dayInput, len(days))}
	for date, d := range days {
		in := dayInput{Status: string(d.Status)}
		for _, s := range d.Slots {
			in.Slots = append(in.Slots, s.String())
		}
		payload.Days[date] = in
	}

	endpoint := fmt.Sprintf("%s/api/v1/artists/%s/availability", c.baseURL, url.PathEscape(artistID))
	headers := map[string]string{headerArtistID: callerID}

	var result SetAvailabilityResult
	if err := c.do(ctx, http.MethodPut, endpoint, headers, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckSlot рекомендательная проверка слота перед созданием
func (c *Client) CheckSlot(ctx context.Context, artistID string, date time.Time, at types.TimeString) (bool, error) {
	query := url.Values{}
	query.Set("date", types.DateKey(date))
	query.Set("time", at.String())
	endpoint := fmt.Sprintf("%s/api/v1/artists/%s/slots/check?%s", c.baseURL, url.PathEscape(artistID), query.Encode())

	var body checkSlotResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &body); err != nil {
		return false, err
	}
	return body.Available, nil
}

// CreateBooking создает бронирование. Ключ идемпотентности черновика передается в заголовке.
func (c *Client) CreateBooking(ctx context.Context, draft *domain.BookingDraft) (*domain.Booking, error) {
	payload := createBookingRequest{
		ArtistID:    draft.ArtistID,
		ClientName:  draft.ClientName,
		ClientEmail: draft.ClientEmail,
		Date:        types.DateKey(draft.Date),
		Time:        draft.Time.String(),
		Service:     draft.Service,
		Message:     draft.Message,
	}

	var headers map[string]string
	if draft.IdempotencyKey != nil {
		headers = map[string]string{headerIdempotencyKey: *draft.IdempotencyKey}
	}

	return c.doBooking(ctx, http.MethodPost, c.baseURL+"/api/v1/bookings", headers, payload)
}

// GetBooking получает бронирование по ID
func (c *Client) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return c.doBooking(ctx, http.MethodGet, c.bookingURL(bookingID, ""), nil, nil)
}

// Transition принимает или отклоняет бронирование от имени артиста
func (c *Client) Transition(ctx context.Context, callerID string, bookingID int64, action domain.Action) (*domain.Booking, error) {
	headers := map[string]string{headerArtistID: callerID}
	return c.doBooking(ctx, http.MethodPatch, c.bookingURL(bookingID, "/status"), headers,
		transitionRequest{Action: string(action)})
}

// Complete завершает прошедшее подтвержденное бронирование
func (c *Client) Complete(ctx context.Context, callerID string, bookingID int64) (*domain.Booking, error) {
	headers := map[string]string{headerArtistID: callerID}
	return c.doBooking(ctx, http.MethodPost, c.bookingURL(bookingID, "/complete"), headers, nil)
}

// ListArtistBookings список бронирований артиста. status пустой или "all" - без фильтра.
func (c *Client) ListArtistBookings(ctx context.Context, callerID, artistID, status, q string) (*BookingList, error) {
	query := url.Values{}
	setNonEmpty(query, "status", status)
	setNonEmpty(query, "q", q)
	endpoint := fmt.Sprintf("%s/api/v1/artists/%s/bookings?%s", c.baseURL, url.PathEscape(artistID), query.Encode())

	return c.list(ctx, endpoint, map[string]string{headerArtistID: callerID})
}

// ListClientBookings список бронирований клиента по email
func (c *Client) ListClientBookings(ctx context.Context, email, status, q string) (*BookingList, error) {
	query := url.Values{}
	query.Set("email", email)
	setNonEmpty(query, "status", status)
	setNonEmpty(query, "q", q)

	return c.list(ctx, c.baseURL+"/api/v1/bookings?"+query.Encode(), nil)
}

func (c *Client) list(ctx context.Context, endpoint string, headers map[string]string) (*BookingList, error) {
	var body bookingListResponse
	if err := c.do(ctx, http.MethodGet, endpoint, headers, nil, &body); err != nil {
		return nil, err
	}

	result := &BookingList{
		Bookings: make([]*domain.Booking, 0, len(body.Bookings)),
		Counts: domain.StatusCounts{
			Pending:   body.Counts.Pending,
			Confirmed: body.Counts.Confirmed,
			Completed: body.Counts.Completed,
			Declined:  body.Counts.Declined,
			Total:     body.Counts.Total,
		},
	}
	for i := range body.Bookings {
		b, err := body.Bookings[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: booking: %v", ErrInvalidResponse, err)
		}
		result.Bookings = append(result.Bookings, b)
	}
	return result, nil
}

func (c *Client) doBooking(ctx context.Context, method, endpoint string, headers map[string]string, payload interface{}) (*domain.Booking, error) {
	var body bookingResponse
	if err := c.do(ctx, method, endpoint, headers, payload, &body); err != nil {
		return nil, err
	}
	booking, err := body.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: booking: %v", ErrInvalidResponse, err)
	}
	return booking, nil
}

func (c *Client) bookingURL(bookingID int64, suffix string) string {
	return c.baseURL + "/api/v1/bookings/" + strconv.FormatInt(bookingID, 10) + suffix
}

// do выполняет запрос и декодирует ответ 2xx в out. Ошибки ответа переводятся в доменные ошибки.
func (c *Client) do(ctx context.Context, method, endpoint string, headers map[string]string, payload, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s: %v", domain.ErrStoreUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
		}
		return nil
	}

	return decodeError(resp)
}

// decodeError переводит ответ с ошибкой в доменную ошибку
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body ErrorResponse
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d: %s", domain.ErrStoreUnavailable, resp.StatusCode, body.Error)
	}

	switch body.Code {
	case codeValidation:
		verr := domain.NewValidationError()
		for field, msg := range body.Fields {
			verr.Add(field, msg)
		}
		if !verr.HasErrors() {
			verr.Add("request", body.Error)
		}
		return verr
	case codeSlotConflict:
		return fmt.Errorf("%w: %s", domain.ErrSlotConflict, body.Error)
	case codeIllegalTransition:
		return fmt.Errorf("%w: %s", domain.ErrIllegalTransition, body.Error)
	case codeNotFound:
		return fmt.Errorf("%w: %s", domain.ErrBookingNotFound, body.Error)
	case codeForbidden, codeUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, body.Error)
	}

	return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(raw))
}

func setNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
