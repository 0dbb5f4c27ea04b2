package api

import (
	"net/http"

	"github.com/gorilla/mux"

	checkSlotHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/check_slot"
	completeBookingHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/get_calendar"
	listArtistBookingsHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/list_artist_bookings"
	listClientBookingsHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/list_client_bookings"
	setAvailabilityHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/set_availability"
	transitionBookingHandler "github.com/m04kA/SMC-ArtistBooking/internal/api/handlers/transition_booking"
	"github.com/m04kA/SMC-ArtistBooking/internal/api/middleware"
)

// Handlers набор обработчиков всех маршрутов
type Handlers struct {
	GetAvailability    *getAvailabilityHandler.Handler
	GetCalendar        *getCalendarHandler.Handler
	SetAvailability    *setAvailabilityHandler.Handler
	CheckSlot          *checkSlotHandler.Handler
	CreateBooking      *createBookingHandler.Handler
	GetBooking         *getBookingHandler.Handler
	TransitionBooking  *transitionBookingHandler.Handler
	CompleteBooking    *completeBookingHandler.Handler
	ListArtistBookings *listArtistBookingsHandler.Handler
	ListClientBookings *listClientBookingsHandler.Handler
}

// Options необязательные части роутера
type Options struct {
	// Metrics включает MetricsMiddleware, nil - выключено
	Metrics middleware.HTTPMetrics
	// MetricsPath и MetricsHandler публикуют метрики Prometheus
	MetricsPath    string
	MetricsHandler http.Handler
}

// NewRouter настраивает маршруты API
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
	}

	// Metrics endpoint (публичный, без аутентификации)
	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// --- Доступность ---
	api.HandleFunc("/artists/{artistId}/availability", h.GetAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/artists/{artistId}/calendar", h.GetCalendar.Handle).Methods(http.MethodGet)
	api.HandleFunc("/artists/{artistId}/slots/check", h.CheckSlot.Handle).Methods(http.MethodGet)

	// --- Бронирования клиента ---
	api.HandleFunc("/bookings", h.CreateBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.ListClientBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", h.GetBooking.Handle).Methods(http.MethodGet)

	// ============================================================
	// ARTIST ROUTES (требуют X-Artist-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ArtistAuth)

	protected.HandleFunc("/artists/{artistId}/availability", h.SetAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/artists/{artistId}/bookings", h.ListArtistBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/status", h.TransitionBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/complete", h.CompleteBooking.Handle).Methods(http.MethodPost)

	return r
}
