package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("artist-booking", prometheus.NewRegistry())

	m.BookingCreated()
	m.BookingCreated()
	m.SlotConflict()
	m.BookingTransition("pending", "confirmed")
	m.ObserveDBQuery("insert", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsCreated.WithLabelValues("artist-booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotConflicts.WithLabelValues("artist-booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingTransitions.WithLabelValues("artist-booking", "pending", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("artist-booking", "insert")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingCreated()
		m.SlotConflict()
		m.CacheLookup("hit")
		m.ObserveHTTPRequest("GET", "/", 200, time.Second)
	})
}
