package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "active slot index",
			err:  &pq.Error{Code: "23505", Constraint: activeSlotIndex},
			want: ErrSlotTaken,
		},
		{
			name: "idempotency index",
			err:  fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: idempotencyIndex}),
			want: ErrIdempotencyKeyTaken,
		},
		{
			name: "other pq error",
			err:  &pq.Error{Code: "40001"},
			want: nil,
		},
		{
			name: "not a pq error",
			err:  errors.New("connection reset"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapUniqueViolation(tt.err))
		})
	}
}

func TestActiveStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"pending", "confirmed"}, activeStatusStrings())
}
