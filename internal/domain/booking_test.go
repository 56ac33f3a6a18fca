package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowup-team/booking-service/pkg/ptr"
	"github.com/glowup-team/booking-service/pkg/timegrid"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelledByClient, true},
		{StatusPending, StatusCancelledBySalon, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusNoShow, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelledBySalon, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelledByClient, false},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelledByClient, StatusPending, false},
		{StatusCancelledBySalon, StatusConfirmed, false},
		{StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.allowed, b.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingOccupies(t *testing.T) {
	// Отмененные бронирования освобождают сетку, все остальные занимают.
	occupying := []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow}
	for _, status := range occupying {
		b := &Booking{Status: status}
		assert.True(t, b.Occupies(), "status %s must occupy the grid", status)
	}

	for _, status := range CancelledStatuses {
		b := &Booking{Status: status}
		assert.False(t, b.Occupies(), "status %s must free the grid", status)
	}
}

func TestBookingTerminalStates(t *testing.T) {
	terminal := []BookingStatus{StatusCompleted, StatusCancelledByClient, StatusCancelledBySalon, StatusNoShow}
	for _, status := range terminal {
		b := &Booking{Status: status}
		assert.True(t, b.IsTerminal())
		assert.Empty(t, statusTransitions[status])
	}

	assert.False(t, (&Booking{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusConfirmed}).IsTerminal())
}

func TestWeeklyRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    WeeklyRule
		wantErr bool
	}{
		{
			name: "valid without break",
			rule: WeeklyRule{Weekday: 1, StartMinute: 540, EndMinute: 1080, Active: true},
		},
		{
			name: "valid with break",
			rule: WeeklyRule{
				Weekday: 1, StartMinute: 540, EndMinute: 1080,
				BreakStartMinute: ptr.Ptr(780), BreakEndMinute: ptr.Ptr(840), Active: true,
			},
		},
		{
			name: "break covers whole day is valid",
			rule: WeeklyRule{
				Weekday: 1, StartMinute: 540, EndMinute: 1080,
				BreakStartMinute: ptr.Ptr(540), BreakEndMinute: ptr.Ptr(1080), Active: true,
			},
		},
		{
			name:    "start after end",
			rule:    WeeklyRule{Weekday: 1, StartMinute: 1080, EndMinute: 540},
			wantErr: true,
		},
		{
			name:    "weekday out of range",
			rule:    WeeklyRule{Weekday: 7, StartMinute: 540, EndMinute: 1080},
			wantErr: true,
		},
		{
			name: "break outside working hours",
			rule: WeeklyRule{
				Weekday: 1, StartMinute: 540, EndMinute: 1080,
				BreakStartMinute: ptr.Ptr(480), BreakEndMinute: ptr.Ptr(600),
			},
			wantErr: true,
		},
		{
			name: "half-specified break",
			rule: WeeklyRule{
				Weekday: 1, StartMinute: 540, EndMinute: 1080,
				BreakStartMinute: ptr.Ptr(780),
			},
			wantErr: true,
		},
		{
			name: "inverted break",
			rule: WeeklyRule{
				Weekday: 1, StartMinute: 540, EndMinute: 1080,
				BreakStartMinute: ptr.Ptr(840), BreakEndMinute: ptr.Ptr(780),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidWeeklyRule)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestWeeklyRuleResolve(t *testing.T) {
	t.Run("break splits working interval", func(t *testing.T) {
		rule := WeeklyRule{
			StartMinute: 540, EndMinute: 1080,
			BreakStartMinute: ptr.Ptr(780), BreakEndMinute: ptr.Ptr(840),
			Active: true,
		}
		assert.Equal(t, []timegrid.Interval{{StartMinute: 540, EndMinute: 780}, {StartMinute: 840, EndMinute: 1080}}, rule.Resolve())
	})

	t.Run("break covering everything yields empty", func(t *testing.T) {
		rule := WeeklyRule{
			StartMinute: 540, EndMinute: 1080,
			BreakStartMinute: ptr.Ptr(540), BreakEndMinute: ptr.Ptr(1080),
			Active: true,
		}
		assert.Empty(t, rule.Resolve())
	})

	t.Run("inactive rule yields empty", func(t *testing.T) {
		rule := WeeklyRule{StartMinute: 540, EndMinute: 1080, Active: false}
		assert.Empty(t, rule.Resolve())
	})
}
