package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowup-team/booking-service/internal/domain"
	bookingRepo "github.com/glowup-team/booking-service/internal/infra/storage/booking"
	catalogClient "github.com/glowup-team/booking-service/internal/integrations/catalogservice"
	"github.com/glowup-team/booking-service/internal/service/bookings/models"
)

const (
	clientID    = int64(100)
	masterID    = int64(10)
	colleagueID = int64(11) // мастер того же салона
	outsiderID  = int64(99) // мастер другого салона
	salonID     = int64(1)
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetByReferenceCode(_ context.Context, code string) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.ReferenceCode == code {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) GetByClientID(_ context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.ClientID != clientID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) GetByMasterWithFilter(_ context.Context, filter domain.MasterBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.MasterID != filter.MasterID {
			continue
		}
		if !filter.IncludeInactive && b.IsCancelled() {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason string) error {
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = status
	b.CancellationReason = &reason
	b.CancelledAt = &now
	return nil
}

type fakeCatalog struct {
	masters map[int64]*catalogClient.Master
}

func (c *fakeCatalog) GetMaster(_ context.Context, id int64) (*catalogClient.Master, error) {
	m, ok := c.masters[id]
	if !ok {
		return nil, catalogClient.ErrMasterNotFound
	}
	return m, nil
}

type recordingNotifier struct {
	cancelled     int
	statusChanged int
}

func (n *recordingNotifier) NotifyBookingCancelled(_ context.Context, _ *domain.Booking, _ string) {
	n.cancelled++
}

func (n *recordingNotifier) NotifyStatusChanged(_ context.Context, _ *domain.Booking) {
	n.statusChanged++
}

type recordingMetrics struct {
	cancelledBy map[string]int
}

func (m *recordingMetrics) IncBookingsCancelled(initiator string) {
	if m.cancelledBy == nil {
		m.cancelledBy = make(map[string]int)
	}
	m.cancelledBy[initiator]++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{masters: map[int64]*catalogClient.Master{
		masterID:    {ID: masterID, SalonID: salonID, FullName: "Анна Иванова", Active: true},
		colleagueID: {ID: colleagueID, SalonID: salonID, FullName: "Мария Петрова", Active: true},
		outsiderID:  {ID: outsiderID, SalonID: 2, FullName: "Ольга Сидорова", Active: true},
	}}
}

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		ReferenceCode: "ref-123",
		MasterID:      masterID,
		SalonID:       salonID,
		ServiceID:     42,
		ClientID:      clientID,
		Date:          time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartMinute:   600,
		EndMinute:     660,
		Status:        status,
		ServiceName:   "Стрижка",
		ServicePrice:  1500,
	}
}

func newService(repo *fakeBookingRepo, notifier *recordingNotifier, metrics *recordingMetrics) *Service {
	return NewService(repo, testCatalog(), notifier, metrics, nopLogger{})
}

func TestGetByID_ClientSeesOwnBooking(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	resp, err := svc.GetByID(context.Background(), 1, clientID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "11:00", resp.EndTime)
	assert.Equal(t, "2026-09-14", resp.Date)
}

func TestGetByID_ForeignClientDenied(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	_, err := svc.GetByID(context.Background(), 1, int64(555))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_SalonColleagueAllowed(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	_, err := svc.GetByID(context.Background(), 1, colleagueID)
	assert.NoError(t, err)
}

func TestGetByID_OtherSalonMasterDenied(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	_, err := svc.GetByID(context.Background(), 1, outsiderID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByReferenceCode(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	resp, err := svc.GetByReferenceCode(context.Background(), "ref-123", clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = svc.GetByReferenceCode(context.Background(), "no-such-code", clientID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ByClient(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	notifier := &recordingNotifier{}
	metrics := &recordingMetrics{}
	svc := newService(repo, notifier, metrics)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:            clientID,
		CancellationReason: "планы изменились",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelledByClient, repo.bookings[1].Status)
	assert.Equal(t, 1, notifier.cancelled)
	assert.Equal(t, 1, metrics.cancelledBy["client"])
}

func TestCancel_BySalonMaster(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	notifier := &recordingNotifier{}
	metrics := &recordingMetrics{}
	svc := newService(repo, notifier, metrics)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:            colleagueID,
		CancellationReason: "мастер заболел",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelledBySalon, repo.bookings[1].Status)
	assert.Equal(t, 1, metrics.cancelledBy["salon"])
}

func TestCancel_ClientCannotCancelConfirmed(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	notifier := &recordingNotifier{}
	svc := newService(repo, notifier, &recordingMetrics{})

	// confirmed -> cancelled_by_client запрещен таблицей переходов,
	// подтвержденное бронирование отменяет только салон
	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:            clientID,
		CancellationReason: "передумал",
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, domain.StatusConfirmed, repo.bookings[1].Status)
	assert.Zero(t, notifier.cancelled)
}

func TestCancel_SalonCanCancelConfirmed(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		ActorID:            masterID,
		CancellationReason: "мастер заболел",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledBySalon, repo.bookings[1].Status)
}

func TestCancel_CompletedBookingRejected(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusCompleted))
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{ActorID: clientID})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_OutsiderDenied(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	notifier := &recordingNotifier{}
	svc := newService(repo, notifier, &recordingMetrics{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{ActorID: outsiderID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, repo.bookings[1].Status)
	assert.Zero(t, notifier.cancelled)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		wantErr error
	}{
		{name: "pending to confirmed", from: domain.StatusPending, to: "confirmed"},
		{name: "confirmed to completed", from: domain.StatusConfirmed, to: "completed"},
		{name: "confirmed to no_show", from: domain.StatusConfirmed, to: "no_show"},
		{name: "pending to completed", from: domain.StatusPending, to: "completed", wantErr: ErrInvalidTransition},
		{name: "completed is terminal", from: domain.StatusCompleted, to: "confirmed", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusPending, to: "paused", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeBookingRepo(testBooking(1, tt.from))
			svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

			err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
				ActorID: masterID,
				Status:  tt.to,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, repo.bookings[1].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, string(repo.bookings[1].Status))
		})
	}
}

func TestUpdateStatus_ClientDenied(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ActorID: clientID,
		Status:  "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetClientBookings_StatusFilter(t *testing.T) {
	pending := testBooking(1, domain.StatusPending)
	completed := testBooking(2, domain.StatusCompleted)
	completed.ReferenceCode = "ref-456"
	repo := newFakeBookingRepo(pending, completed)
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	all, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{ClientID: clientID})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 2)

	status := "completed"
	filtered, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: clientID,
		Status:   &status,
	})
	require.NoError(t, err)
	require.Len(t, filtered.Bookings, 1)
	assert.Equal(t, int64(2), filtered.Bookings[0].ID)
}

func TestGetMasterBookings_AccessAndFilter(t *testing.T) {
	active := testBooking(1, domain.StatusConfirmed)
	cancelled := testBooking(2, domain.StatusCancelledByClient)
	cancelled.ReferenceCode = "ref-456"
	repo := newFakeBookingRepo(active, cancelled)
	svc := newService(repo, &recordingNotifier{}, &recordingMetrics{})

	resp, err := svc.GetMasterBookings(context.Background(), &models.GetMasterBookingsRequest{
		MasterID: masterID,
		ActorID:  masterID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = svc.GetMasterBookings(context.Background(), &models.GetMasterBookingsRequest{
		MasterID:        masterID,
		ActorID:         colleagueID,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	_, err = svc.GetMasterBookings(context.Background(), &models.GetMasterBookingsRequest{
		MasterID: masterID,
		ActorID:  outsiderID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
