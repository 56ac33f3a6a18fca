// Package notifier отправляет события бронирований во внешний сервис
// уведомлений. Доставка выполняется в режиме fire-and-forget: ошибки
// логируются, но никогда не влияют на исход операции бронирования.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/glowup-team/booking-service/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Типы событий уведомлений
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventStatusChanged    = "booking.status_changed"
)

// Event событие бронирования для сервиса уведомлений
type Event struct {
	Type          string `json:"type"`
	BookingID     int64  `json:"booking_id"`
	ReferenceCode string `json:"reference_code"`
	ClientID      int64  `json:"client_id"`
	MasterID      int64  `json:"master_id"`
	Date          string `json:"date"`
	StartMinute   int    `json:"start_minute"`
	EndMinute     int    `json:"end_minute"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
}

// Client клиент сервиса уведомлений
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// NotifyBookingCreated отправляет уведомление о создании бронирования
func (c *Client) NotifyBookingCreated(ctx context.Context, booking *domain.Booking) {
	c.send(ctx, eventFromBooking(EventBookingCreated, booking, ""))
}

// NotifyBookingCancelled отправляет уведомление об отмене бронирования
func (c *Client) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking, reason string) {
	c.send(ctx, eventFromBooking(EventBookingCancelled, booking, reason))
}

// NotifyStatusChanged отправляет уведомление о смене статуса
func (c *Client) NotifyStatusChanged(ctx context.Context, booking *domain.Booking) {
	c.send(ctx, eventFromBooking(EventStatusChanged, booking, ""))
}

func eventFromBooking(eventType string, booking *domain.Booking, reason string) Event {
	return Event{
		Type:          eventType,
		BookingID:     booking.ID,
		ReferenceCode: booking.ReferenceCode,
		ClientID:      booking.ClientID,
		MasterID:      booking.MasterID,
		Date:          booking.Date.Format(domain.DateFormat),
		StartMinute:   booking.StartMinute,
		EndMinute:     booking.EndMinute,
		Status:        string(booking.Status),
		Reason:        reason,
	}
}

func (c *Client) send(ctx context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		c.log.Warn("Notifier: failed to marshal event %s for booking %d: %v", event.Type, event.BookingID, err)
		return
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.log.Warn("Notifier: failed to create request for booking %d: %v", event.BookingID, err)
		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Notifier: failed to deliver event %s for booking %d: %v", event.Type, event.BookingID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Warn("Notifier: unexpected status code %d for booking %d", resp.StatusCode, event.BookingID)
		return
	}

	c.log.Info("Notifier: delivered event %s for booking %d", event.Type, event.BookingID)
}

// NopNotifier заглушка, используется когда сервис уведомлений не настроен
type NopNotifier struct{}

func (NopNotifier) NotifyBookingCreated(context.Context, *domain.Booking)           {}
func (NopNotifier) NotifyBookingCancelled(context.Context, *domain.Booking, string) {}
func (NopNotifier) NotifyStatusChanged(context.Context, *domain.Booking)            {}
