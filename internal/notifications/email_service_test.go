package notifications

import (
	"strings"
	"testing"
	"time"

	"homestay/internal/bookings"
	"homestay/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContent(t *testing.T) {
	booking := sampleBooking()
	booking.RefundAmount = 5000
	n := NewBookingNotification(bookings.EventRejected, booking, "Lake View", time.Now())

	htmlBody, textBody, err := RenderContent(n)
	require.NoError(t, err)

	assert.Contains(t, htmlBody, "Booking rejected at Lake View")
	assert.Contains(t, htmlBody, "Rs. 5000.00")
	assert.Contains(t, htmlBody, "Reason: Blurry image")
	assert.Contains(t, textBody, "Hi Asha Rao,")
	assert.Contains(t, textBody, "Check-in: 10 Mar 2024")
	assert.Contains(t, textBody, "Refund: Rs. 5000.00")
	assert.Contains(t, textBody, "could not verify your ID proof")
}

func TestRenderContent_EscapesHTML(t *testing.T) {
	booking := sampleBooking()
	booking.FirstName = "<script>"
	booking.LastName = ""
	n := NewBookingNotification(bookings.EventCreated, booking, "", time.Now())

	htmlBody, textBody, err := RenderContent(n)
	require.NoError(t, err)

	assert.NotContains(t, htmlBody, "<script>")
	assert.Contains(t, textBody, "Hi <script>,")
	assert.NotContains(t, htmlBody, "Refund")
}

func TestRenderContent_HourlyShowsTime(t *testing.T) {
	booking := sampleBooking()
	booking.BookingType = bookings.BookingTypeHourly
	n := NewBookingNotification(bookings.EventConfirmed, booking, "", time.Now())

	_, textBody, err := RenderContent(n)
	require.NoError(t, err)
	assert.Contains(t, textBody, "Check-in: 10 Mar 2024 12:00")
	assert.Contains(t, textBody, "Check-out: 12 Mar 2024 11:00")
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	message := string(buildMessage("Homestay", "noreply@homestay.local", "asha@example.com", "Booking confirmed", "<p>hi</p>", "hi", now))

	headerEnd := strings.Index(message, "\r\n\r\n")
	require.Positive(t, headerEnd)
	headers := message[:headerEnd]

	assert.Contains(t, headers, "From: Homestay <noreply@homestay.local>")
	assert.Contains(t, headers, "To: asha@example.com")
	assert.Contains(t, headers, "Subject: Booking confirmed")
	assert.Contains(t, headers, "multipart/alternative; boundary=boundary_")
	assert.Contains(t, message, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, message, "Content-Type: text/html; charset=UTF-8")
	assert.True(t, strings.HasSuffix(message, "--\r\n"))
}

func TestSMTPConfig_Validate(t *testing.T) {
	valid := NewSMTPConfig(config.EmailConfig{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPUsername: "mailer",
		SMTPPassword: "secret",
		FromEmail:    "noreply@homestay.local",
		FromName:     "Homestay",
	})
	require.NoError(t, valid.Validate())
	assert.True(t, valid.UseTLS)

	tests := []struct {
		name   string
		modify func(c *SMTPConfig)
		want   string
	}{
		{"missing host", func(c *SMTPConfig) { c.Host = "" }, "host"},
		{"bad port", func(c *SMTPConfig) { c.Port = 70000 }, "port"},
		{"missing username", func(c *SMTPConfig) { c.Username = "" }, "username"},
		{"missing password", func(c *SMTPConfig) { c.Password = "" }, "password"},
		{"missing sender", func(c *SMTPConfig) { c.FromEmail = "" }, "from email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *valid
			tt.modify(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			_, err = NewSMTPEmailService(&c)
			assert.Error(t, err)
		})
	}
}
