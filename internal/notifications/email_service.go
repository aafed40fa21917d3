package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"homestay/internal/shared/config"
	"homestay/pkg/logger"
)

// EmailService delivers a booking notification to its recipient
type EmailService interface {
	SendNotification(ctx context.Context, notification *BookingNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// NewSMTPConfig builds the SMTP settings from the application email config
func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

func (c *SMTPConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if c.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("SMTP password is required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SMTPEmailService sends notifications through an SMTP relay
type SMTPEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailService{
		config: config,
		log:    logger.GetDefault().WithComponent("email"),
	}, nil
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *BookingNotification) error {
	htmlBody, textBody, err := RenderContent(notification)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}
	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

// SendHTML sends a multipart email with text and HTML parts
func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := buildMessage(s.config.FromName, s.config.FromEmail, to, subject, htmlBody, textBody, time.Now())
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	if err := s.send(ctx, addr, auth, to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.DebugContext(ctx, "Email sent", "to", to, "subject", subject)
	return nil
}

// send dials with the context deadline and upgrades with STARTTLS when configured
func (s *SMTPEmailService) send(ctx context.Context, addr string, auth smtp.Auth, to string, message []byte) error {
	dialer := &net.Dialer{Timeout: s.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else if s.config.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.config.Timeout))
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Quit()

	if s.config.UseTLS {
		if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

// buildMessage creates the email message with proper headers
func buildMessage(fromName, fromEmail, to, subject, htmlBody, textBody string, now time.Time) []byte {
	boundary := "boundary_" + strconv.FormatInt(now.UnixNano(), 10)

	var b strings.Builder
	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", fromName, fromEmail)},
		{"To", to},
		{"Subject", subject},
		{"Date", now.Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=" + boundary},
	}
	for _, h := range headers {
		b.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	b.WriteString("\r\n")

	if textBody != "" {
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(textBody + "\r\n")
	}
	if htmlBody != "" {
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(htmlBody + "\r\n")
	}
	b.WriteString("--" + boundary + "--\r\n")

	return []byte(b.String())
}

type emailContent struct {
	Name     string
	Headline string
	Message  string
	Hotel    string
	CheckIn  string
	CheckOut string
	Total    string
	Refund   string
	Reason   string
	Booking  string
}

const htmlLayout = `<h2>{{.Headline}}</h2>
<p>Hi {{.Name}},</p>
<p>{{.Message}}</p>
<table>
<tr><td>Booking</td><td>{{.Booking}}</td></tr>
{{if .Hotel}}<tr><td>Hotel</td><td>{{.Hotel}}</td></tr>{{end}}
<tr><td>Check-in</td><td>{{.CheckIn}}</td></tr>
<tr><td>Check-out</td><td>{{.CheckOut}}</td></tr>
<tr><td>Total</td><td>{{.Total}}</td></tr>
{{if .Refund}}<tr><td>Refund</td><td>{{.Refund}}</td></tr>{{end}}
</table>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>Best regards,<br>Homestay Team</p>`

const textLayout = `Hi {{.Name}},

{{.Message}}

Booking: {{.Booking}}
{{if .Hotel}}Hotel: {{.Hotel}}
{{end}}Check-in: {{.CheckIn}}
Check-out: {{.CheckOut}}
Total: {{.Total}}
{{if .Refund}}Refund: {{.Refund}}
{{end}}{{if .Reason}}Reason: {{.Reason}}
{{end}}
Best regards,
Homestay Team`

var (
	htmlTemplate = template.Must(template.New("html").Parse(htmlLayout))
	textTemplate = texttemplate.Must(texttemplate.New("text").Parse(textLayout))
)

// RenderContent produces the HTML and plain text bodies for a notification
func RenderContent(n *BookingNotification) (string, string, error) {
	data := contentFor(n)

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTemplate.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}
	if err := textTemplate.Execute(&textBuf, data); err != nil {
		return "", "", err
	}
	return htmlBuf.String(), textBuf.String(), nil
}

func contentFor(n *BookingNotification) emailContent {
	layout := "02 Jan 2006"
	if n.BookingType == "hourly" {
		layout = "02 Jan 2006 15:04"
	}

	data := emailContent{
		Name:     n.RecipientName,
		Headline: n.Subject,
		Hotel:    n.HotelName,
		CheckIn:  n.CheckIn.Format(layout),
		CheckOut: n.CheckOut.Format(layout),
		Total:    fmt.Sprintf("Rs. %.2f", n.TotalCost),
		Reason:   n.Reason,
		Booking:  n.BookingID.String(),
	}
	if n.RefundAmount > 0 {
		data.Refund = fmt.Sprintf("Rs. %.2f", n.RefundAmount)
	}

	switch n.Type {
	case NotificationTypeBookingCreated:
		data.Message = "We have received your booking and payment. Please upload a government ID so the hotel can confirm your stay."
	case NotificationTypeIDSubmitted:
		data.Message = "Your ID proof has been submitted. The hotel will review it shortly."
	case NotificationTypeBookingConfirmed:
		data.Message = "Your ID proof was verified and your booking is confirmed."
	case NotificationTypeBookingRejected:
		data.Message = "Unfortunately the hotel could not verify your ID proof. Your booking was rejected and the full amount will be refunded."
	case NotificationTypeBookingCancelled:
		data.Message = "Your booking has been cancelled. The full amount will be refunded."
	case NotificationTypeBookingCompleted:
		data.Message = "We hope you enjoyed your stay. You can now leave a review for the hotel."
	case NotificationTypeBookingRefunded:
		data.Message = "Your refund has been processed."
	default:
		data.Message = "There is an update on your booking."
	}
	return data
}

// LogEmailService logs notifications instead of sending them; used when SMTP is not configured
type LogEmailService struct {
	log *logger.Logger
}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{log: logger.GetDefault().WithComponent("email")}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *BookingNotification) error {
	_, textBody, err := RenderContent(notification)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}
	s.log.InfoContext(ctx, "Email not sent, SMTP disabled",
		"to", notification.RecipientEmail,
		"subject", notification.Subject,
		"body", textBody,
	)
	return nil
}
