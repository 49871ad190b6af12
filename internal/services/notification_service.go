package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"laundryops/internal/config"
	"laundryops/internal/models"
	"laundryops/pkg/logger"

	"github.com/wneessen/go-mail"
	"go.uber.org/multierr"
)

var (
	errEmailNotConfigured = errors.New("smtp credentials not configured")
	errSMSDisabled        = errors.New("sms notifications not enabled")
)

// EmailSender delivers one HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMSSender delivers one text message.
type SMSSender interface {
	Send(ctx context.Context, to, message string) error
}

// NotificationService tells customers their order is ready.
type NotificationService interface {
	NotifyOrderReady(ctx context.Context, order *models.Order) *models.NotificationReport
}

type notificationService struct {
	email EmailSender
	sms   SMSSender
	logg  *logger.Logger
}

func NewNotificationService(email EmailSender, sms SMSSender, logg *logger.Logger) NotificationService {
	return &notificationService{email: email, sms: sms, logg: logg}
}

// NewNotificationServiceFromSettings wires the SMTP sender and the SMS stub from the
// in-memory settings.
func NewNotificationServiceFromSettings(settings config.NotificationSettings, logg *logger.Logger) NotificationService {
	return NewNotificationService(NewSMTPSender(settings.SMTP), NewSMSStub(settings.SMS, logg), logg)
}

// NotifyOrderReady attempts both channels independently. Failures are collected in the
// report and never returned as an error: the order is ready whether or not anyone was told.
func (s *notificationService) NotifyOrderReady(ctx context.Context, order *models.Order) *models.NotificationReport {
	ctx = s.logg.WithField(ctx, "order_id", order.ID)
	report := &models.NotificationReport{}

	subject, body, err := renderOrderReadyEmail(order)
	if err == nil {
		err = s.email.Send(ctx, order.CustomerEmail, subject, body)
	}
	report.Outcomes = append(report.Outcomes, s.outcome(ctx, models.NotificationTypeEmail, err, errEmailNotConfigured, &report.Err))

	if order.CustomerPhone == "" {
		report.Outcomes = append(report.Outcomes, models.NotificationOutcome{
			Type:   models.NotificationTypeSMS,
			Status: models.DeliverySkipped,
			Detail: "no phone number on order",
		})
	} else {
		err = s.sms.Send(ctx, order.CustomerPhone, orderReadySMS(order))
		report.Outcomes = append(report.Outcomes, s.outcome(ctx, models.NotificationTypeSMS, err, errSMSDisabled, &report.Err))
	}
	return report
}

func (s *notificationService) outcome(ctx context.Context, channel models.NotificationType, err, skipErr error, combined *error) models.NotificationOutcome {
	ctx = s.logg.WithField(ctx, "channel", string(channel))
	switch {
	case err == nil:
		s.logg.Info(ctx, "notification sent")
		return models.NotificationOutcome{Type: channel, Status: models.DeliverySent}
	case errors.Is(err, skipErr):
		s.logg.Info(ctx, "notification skipped: "+err.Error())
		return models.NotificationOutcome{Type: channel, Status: models.DeliverySkipped, Detail: err.Error()}
	default:
		s.logg.Error(ctx, "notification failed", err)
		*combined = multierr.Append(*combined, fmt.Errorf("%s: %w", channel, err))
		return models.NotificationOutcome{Type: channel, Status: models.DeliveryFailed, Detail: err.Error()}
	}
}

var orderReadyTemplate = template.Must(template.New("order_ready").Parse(`<html>
<body>
    <h2>Your Order is Ready!</h2>
    <p>Dear {{.CustomerName}},</p>
    <p>Great news! Your order is now ready for pickup.</p>
    <h3>Order Details:</h3>
    <ul>
        <li><strong>Order ID:</strong> #{{.ID}}</li>
        <li><strong>Item:</strong> {{.ItemDescription}}</li>
        <li><strong>Quantity:</strong> {{.Quantity}}</li>
        <li><strong>Total Price:</strong> ${{.TotalPrice.StringFixed 2}}</li>
        <li><strong>Status:</strong> {{.Status}}</li>
    </ul>
    <p>Please come pick up your order at your earliest convenience.</p>
    <p>Thank you for your business!</p>
</body>
</html>
`))

func renderOrderReadyEmail(order *models.Order) (string, string, error) {
	var body bytes.Buffer
	if err := orderReadyTemplate.Execute(&body, order); err != nil {
		return "", "", fmt.Errorf("render order ready email: %w", err)
	}
	return fmt.Sprintf("Order #%d is Ready for Pickup", order.ID), body.String(), nil
}

func orderReadySMS(order *models.Order) string {
	return fmt.Sprintf("Your order #%d is ready for pickup! Item: %s, Total: $%s",
		order.ID, order.ItemDescription, order.TotalPrice.StringFixed(2))
}

type smtpSender struct {
	settings config.SMTPSettings
}

// NewSMTPSender sends through an authenticated SMTP submission server with STARTTLS,
// or implicit TLS on port 465.
func NewSMTPSender(settings config.SMTPSettings) EmailSender {
	return &smtpSender{settings: settings}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !s.settings.Configured() {
		return errEmailNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.From(s.settings.Sender()); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(s.settings.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.settings.Username),
		mail.WithPassword(s.settings.Password),
		mail.WithTimeout(30 * time.Second),
	}
	if s.settings.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(s.settings.Server, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

type smsStub struct {
	settings config.SMSSettings
	logg     *logger.Logger
}

// NewSMSStub logs messages instead of calling a gateway. It still enforces the
// settings a real gateway would need.
func NewSMSStub(settings config.SMSSettings, logg *logger.Logger) SMSSender {
	return &smsStub{settings: settings, logg: logg}
}

func (s *smsStub) Send(ctx context.Context, to, message string) error {
	if !s.settings.Enabled {
		return errSMSDisabled
	}
	if s.settings.APIKey == "" {
		return errors.New("sms api key not configured")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"to": to, "message": message}), "sms stub send")
	return nil
}
