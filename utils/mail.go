package utils

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

const (
	defaultLogoURL     = "https://www.amexan.store/images/logo.jpg"
	defaultMailTimeout = 10 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

var orderConfirmation = template.Must(template.ParseFS(templateFS, "templates/order_confirmation.html"))

type MailConfig struct {
	From     string
	Password string
	Host     string
	// Address is host:port of the SMTP server.
	Address string
	LogoURL string
	// Timeout bounds a whole SMTP exchange.
	Timeout time.Duration
}

func MailConfigFromEnv() MailConfig {
	logo := os.Getenv("LOGO_URL")
	if logo == "" {
		logo = defaultLogoURL
	}
	timeout, err := time.ParseDuration(os.Getenv("MAIL_TIMEOUT"))
	if err != nil || timeout <= 0 {
		timeout = defaultMailTimeout
	}
	return MailConfig{
		From:     os.Getenv("FROM_EMAIL"),
		Password: os.Getenv("FROM_EMAIL_PASSWORD"),
		Host:     os.Getenv("FROM_EMAIL_SMTP"),
		Address:  os.Getenv("SMTP_ADDRESS"),
		LogoURL:  logo,
		Timeout:  timeout,
	}
}

func (c MailConfig) Enabled() bool {
	return c.From != "" && c.Address != ""
}

type EmailLine struct {
	Name      string
	Quantity  int
	Price     string
	LineTotal string
}

type OrderEmailData struct {
	Name          string
	OrderID       string
	Status        string
	PaymentMethod string
	Total         string
	Lines         []EmailLine
	LogoURL       string
}

func RenderOrderConfirmation(data OrderEmailData) (string, error) {
	var body bytes.Buffer
	if err := orderConfirmation.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func (c MailConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultMailTimeout
	}
	return c.Timeout
}

type sendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// OrderMailer sends order confirmations over SMTP.
type OrderMailer struct {
	cfg  MailConfig
	send sendFunc
	log  *zap.Logger
}

func NewOrderMailer(cfg MailConfig, log *zap.Logger) *OrderMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderMailer{cfg: cfg, send: sendMail, log: log.Named("mail")}
}

// OrderPlaced mails the confirmation to the address carried by the
// credential. Users without one are skipped. The send gives up after the
// configured timeout.
func (m *OrderMailer) OrderPlaced(ctx context.Context, id identity.Identity, order models.Order, lines []models.CartLine) error {
	if id.Email == "" {
		m.log.Debug("no email on credential, skipping confirmation", zap.Stringer("order", order.ID))
		return nil
	}

	data := OrderEmailData{
		Name:          id.Email,
		OrderID:       order.ID.String(),
		Status:        order.OrderStatus,
		PaymentMethod: order.PaymentMethod,
		Total:         order.TotalAmount.StringFixed(2),
		LogoURL:       m.cfg.LogoURL,
	}
	for _, l := range lines {
		data.Lines = append(data.Lines, EmailLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price.StringFixed(2),
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}

	body, err := RenderOrderConfirmation(data)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, m.cfg.timeout())
	defer cancel()

	subject := fmt.Sprintf("Order #%s Confirmation", order.ID)
	if err := m.SendEmail(ctx, id.Email, subject, body); err != nil {
		return err
	}
	m.log.Info("order confirmation sent", zap.Stringer("order", order.ID))
	return nil
}

func (m *OrderMailer) SendEmail(ctx context.Context, emailTo, emailSubject, body string) error {
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		emailTo,
		emailSubject,
		body,
	)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	if err := m.send(ctx, m.cfg.Address, auth, m.cfg.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// sendMail is smtp.SendMail with the connection bound to ctx's deadline.
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return err
		}
	}

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
