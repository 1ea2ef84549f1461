// Package notify delivers order-placed notifications over SMS and email.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/auroramart/storefront/internal/models"
)

type Notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order, customer *models.Customer) error
}

type Config struct {
	SMSAPIKey   string
	SMSUsername string
	SMSEndpoint string
	SMSTo       string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string
	OrdersEmail  string
}

// OrderNotifier sends an SMS through the Africa's Talking gateway and an
// email to the back office. Channels without configuration are skipped.
type OrderNotifier struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

func NewOrderNotifier(cfg Config, logger *zap.Logger) *OrderNotifier {
	return &OrderNotifier{cfg: cfg, client: &http.Client{}, logger: logger}
}

func (n *OrderNotifier) OrderPlaced(ctx context.Context, order *models.Order, customer *models.Customer) error {
	message := fmt.Sprintf("Your order #%d has been placed! Total: %s", order.ID, order.TotalAmount.StringFixed(2))

	if n.cfg.SMSAPIKey != "" && n.cfg.SMSTo != "" {
		if err := n.sendSMS(ctx, n.cfg.SMSTo, message); err != nil {
			return err
		}
	}
	if n.cfg.SMTPHost != "" && n.cfg.OrdersEmail != "" {
		if err := n.sendOrderEmail(order, customer); err != nil {
			return err
		}
	}
	return nil
}

func (n *OrderNotifier) sendSMS(ctx context.Context, phone, message string) error {
	data := url.Values{}
	data.Set("username", n.cfg.SMSUsername)
	data.Set("to", phone)
	data.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.SMSEndpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("apiKey", n.cfg.SMSAPIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	n.logger.Debug("sms gateway response", zap.ByteString("body", body))
	return nil
}

func (n *OrderNotifier) sendOrderEmail(order *models.Order, customer *models.Customer) error {
	body := fmt.Sprintf("Order #%d placed by customer %d\nItems: %d\nTotal: %s",
		order.ID, customer.ID, len(order.Items), order.TotalAmount.StringFixed(2))
	msg := "From: " + n.cfg.SMTPFrom + "\n" +
		"To: " + n.cfg.OrdersEmail + "\n" +
		"Subject: New Order Placed\n\n" + body
	auth := smtp.PlainAuth("", n.cfg.SMTPFrom, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	return smtp.SendMail(n.cfg.SMTPHost+":"+n.cfg.SMTPPort, auth, n.cfg.SMTPFrom, []string{n.cfg.OrdersEmail}, []byte(msg))
}
