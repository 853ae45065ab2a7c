// Package jobs holds the queued background work: order emails and other
// slow side effects that must not block a request.
package jobs

import (
	"fmt"

	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/mail"
	"github.com/binodghimire/agrihaat/pkg/queue"
)

// RegisterAll wires every job type into the queue registry. Call once
// at boot before workers start.
func RegisterAll() {
	queue.Register("*jobs.OrderPlacedMail", func() queue.Job { return &OrderPlacedMail{} })
	queue.Register("*jobs.OrderStatusMail", func() queue.Job { return &OrderStatusMail{} })
	queue.Register("*jobs.WelcomeMail", func() queue.Job { return &WelcomeMail{} })
}

// OrderPlacedMail tells a buyer their order went through, with the
// amount in rupees rendered from the stored paisa.
type OrderPlacedMail struct {
	OrderID    uint   `json:"order_id"`
	Email      string `json:"email"`
	BuyerName  string `json:"buyer_name"`
	Product    string `json:"product"`
	Quantity   int    `json:"quantity"`
	Unit       string `json:"unit"`
	TotalPaisa int64  `json:"total_paisa"`
}

func (j *OrderPlacedMail) Handle() error {
	if j.Email == "" {
		logger.Warn("order placed mail skipped, no address", "order_id", j.OrderID)
		return nil
	}
	body := fmt.Sprintf(
		"<p>Namaste %s,</p><p>Your order #%d for %d %s of %s is placed. Total: Rs. %d.%02d.</p>",
		j.BuyerName, j.OrderID, j.Quantity, j.Unit, j.Product,
		j.TotalPaisa/100, j.TotalPaisa%100,
	)
	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order #%d placed", j.OrderID)).
		Body(body).
		Send()
}

// OrderStatusMail goes out on every workflow move: confirmed, shipped,
// completed or cancelled.
type OrderStatusMail struct {
	OrderID   uint   `json:"order_id"`
	Email     string `json:"email"`
	BuyerName string `json:"buyer_name"`
	Product   string `json:"product"`
	Status    string `json:"status"`
}

func (j *OrderStatusMail) Handle() error {
	if j.Email == "" {
		return nil
	}
	body := fmt.Sprintf(
		"<p>Namaste %s,</p><p>Your order #%d (%s) is now <strong>%s</strong>.</p>",
		j.BuyerName, j.OrderID, j.Product, j.Status,
	)
	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order #%d %s", j.OrderID, j.Status)).
		Body(body).
		Send()
}

// WelcomeMail greets a fresh account.
type WelcomeMail struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (j *WelcomeMail) Handle() error {
	if j.Email == "" {
		return nil
	}
	body := fmt.Sprintf("<p>Namaste %s,</p><p>Your %s account on AgriHaat is ready.</p>", j.Name, j.Role)
	return mail.To(j.Email).Subject("Welcome to AgriHaat").Body(body).Send()
}
