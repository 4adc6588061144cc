package mailer

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/pethood-np/pethood-api/config"
	"github.com/pethood-np/pethood-api/models"
)

// ErrNotConfigured is returned when no SMTP host is set. Callers treat every
// send as best-effort and downgrade failures to a warning.
var ErrNotConfigured = errors.New("smtp is not configured")

type Mailer struct {
	cfg     config.SMTP
	baseURL string
}

func New(cfg config.SMTP, baseURL string) *Mailer {
	return &Mailer{cfg: cfg, baseURL: baseURL}
}

func (m *Mailer) send(to []string, subject, text, html string) error {
	if m.cfg.Host == "" {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	if html != "" {
		msg.AddAlternative("text/html", html)
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}

// SendVerification mails the account-activation link issued at signup.
func (m *Mailer) SendVerification(user *models.User, token string) error {
	link := fmt.Sprintf("%s/auth/verify?token=%s", m.baseURL, token)
	text := fmt.Sprintf(`Hi %s,

Welcome to Pethood! Please verify your email address to activate your account:

%s

The link expires in 48 hours.

Best regards,
The Pethood Team
`, user.Username, link)

	return m.send([]string{user.Email}, "Verify your Pethood account", text, "")
}

// SendOrderConfirmation mails the order summary after a successful checkout.
func (m *Mailer) SendOrderConfirmation(order *models.Order) error {
	var lines string
	var htmlRows string
	for _, item := range order.Items {
		lines += fmt.Sprintf("- %s x%d @ %s\n", item.Product.Name, item.Quantity, item.Price.StringFixed(2))
		htmlRows += fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			item.Product.Name, item.Quantity, item.Price.StringFixed(2))
	}

	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	text := fmt.Sprintf(`Dear %s,

Thank you for your order!

Order number: %s
Payment method: %s

Items:
%s
Shipping: %s
Total: %s

You can view your order in your profile on Pethood.

Best regards,
The Pethood Team
`, order.FullName, order.OrderNumber, order.PaymentMethod, lines,
		order.ShippingCost.StringFixed(2), order.TotalAmount.StringFixed(2))

	html := fmt.Sprintf(`<p>Dear %s,</p>
<p>Thank you for your order <strong>%s</strong>!</p>
<table border="1" cellpadding="4"><tr><th>Item</th><th>Qty</th><th>Price</th></tr>%s</table>
<p>Shipping: %s<br>Total: <strong>%s</strong></p>
<p>Best regards,<br>The Pethood Team</p>`,
		order.FullName, order.OrderNumber, htmlRows,
		order.ShippingCost.StringFixed(2), order.TotalAmount.StringFixed(2))

	return m.send([]string{order.Email}, subject, text, html)
}

// SendOrderStatusUpdate notifies the customer of an admin status change.
func (m *Mailer) SendOrderStatusUpdate(order *models.Order, oldStatus, newStatus models.OrderStatus) error {
	subject := fmt.Sprintf("Order %s - Status Update", order.OrderNumber)
	text := fmt.Sprintf(`Dear %s,

Your order %s status has been updated:

Previous Status: %s
New Status: %s

You can view your order details in your profile on Pethood.

Best regards,
The Pethood Team
`, order.FullName, order.OrderNumber, oldStatus, newStatus)

	return m.send([]string{order.Email}, subject, text, "")
}

// SendNewListingToAdmins notifies staff of a freshly submitted dog listing.
func (m *Mailer) SendNewListingToAdmins(dog *models.Dog, adminEmails []string) error {
	if len(adminEmails) == 0 {
		return nil
	}
	subject := fmt.Sprintf("New Dog Listing: %s", dog.Name)
	text := fmt.Sprintf(`New dog listing submitted for approval:

- Name: %s
- Breed: %s
- Age: %d months
- Location: %s
- Price: %s
- Listed by: %s

Review it in the Pethood dashboard.

Pethood
`, dog.Name, dog.Breed, dog.AgeMonths, dog.Location, dog.Price.StringFixed(2), dog.Lister.Username)

	return m.send(adminEmails, subject, text, "")
}

// SendListingApproved tells the lister their dog is live, with an optional
// note from the reviewing admin.
func (m *Mailer) SendListingApproved(dog *models.Dog, adminMessage string) error {
	note := ""
	htmlNote := ""
	if adminMessage != "" {
		note = fmt.Sprintf("\nMessage from our team:\n%s\n", adminMessage)
		htmlNote = fmt.Sprintf("<p><em>Message from our team:</em><br>%s</p>", adminMessage)
	}

	subject := fmt.Sprintf("Your listing for %s is approved!", dog.Name)
	text := fmt.Sprintf(`Hi %s,

Good news! Your dog listing has been approved and is now live.

- Dog: %s
- View at: %s/dogs/%s
%s
Best regards,
The Pethood Team
`, dog.Lister.Username, dog.Name, m.baseURL, dog.Slug, note)

	html := fmt.Sprintf(`<p>Hi %s,</p>
<p>Good news! Your listing for <strong>%s</strong> has been approved and is now live.</p>
<p><a href="%s/dogs/%s">View the listing</a></p>
%s<p>Best regards,<br>The Pethood Team</p>`,
		dog.Lister.Username, dog.Name, m.baseURL, dog.Slug, htmlNote)

	return m.send([]string{dog.Lister.Email}, subject, text, html)
}

// SendListingRejected tells the lister why their submission was turned down.
func (m *Mailer) SendListingRejected(dog *models.Dog, reason string) error {
	subject := fmt.Sprintf("Your Dog Listing %q - Action Required", dog.Name)
	text := fmt.Sprintf(`Dear %s,

Thank you for submitting your dog listing for %q on Pethood.

Unfortunately, we cannot approve your listing at this time for the following reason:

%s

If you have any questions or would like to resubmit with corrections, please feel free to contact us or submit a new listing.

Best regards,
The Pethood Team
`, dog.Lister.Username, dog.Name, reason)

	return m.send([]string{dog.Lister.Email}, subject, text, "")
}

// SendListingAdopted congratulates the lister after the adopted flag is set.
func (m *Mailer) SendListingAdopted(dog *models.Dog) error {
	subject := fmt.Sprintf("Your Dog %q has been Marked as Adopted!", dog.Name)
	text := fmt.Sprintf(`Dear %s,

Congratulations! Your dog listing for %q has been marked as adopted on Pethood.

We're thrilled that %s has found a loving home!

Best regards,
The Pethood Team
`, dog.Lister.Username, dog.Name, dog.Name)

	return m.send([]string{dog.Lister.Email}, subject, text, "")
}
