// internal/service/email/notifier.go
package email

import (
	"context"
	"fmt"
	"html"
	"sync"

	"dealdesk-service/internal/domain/merchant"

	"go.uber.org/zap"
)

type MailSender interface {
	Send(to, subject, bodyHTML string) error
}

// MerchantNotifier mails merchants when their account status changes.
// Mail is sent in the background; Wait blocks until pending mail is done.
type MerchantNotifier struct {
	sender MailSender
	logger *zap.Logger

	mu      sync.Mutex
	pending int
	idle    chan struct{} // closed when pending drops to zero
}

func NewMerchantNotifier(sender MailSender, logger *zap.Logger) *MerchantNotifier {
	return &MerchantNotifier{sender: sender, logger: logger}
}

// NotifyStatusChange sends the notice for m's current status, if it has one.
func (n *MerchantNotifier) NotifyStatusChange(ctx context.Context, m *merchant.Merchant) {
	subject, body, ok := StatusEmail(m)
	if !ok {
		return
	}

	to, status := m.Email, string(m.Status)
	n.begin()
	go func() {
		defer n.end()
		if err := n.sender.Send(to, subject, body); err != nil {
			n.logger.Error("failed to send status email",
				zap.String("email", to),
				zap.String("status", status),
				zap.Error(err),
			)
			return
		}
		n.logger.Info("status email sent", zap.String("email", to), zap.String("status", status))
	}()
}

func (n *MerchantNotifier) begin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == 0 {
		n.idle = make(chan struct{})
	}
	n.pending++
}

func (n *MerchantNotifier) end() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending--
	if n.pending == 0 {
		close(n.idle)
	}
}

// Wait blocks until all pending mail has been attempted or ctx is done.
func (n *MerchantNotifier) Wait(ctx context.Context) error {
	n.mu.Lock()
	if n.pending == 0 {
		n.mu.Unlock()
		return nil
	}
	idle := n.idle
	n.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StatusEmail builds the subject and body for m's status. ok is false for
// statuses that send no mail.
func StatusEmail(m *merchant.Merchant) (subject, body string, ok bool) {
	name := m.Email
	if m.BusinessName.Valid && m.BusinessName.String != "" {
		name = m.BusinessName.String
	}
	name = html.EscapeString(name)

	switch m.Status {
	case merchant.StatusPendingReview:
		return "Your DealDesk application is under review",
			fmt.Sprintf(`<p>Hello %s,</p>
<p>Thanks for completing your business profile. Our team is reviewing your account
and you will hear from us once it is approved.</p>`, name), true
	case merchant.StatusActive:
		return "Your DealDesk account is approved",
			fmt.Sprintf(`<p>Hello %s,</p>
<p>Your account has been approved. You can now publish deals to customers.</p>`, name), true
	case merchant.StatusSuspended:
		return "Your DealDesk account has been suspended",
			fmt.Sprintf(`<p>Hello %s,</p>
<p>Your account has been suspended and your deals can no longer be published.
Contact support if you believe this is a mistake.</p>`, name), true
	}
	return "", "", false
}
