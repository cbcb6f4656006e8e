package email

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"dealdesk-service/internal/domain/merchant"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSender) Send(to, subject, bodyHTML string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to+"|"+subject)
	return f.err
}

func TestStatusEmail(t *testing.T) {
	tests := []struct {
		status  merchant.Status
		ok      bool
		subject string
	}{
		{merchant.StatusOnboarding, false, ""},
		{merchant.StatusPendingReview, true, "under review"},
		{merchant.StatusActive, true, "approved"},
		{merchant.StatusSuspended, true, "suspended"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			m := &merchant.Merchant{Email: "owner@example.com", Status: tt.status}
			subject, _, ok := StatusEmail(m)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !strings.Contains(subject, tt.subject) {
				t.Errorf("subject = %q, want it to contain %q", subject, tt.subject)
			}
		})
	}
}

func TestStatusEmailEscapesBusinessName(t *testing.T) {
	m := &merchant.Merchant{
		Email:        "owner@example.com",
		Status:       merchant.StatusActive,
		BusinessName: sql.NullString{String: "<b>Joe's</b>", Valid: true},
	}
	_, body, _ := StatusEmail(m)
	if strings.Contains(body, "<b>Joe") {
		t.Errorf("business name not escaped: %s", body)
	}
	if !strings.Contains(body, "&lt;b&gt;Joe&#39;s&lt;/b&gt;") {
		t.Errorf("escaped name missing: %s", body)
	}
}

func TestMerchantNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := NewMerchantNotifier(sender, zap.NewNop())

	n.NotifyStatusChange(context.Background(), &merchant.Merchant{Email: "a@example.com", Status: merchant.StatusActive})
	n.NotifyStatusChange(context.Background(), &merchant.Merchant{Email: "b@example.com", Status: merchant.StatusOnboarding})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := n.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if len(sender.sent) != 1 || !strings.HasPrefix(sender.sent[0], "a@example.com|") {
		t.Errorf("sent = %v", sender.sent)
	}
}

func TestMerchantNotifierSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	n := NewMerchantNotifier(sender, zap.NewNop())

	n.NotifyStatusChange(context.Background(), &merchant.Merchant{Email: "a@example.com", Status: merchant.StatusSuspended})
	if err := n.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent = %v", sender.sent)
	}
}

// gatedSender blocks every Send until release is closed.
type gatedSender struct {
	release chan struct{}
}

func (g *gatedSender) Send(to, subject, bodyHTML string) error {
	<-g.release
	return nil
}

func TestMerchantNotifierWaitHonoursContext(t *testing.T) {
	sender := &gatedSender{release: make(chan struct{})}
	core, logs := observer.New(zap.InfoLevel)
	n := NewMerchantNotifier(sender, zap.New(core))

	m := &merchant.Merchant{Email: "a@example.com", Status: merchant.StatusActive}
	n.NotifyStatusChange(context.Background(), m)
	m.Status = merchant.StatusSuspended

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait = %v, want context.Canceled", err)
	}

	close(sender.release)
	if err := n.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if err := n.Wait(context.Background()); err != nil {
		t.Fatalf("Wait when idle: %v", err)
	}

	sent := logs.FilterMessage("status email sent").All()
	if len(sent) != 1 {
		t.Fatalf("logged %d sends, want 1", len(sent))
	}
	if got := sent[0].ContextMap()["status"]; got != string(merchant.StatusActive) {
		t.Errorf("logged status = %v, want %s", got, merchant.StatusActive)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("DealDesk <no-reply@example.com>", "a@example.com", "Hi", "<p>body</p>"))
	for _, want := range []string{
		"From: DealDesk <no-reply@example.com>\r\n",
		"To: a@example.com\r\n",
		"Subject: Hi\r\n",
		"Content-Type: text/html",
		"<p>body</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSenderEnabled(t *testing.T) {
	if NewSender(Config{}).Enabled() {
		t.Error("sender without host should be disabled")
	}
	if !NewSender(Config{Host: "smtp.example.com"}).Enabled() {
		t.Error("sender with host should be enabled")
	}
}
