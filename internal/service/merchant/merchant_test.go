package merchant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"dealdesk-service/internal/domain/merchant"
	xerrors "dealdesk-service/internal/pkg/errors"
	"dealdesk-service/internal/pkg/jwt"
	"dealdesk-service/internal/pkg/session"

	"go.uber.org/zap"
)

type fakeRepo struct {
	nextID    int64
	merchants map[int64]*merchant.Merchant
	logins    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{merchants: map[int64]*merchant.Merchant{}}
}

func (r *fakeRepo) Create(_ context.Context, m *merchant.Merchant) error {
	for _, existing := range r.merchants {
		if existing.Email == m.Email {
			return xerrors.ErrDuplicateEntry
		}
	}
	r.nextID++
	m.ID = r.nextID
	c := *m
	r.merchants[m.ID] = &c
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*merchant.Merchant, error) {
	m, ok := r.merchants[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*merchant.Merchant, error) {
	for _, m := range r.merchants {
		if strings.EqualFold(m.Email, email) {
			c := *m
			return &c, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeRepo) UpdateProfile(_ context.Context, m *merchant.Merchant) error {
	if _, ok := r.merchants[m.ID]; !ok {
		return xerrors.ErrNotFound
	}
	c := *m
	r.merchants[m.ID] = &c
	return nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status merchant.Status) error {
	m, ok := r.merchants[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeRepo) UpdateLastLogin(context.Context, int64) error {
	r.logins++
	return nil
}

func (r *fakeRepo) List(_ context.Context, f *merchant.MerchantListFilters) ([]merchant.Merchant, int64, error) {
	out := []merchant.Merchant{}
	for _, m := range r.merchants {
		if m.Role != merchant.RoleMerchant {
			continue
		}
		if f.Status != nil && m.Status != *f.Status {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

type fakeIssuer struct{ n int }

func (i *fakeIssuer) Generate(merchantID int64, role string) (*jwt.Token, error) {
	i.n++
	return &jwt.Token{
		Value:     fmt.Sprintf("token-%d-%s", merchantID, role),
		JTI:       fmt.Sprintf("jti-%d", i.n),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (i *fakeIssuer) TTL() time.Duration { return time.Hour }

type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (*jwt.Claims, error) {
	var id int64
	var role string
	if _, err := fmt.Sscanf(strings.ReplaceAll(token, "-", " "), "token %d %s", &id, &role); err != nil {
		return nil, errors.New("bad token")
	}
	c := &jwt.Claims{MerchantID: id, Role: role}
	c.ID = "jti-1"
	return c, nil
}

type fakeSessions struct {
	data map[string]*session.SessionData
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{data: map[string]*session.SessionData{}}
}

func sessionKey(id int64, jti string) string { return fmt.Sprintf("%d:%s", id, jti) }

func (s *fakeSessions) CreateSession(_ context.Context, d *session.SessionData) error {
	s.data[sessionKey(d.MerchantID, d.JTI)] = d
	return nil
}

func (s *fakeSessions) GetSession(_ context.Context, id int64, jti string) (*session.SessionData, error) {
	d, ok := s.data[sessionKey(id, jti)]
	if !ok {
		return nil, xerrors.ErrSessionExpired
	}
	return d, nil
}

func (s *fakeSessions) InvalidateSession(_ context.Context, id int64, jti string) error {
	delete(s.data, sessionKey(id, jti))
	return nil
}

func (s *fakeSessions) InvalidateAll(_ context.Context, id int64) error {
	for k, d := range s.data {
		if d.MerchantID == id {
			delete(s.data, k)
		}
	}
	return nil
}

type fakeLimiter struct {
	max      int64
	attempts map[string]int64
}

func (l *fakeLimiter) CheckLoginAttempt(_ context.Context, ip, email string) (bool, int64, error) {
	l.attempts[ip+email]++
	n := l.attempts[ip+email]
	remaining := l.max - n
	if remaining < 0 {
		remaining = 0
	}
	return n <= l.max, remaining, nil
}

func (l *fakeLimiter) ResetLoginAttempts(_ context.Context, ip, email string) error {
	delete(l.attempts, ip+email)
	return nil
}

type fakeNotifier struct {
	statuses []merchant.Status
}

func (n *fakeNotifier) NotifyStatusChange(_ context.Context, m *merchant.Merchant) {
	n.statuses = append(n.statuses, m.Status)
}

type fixture struct {
	svc      *MerchantService
	repo     *fakeRepo
	sessions *fakeSessions
	notifier *fakeNotifier
}

func newFixture() *fixture {
	repo := newFakeRepo()
	sessions := newFakeSessions()
	limiter := &fakeLimiter{max: 3, attempts: map[string]int64{}}
	notifier := &fakeNotifier{}
	svc := NewMerchantService(repo, &fakeIssuer{}, fakeVerifier{}, sessions, limiter, notifier, zap.NewNop())
	return &fixture{svc: svc, repo: repo, sessions: sessions, notifier: notifier}
}

func (f *fixture) register(t *testing.T, email string) *merchant.Merchant {
	t.Helper()
	m, err := f.svc.Register(context.Background(), &merchant.RegisterRequest{
		Email: email, Password: "correct-horse", BusinessName: " Corner Cafe ",
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return m
}

func lat(v float64) *float64 { return &v }

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	m := f.register(t, " Cafe@Example.com ")
	if m.Email != "cafe@example.com" || m.Status != merchant.StatusOnboarding || m.Role != merchant.RoleMerchant {
		t.Fatalf("merchant = %+v", m)
	}
	if m.BusinessName.String != "Corner Cafe" || m.PasswordHash == "correct-horse" {
		t.Fatalf("merchant = %+v", m)
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.svc.Register(ctx, &merchant.RegisterRequest{Email: "cafe@example.com", Password: "another-pass"})
		if !errors.Is(err, xerrors.ErrDuplicateEntry) {
			t.Fatalf("err = %v, want ErrDuplicateEntry", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, &merchant.LoginRequest{Email: "cafe@example.com", Password: "nope", IPAddress: "10.0.0.9"}, "")
		if !errors.Is(err, xerrors.ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.svc.Login(ctx, &merchant.LoginRequest{Email: "ghost@example.com", Password: "x", IPAddress: "10.0.0.9"}, "")
		if !errors.Is(err, xerrors.ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("success creates session", func(t *testing.T) {
		resp, err := f.svc.Login(ctx, &merchant.LoginRequest{Email: "CAFE@example.com", Password: "correct-horse", IPAddress: "10.0.0.1"}, "curl")
		if err != nil {
			t.Fatal(err)
		}
		if resp.TokenType != "Bearer" || resp.ExpiresIn != 3600 || resp.Merchant.ID != m.ID {
			t.Fatalf("response = %+v", resp)
		}
		if f.repo.logins != 1 || len(f.sessions.data) != 1 {
			t.Fatalf("logins=%d sessions=%d", f.repo.logins, len(f.sessions.data))
		}

		claims, err := f.svc.ValidateToken(ctx, resp.AccessToken)
		if err != nil {
			t.Fatal(err)
		}
		if claims.MerchantID != m.ID {
			t.Fatalf("claims = %+v", claims)
		}

		if err := f.svc.Logout(ctx, m.ID, claims.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.ValidateToken(ctx, resp.AccessToken); !errors.Is(err, xerrors.ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized after logout", err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		var err error
		for i := 0; i < 4; i++ {
			_, err = f.svc.Login(ctx, &merchant.LoginRequest{Email: "cafe@example.com", Password: "bad", IPAddress: "10.0.0.2"}, "")
		}
		if !errors.Is(err, xerrors.ErrRateLimited) {
			t.Fatalf("err = %v, want ErrRateLimited", err)
		}
	})
}

func TestOnboarding(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.register(t, "shop@example.com")

	t.Run("incomplete", func(t *testing.T) {
		_, err := f.svc.CompleteOnboarding(ctx, m.ID)
		if !errors.Is(err, xerrors.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
		if !strings.Contains(err.Error(), "business profile and location") {
			t.Fatalf("err = %v", err)
		}
	})

	if _, err := f.svc.UpdateBusinessProfile(ctx, m.ID, &merchant.BusinessProfileRequest{
		BusinessName: "Shop", Category: "Bakery", Phone: "  ",
	}); err != nil {
		t.Fatal(err)
	}
	got, _ := f.repo.FindByID(ctx, m.ID)
	if !got.HasProfile() || got.Phone.Valid {
		t.Fatalf("profile = %+v", got)
	}

	if _, err := f.svc.UpdateLocation(ctx, m.ID, &merchant.LocationRequest{
		Address: "1 Main St", City: "Nairobi", Latitude: lat(-1.29), Longitude: lat(36.82),
	}); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.EnsureCanPublish(ctx, m.ID); !errors.Is(err, xerrors.ErrForbidden) {
		t.Fatalf("EnsureCanPublish before review = %v, want ErrForbidden", err)
	}

	done, err := f.svc.CompleteOnboarding(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != merchant.StatusPendingReview {
		t.Fatalf("status = %s", done.Status)
	}

	if _, err := f.svc.CompleteOnboarding(ctx, m.ID); !errors.Is(err, xerrors.ErrConflict) {
		t.Fatalf("second completion err = %v, want ErrConflict", err)
	}
	if len(f.notifier.statuses) != 1 || f.notifier.statuses[0] != merchant.StatusPendingReview {
		t.Fatalf("notices = %v", f.notifier.statuses)
	}
}

func TestAdminReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if err := f.svc.EnsureAdminExists(ctx, "admin@example.com", "admin-pass"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.EnsureAdminExists(ctx, "admin@example.com", "admin-pass"); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	admin, err := f.repo.FindByEmail(ctx, "admin@example.com")
	if err != nil || admin.Role != merchant.RoleAdmin || admin.Status != merchant.StatusActive {
		t.Fatalf("admin = %+v, %v", admin, err)
	}

	m := f.register(t, "review@example.com")

	t.Run("cannot approve during onboarding", func(t *testing.T) {
		if _, err := f.svc.ApproveMerchant(ctx, admin.ID, m.ID); !errors.Is(err, xerrors.ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
	})

	f.repo.merchants[m.ID].Status = merchant.StatusPendingReview

	approved, err := f.svc.ApproveMerchant(ctx, admin.ID, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if approved.Status != merchant.StatusActive {
		t.Fatalf("status = %s", approved.Status)
	}
	if err := f.svc.EnsureCanPublish(ctx, m.ID); err != nil {
		t.Fatalf("EnsureCanPublish after approval: %v", err)
	}

	t.Run("suspend revokes sessions", func(t *testing.T) {
		if _, err := f.svc.Login(ctx, &merchant.LoginRequest{Email: "review@example.com", Password: "correct-horse"}, ""); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.SuspendMerchant(ctx, admin.ID, m.ID); err != nil {
			t.Fatal(err)
		}
		if len(f.sessions.data) != 0 {
			t.Fatalf("sessions left: %d", len(f.sessions.data))
		}
		_, err := f.svc.Login(ctx, &merchant.LoginRequest{Email: "review@example.com", Password: "correct-horse"}, "")
		if !errors.Is(err, xerrors.ErrForbidden) {
			t.Fatalf("login while suspended err = %v, want ErrForbidden", err)
		}
		if _, err := f.svc.SuspendMerchant(ctx, admin.ID, m.ID); !errors.Is(err, xerrors.ErrConflict) {
			t.Fatalf("double suspend err = %v, want ErrConflict", err)
		}
	})

	t.Run("admins are not reviewable", func(t *testing.T) {
		if _, err := f.svc.SuspendMerchant(ctx, admin.ID, admin.ID); !errors.Is(err, xerrors.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		resp, err := f.svc.ListMerchants(ctx, &merchant.MerchantListFilters{PageSize: 500})
		if err != nil {
			t.Fatal(err)
		}
		if resp.Total != 1 || resp.Page != 1 || resp.PageSize != 100 || resp.TotalPages != 1 {
			t.Fatalf("list = %+v", resp)
		}
	})

	want := []merchant.Status{merchant.StatusActive, merchant.StatusSuspended}
	if len(f.notifier.statuses) != len(want) || f.notifier.statuses[0] != want[0] || f.notifier.statuses[1] != want[1] {
		t.Fatalf("notices = %v, want %v", f.notifier.statuses, want)
	}
}
