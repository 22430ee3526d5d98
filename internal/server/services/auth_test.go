package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/server/auth"
	"github.com/bookdelivery/backend/internal/server/models"
)

func newAuthService(t *testing.T, rm *fakeRepoManager) (*AuthService, func()) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	// Register wraps the exists check and insert in a transaction
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectRollback()

	cfg := testConfig()
	rts := NewRefreshTokenService(db, rm, cfg)
	return NewAuthService(db, rm, rts, testLogger(), cfg), func() { _ = db.Close() }
}

// --- Register ---

func TestRegister_NewEmail_Success(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{exists: false}}
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	err := s.Register(context.Background(), SignupRequest{
		Email:    "a@x.com",
		Username: "customer_1",
		FullName: "customer_fullname",
		Password: "customer_password",
		Role:     models.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if len(rm.u.created) != 1 {
		t.Fatalf("expected 1 created user, got %d", len(rm.u.created))
	}
	stored := rm.u.created[0]
	if stored.Role != models.RoleCustomer {
		t.Fatalf("stored role mismatch: %q", stored.Role)
	}
	if stored.PasswordHash == "customer_password" {
		t.Fatalf("password must be hashed before storage")
	}
	if !auth.CheckPassword(stored.PasswordHash, "customer_password") {
		t.Fatalf("stored hash must verify against the original password")
	}
}

func TestRegister_RoleDefaultsToCustomer(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	err := s.Register(context.Background(), SignupRequest{
		Email:    "b@x.com",
		Username: "customer_2",
		FullName: "customer_fullname",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if rm.u.created[0].Role != models.RoleCustomer {
		t.Fatalf("expected default role CUSTOMER, got %q", rm.u.created[0].Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{exists: true}}
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	err := s.Register(context.Background(), SignupRequest{
		Email:    "a@x.com",
		Username: "customer_1",
		Password: "pw",
	})
	if !errors.Is(err, common.ErrEmailAlreadyExists) {
		t.Fatalf("expected common.ErrEmailAlreadyExists, got %v", err)
	}
	if len(rm.u.created) != 0 {
		t.Fatalf("no user may be persisted on duplicate email")
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	err := s.Register(context.Background(), SignupRequest{Email: "not-an-email", Password: "pw"})
	if !errors.Is(err, common.ErrInvalidEmail) {
		t.Fatalf("expected common.ErrInvalidEmail, got %v", err)
	}
}

// --- Login ---

func loginFixture(t *testing.T) *fakeRepoManager {
	t.Helper()
	hash, err := auth.HashPassword("customer_password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	user := &models.User{
		ID:           1,
		Email:        "customer@bookdelivery.com",
		Username:     "customer_1",
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}
	return &fakeRepoManager{
		u: &fakeUsersRepo{
			byEmail: map[string]*models.User{user.Email: user},
			byID:    map[int64]*models.User{user.ID: user},
		},
		r: &fakeRefreshRepo{},
	}
}

func TestLogin_Success(t *testing.T) {
	rm := loginFixture(t)
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	resp, err := s.Login(context.Background(), LoginRequest{
		Email:    "customer@bookdelivery.com",
		Password: "customer_password",
	})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if resp.Email != "customer@bookdelivery.com" {
		t.Fatalf("email mismatch: %q", resp.Email)
	}
	if resp.Token == "" || resp.RefreshToken == "" {
		t.Fatalf("expected non-empty token pair, got %+v", resp)
	}
	if !auth.ValidateToken(resp.Token, []byte("k")) {
		t.Fatalf("returned access token must validate immediately")
	}
	if rm.r.createdToken != resp.RefreshToken || rm.r.createdUserID != 1 {
		t.Fatalf("refresh token must be persisted for the user")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	rm := loginFixture(t)
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	_, err := s.Login(context.Background(), LoginRequest{
		Email:    "customer@bookdelivery.com",
		Password: "wrong",
	})
	if !errors.Is(err, common.ErrAuthenticationFailed) {
		t.Fatalf("expected common.ErrAuthenticationFailed, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	rm := loginFixture(t)
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	_, err := s.Login(context.Background(), LoginRequest{
		Email:    "nobody@bookdelivery.com",
		Password: "customer_password",
	})
	if !errors.Is(err, common.ErrAuthenticationFailed) {
		t.Fatalf("expected common.ErrAuthenticationFailed, got %v", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	rm := loginFixture(t)
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	_, err := s.Login(context.Background(), LoginRequest{Email: "", Password: ""})
	if !errors.Is(err, common.ErrAuthenticationFailed) {
		t.Fatalf("expected common.ErrAuthenticationFailed, got %v", err)
	}
}

// --- RefreshToken ---

func TestRefreshToken_Success_KeepsSameRefreshToken(t *testing.T) {
	rm := loginFixture(t)
	rm.r.findOut = &models.RefreshToken{
		UserID:  1,
		Token:   "validRefreshToken",
		Expires: time.Now().Add(10 * time.Minute),
	}
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	resp, err := s.RefreshToken(context.Background(), TokenRefreshRequest{RefreshToken: "validRefreshToken"})
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if resp == nil {
		t.Fatalf("expected a response for an unexpired refresh token")
	}
	if resp.RefreshToken != "validRefreshToken" {
		t.Fatalf("refresh token must not rotate, got %q", resp.RefreshToken)
	}
	if !auth.ValidateToken(resp.AccessToken, []byte("k")) {
		t.Fatalf("new access token must validate")
	}
}

func TestRefreshToken_Expired_ReturnsNilWithoutError(t *testing.T) {
	rm := loginFixture(t)
	rm.r.findOut = &models.RefreshToken{
		UserID:  1,
		Token:   "staleRefreshToken",
		Expires: time.Now().Add(-1 * time.Second),
	}
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	resp, err := s.RefreshToken(context.Background(), TokenRefreshRequest{RefreshToken: "staleRefreshToken"})
	if err != nil {
		t.Fatalf("expired refresh must not be an error, got %v", err)
	}
	if resp != nil {
		t.Fatalf("expired refresh must yield a nil response, got %+v", resp)
	}
}

func TestRefreshToken_Unknown(t *testing.T) {
	rm := loginFixture(t)
	rm.r.findErr = common.ErrorNotFound
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	_, err := s.RefreshToken(context.Background(), TokenRefreshRequest{RefreshToken: "missing"})
	if !errors.Is(err, common.ErrRefreshTokenNotFound) {
		t.Fatalf("expected common.ErrRefreshTokenNotFound, got %v", err)
	}
}

// --- Logout ---

func TestLogout_Success(t *testing.T) {
	rm := loginFixture(t)
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	tok, err := auth.GenerateToken(&models.User{ID: 1, Email: "customer@bookdelivery.com", Role: models.RoleCustomer},
		[]byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	result := s.Logout(context.Background(), auth.BearerPrefix+tok)
	if result != LogoutSuccess {
		t.Fatalf("expected %q, got %q", LogoutSuccess, result)
	}
	if len(rm.r.deletedUserIDs) != 1 || rm.r.deletedUserIDs[0] != 1 {
		t.Fatalf("expected refresh tokens of user 1 deleted, got %v", rm.r.deletedUserIDs)
	}
}

func TestLogout_MalformedHeader(t *testing.T) {
	rm := loginFixture(t)
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	for _, header := range []string{"", "Token abc", "bearer abc", "Bearer "} {
		if got := s.Logout(context.Background(), header); got != LogoutFailed {
			t.Fatalf("header %q: expected %q, got %q", header, LogoutFailed, got)
		}
	}
	if len(rm.r.deletedUserIDs) != 0 {
		t.Fatalf("no tokens may be deleted for malformed headers")
	}
}

func TestLogout_InvalidToken(t *testing.T) {
	rm := loginFixture(t)
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	if got := s.Logout(context.Background(), "Bearer invalidAuthToken"); got != LogoutFailed {
		t.Fatalf("expected %q, got %q", LogoutFailed, got)
	}
	if len(rm.r.deletedUserIDs) != 0 {
		t.Fatalf("deleteByUserID must never be invoked for invalid tokens")
	}
}

func TestLogout_ExpiredToken(t *testing.T) {
	rm := loginFixture(t)
	s, closeDB := newAuthService(t, rm)
	defer closeDB()

	tok, err := auth.GenerateToken(&models.User{ID: 1, Email: "customer@bookdelivery.com", Role: models.RoleCustomer},
		[]byte("k"), -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if got := s.Logout(context.Background(), auth.BearerPrefix+tok); got != LogoutFailed {
		t.Fatalf("expected %q for expired token, got %q", LogoutFailed, got)
	}
}
