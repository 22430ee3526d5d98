package auth

import (
	"testing"
	"time"

	"github.com/bookdelivery/backend/internal/server/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    42,
		Email: "customer@bookdelivery.com",
		Role:  models.RoleCustomer,
	}
}

func TestGenerateAndDecode_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	user := testUser()

	tok, err := GenerateToken(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if !ValidateToken(tok, secret) {
		t.Fatalf("freshly minted token must validate")
	}

	claims, err := GetClaimsFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetClaimsFromToken error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("user id mismatch: got %d want %d", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, user.Email)
	}
	if claims.Role != models.RoleCustomer {
		t.Fatalf("role mismatch: got %q", claims.Role)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(testUser(), secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if ValidateToken(tok, secret) {
		t.Fatalf("expired token must not validate")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(testUser(), []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if ValidateToken(tok, []byte("wrong-secret")) {
		t.Fatalf("token signed with another key must not validate")
	}
}

func TestValidateToken_MalformedInput(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "not.a.jwt", "garbage", "a.b"} {
		if ValidateToken(tok, []byte("k")) {
			t.Fatalf("malformed input %q must not validate", tok)
		}
	}
}

func TestGetUserIDFromToken(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := GenerateToken(testUser(), secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	id, err := GetUserIDFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetUserIDFromToken error: %v", err)
	}
	if id != 42 {
		t.Fatalf("user id mismatch: got %d want 42", id)
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer ", "", false},
		{"", "", false},
		{"bearer abc", "", false},
		{"Basic abc", "", false},
		{"Bearerabc", "", false},
	}

	for _, tc := range tests {
		got, ok := ExtractTokenFromHeader(tc.header)
		if ok != tc.ok || got != tc.token {
			t.Fatalf("ExtractTokenFromHeader(%q) = (%q, %v), want (%q, %v)",
				tc.header, got, ok, tc.token, tc.ok)
		}
	}
}
