package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

func newProvider() *JWTProvider {
	return NewJWTProvider(JWTConfig{Secret: "secret", Audience: "authenticated", Issuer: "bancas-api", TTL: time.Hour})
}

func TestJWTProvider_IssueVerify(t *testing.T) {
	p := newProvider()
	user := &domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleAdmin}

	token, exp, err := p.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected expiry in the future, got %v", exp)
	}

	id, err := p.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Subject != "u1" {
		t.Errorf("expected subject u1, got %q", id.Subject)
	}
	if id.TokenID == "" {
		t.Error("expected token id")
	}
	if !id.ExpiresAt.Equal(exp.Truncate(time.Second)) {
		t.Errorf("expected expiry %v, got %v", exp.Truncate(time.Second), id.ExpiresAt)
	}
}

func sign(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestJWTProvider_VerifyRejects(t *testing.T) {
	p := newProvider()
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))
	base := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    "bancas-api",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: future,
		}
	}

	wrongAud := base()
	wrongAud.Audience = jwt.ClaimStrings{"anon"}
	expired := base()
	expired.ExpiresAt = past
	noExp := base()
	noExp.ExpiresAt = nil
	noSub := base()
	noSub.Subject = ""
	wrongIss := base()
	wrongIss.Issuer = "someone-else"

	cases := map[string]string{
		"garbage":         "not-a-token",
		"wrong secret":    sign(t, "other", jwt.SigningMethodHS256, base()),
		"wrong algorithm": sign(t, "secret", jwt.SigningMethodHS512, base()),
		"wrong audience":  sign(t, "secret", jwt.SigningMethodHS256, wrongAud),
		"wrong issuer":    sign(t, "secret", jwt.SigningMethodHS256, wrongIss),
		"expired":         sign(t, "secret", jwt.SigningMethodHS256, expired),
		"no expiry":       sign(t, "secret", jwt.SigningMethodHS256, noExp),
		"no subject":      sign(t, "secret", jwt.SigningMethodHS256, noSub),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Verify(context.Background(), token); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestJWTProvider_TokenIDFallsBackToHash(t *testing.T) {
	p := newProvider()
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "bancas-api",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := sign(t, "secret", jwt.SigningMethodHS256, claims)

	a, err := p.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	b, _ := p.Verify(context.Background(), token)
	if a.TokenID == "" || a.TokenID != b.TokenID {
		t.Errorf("expected stable derived token id, got %q and %q", a.TokenID, b.TokenID)
	}
}
