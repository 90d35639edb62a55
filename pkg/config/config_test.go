package config

import (
	"net/netip"
	"testing"
	"time"
)

func TestGetDurationAcceptsDays(t *testing.T) {
	t.Setenv("SESSION_TTL", "7d")
	if got := GetDuration("SESSION_TTL", time.Hour); got != 7*24*time.Hour {
		t.Fatalf("expected 7 days, got %s", got)
	}
	t.Setenv("SESSION_TTL", "90m")
	if got := GetDuration("SESSION_TTL", time.Hour); got != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", got)
	}
	t.Setenv("SESSION_TTL", "soon")
	if got := GetDuration("SESSION_TTL", time.Hour); got != time.Hour {
		t.Fatalf("expected fallback, got %s", got)
	}
}

func TestGetListTrimsEntries(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	got := GetList("CORS_ALLOWED_ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected list: %v", got)
	}
}

func TestLoadAPIConfigDefaults(t *testing.T) {
	cfg := LoadAPIConfig()
	if cfg.SessionTTL != DefaultSessionTTL {
		t.Fatalf("expected 30 day session, got %s", cfg.SessionTTL)
	}
	token := cfg.Token()
	if token.TTL != cfg.SessionTTL || token.Secret != cfg.JWTSecret || token.Issuer != cfg.JWTIssuer {
		t.Fatalf("token config does not mirror api config: %+v", token)
	}
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", DefaultJWTSecret)
	if err := LoadAPIConfig().Validate(); err == nil {
		t.Fatal("expected default secret to be rejected in production")
	}

	t.Setenv("JWT_SECRET", "a-real-secret")
	if err := LoadAPIConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	if err := LoadAPIConfig().Validate(); err == nil {
		t.Fatal("expected unknown store driver to be rejected")
	}
}

func TestParsePrefixes(t *testing.T) {
	got, err := ParsePrefixes([]string{"10.0.0.0/8", "192.0.2.10", "2001:db8::/32"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 3 || got[1].Bits() != 32 || !got[0].Contains(netip.MustParseAddr("10.1.2.3")) {
		t.Fatalf("unexpected prefixes: %v", got)
	}
	if _, err := ParsePrefixes([]string{"not-an-ip"}); err == nil {
		t.Fatal("expected invalid entry to fail")
	}
}

func TestValidateRejectsBadTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,proxy.internal")
	if err := LoadAPIConfig().Validate(); err == nil {
		t.Fatal("expected invalid proxy entry to be rejected")
	}
}
