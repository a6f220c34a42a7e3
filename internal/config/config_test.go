package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MpesaBaseURL != "https://sandbox.safaricom.co.ke" {
		t.Errorf("MpesaBaseURL = %q", cfg.MpesaBaseURL)
	}
	if cfg.MpesaShortcode != "174379" {
		t.Errorf("MpesaShortcode = %q", cfg.MpesaShortcode)
	}
	if cfg.PremiumAmount != 1500 {
		t.Errorf("PremiumAmount = %d, want 1500", cfg.PremiumAmount)
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Error("AllowedOrigins should never be empty")
	}
	if cfg.USSDEmergencyPhone == "" || cfg.USSDHelplinePhone == "" {
		t.Error("USSD operational numbers must have defaults")
	}
}

func TestUSSDPhonesFromEnv(t *testing.T) {
	t.Setenv("USSD_EMERGENCY_PHONE", "+254722000111")
	t.Setenv("USSD_HELPLINE_PHONE", "+254800999888")
	cfg := Load()
	if cfg.USSDEmergencyPhone != "+254722000111" {
		t.Errorf("USSDEmergencyPhone = %q", cfg.USSDEmergencyPhone)
	}
	if cfg.USSDHelplinePhone != "+254800999888" {
		t.Errorf("USSDHelplinePhone = %q", cfg.USSDHelplinePhone)
	}
}

func TestCallbackURL(t *testing.T) {
	cfg := &Config{Host: "https://api.chiromo.co.ke/"}
	if got := cfg.CallbackURL(); got != "https://api.chiromo.co.ke/api/payments/callback" {
		t.Errorf("CallbackURL = %q", got)
	}
}

func TestAllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://chiromo.co.ke, https://app.chiromo.co.ke ,")
	cfg := Load()
	want := []string{"https://chiromo.co.ke", "https://app.chiromo.co.ke"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestIsProduction(t *testing.T) {
	if (&Config{Environment: "development"}).IsProduction() {
		t.Error("development should not be production")
	}
	if !(&Config{Environment: " Production "}).IsProduction() {
		t.Error("Production (any case, padded) should be production")
	}
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("PREMIUM_AMOUNT", "not-a-number")
	if cfg := Load(); cfg.PremiumAmount != 1500 {
		t.Errorf("PremiumAmount = %d, want default 1500", cfg.PremiumAmount)
	}
}

func TestGetEnvIntHonorsExplicitZero(t *testing.T) {
	t.Setenv("PREMIUM_AMOUNT", "0")
	if cfg := Load(); cfg.PremiumAmount != 0 {
		t.Errorf("PremiumAmount = %d, want explicit 0 honored", cfg.PremiumAmount)
	}
}
