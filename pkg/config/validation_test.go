package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Firebase = FirebaseConfig{
		ProjectID:   "evo-prod",
		PrivateKey:  "test-private-key",
		ClientEmail: "svc@evo-prod.iam.gserviceaccount.com",
		DatabaseURL: "https://evo-prod.firebaseio.com",
	}
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_DrawdownBounds(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		valid bool
	}{
		{"zero", 0, false},
		{"negative", -5, false},
		{"just above zero", 0.1, true},
		{"mid range", 50, true},
		{"upper bound", 100, true},
		{"above upper bound", 100.01, false},
		{"far above", 150, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Risk.MaxDrawdownPercent = tt.value
			err := cfg.Validate()
			if tt.valid {
				if err != nil {
					t.Fatalf("expected %v to be accepted, got %v", tt.value, err)
				}
				return
			}
			if !IsKind(err, KindConstraintViolation) {
				t.Fatalf("expected constraint violation for %v, got %v", tt.value, err)
			}
			if !strings.Contains(err.Error(), "MAX_DRAWDOWN_PERCENT") {
				t.Fatalf("expected diagnostic to name the field, got %v", err)
			}
		})
	}
}

func TestValidate_WeightSum(t *testing.T) {
	tests := []struct {
		name          string
		profitability float64
		valid         bool
	}{
		{"exact sum", 0.4, true},
		{"within tolerance", 0.4005, true},
		{"above tolerance", 0.402, false},
		{"far off", 0.9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.ScoreWeights = map[string]float64{
				MetricProfitability: tt.profitability,
				MetricSharpeRatio:   0.25,
				MetricMaxDrawdown:   0.2,
				MetricWinRate:       0.15,
			}
			err := cfg.Validate()
			if tt.valid {
				if err != nil {
					t.Fatalf("expected weights to be accepted, got %v", err)
				}
				return
			}
			if !IsKind(err, KindConstraintViolation) {
				t.Fatalf("expected constraint violation, got %v", err)
			}
			if !strings.Contains(err.Error(), "weights must sum to 1.0") {
				t.Fatalf("expected weight sum diagnostic, got %v", err)
			}
		})
	}
}

func TestValidate_MissingCredentials(t *testing.T) {
	tests := []struct {
		field string
		strip func(*Config)
	}{
		{"FIREBASE_PROJECT_ID", func(c *Config) { c.Firebase.ProjectID = "" }},
		{"FIREBASE_PRIVATE_KEY", func(c *Config) { c.Firebase.PrivateKey = "" }},
		{"FIREBASE_CLIENT_EMAIL", func(c *Config) { c.Firebase.ClientEmail = "" }},
		{"FIREBASE_DATABASE_URL", func(c *Config) { c.Firebase.DatabaseURL = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := validConfig()
			tt.strip(cfg)
			err := cfg.Validate()
			if !IsKind(err, KindMissingField) {
				t.Fatalf("expected missing field error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("expected diagnostic to name %s, got %v", tt.field, err)
			}
		})
	}
}

func TestValidate_ScheduleFormat(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"22:00", true},
		{"09:30", true},
		{"00:00", true},
		{"25:00", false},
		{"12:61", false},
		{"9am", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := validConfig()
			cfg.Tournament.DailySchedule = tt.value
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Fatalf("expected %q to be accepted, got %v", tt.value, err)
			}
			if !tt.valid && !IsKind(err, KindConstraintViolation) {
				t.Fatalf("expected constraint violation for %q, got %v", tt.value, err)
			}
		})
	}
}

func TestValidate_MaxConcurrentAgentsPositive(t *testing.T) {
	for _, value := range []int{0, -10} {
		cfg := validConfig()
		cfg.Tournament.MaxConcurrentAgents = value
		err := cfg.Validate()
		if !IsKind(err, KindConstraintViolation) {
			t.Fatalf("expected constraint violation for %d, got %v", value, err)
		}
	}
}

func TestValidate_UnknownMetricRejected(t *testing.T) {
	cfg := validConfig()
	cfg.ScoreWeights = map[string]float64{
		MetricProfitability: 0.5,
		"alpha_decay":       0.5,
	}
	err := cfg.Validate()
	if !IsKind(err, KindConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
	if !strings.Contains(err.Error(), "alpha_decay") {
		t.Fatalf("expected diagnostic to name the unknown metric, got %v", err)
	}
}

func TestValidate_CheckOrder(t *testing.T) {
	// Drawdown is checked before credentials: a config that violates both
	// reports the drawdown violation first.
	cfg := DefaultConfig()
	cfg.Risk.MaxDrawdownPercent = -1
	err := cfg.Validate()
	if !IsKind(err, KindConstraintViolation) {
		t.Fatalf("expected constraint violation to win, got %v", err)
	}
}
