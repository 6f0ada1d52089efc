package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// validMetrics is the closed set of score weight keys.
var validMetrics = map[string]bool{
	MetricProfitability: true,
	MetricSharpeRatio:   true,
	MetricMaxDrawdown:   true,
	MetricWinRate:       true,
}

// Validate runs the invariant checks in declaration order and fails on the
// first violation: drawdown bounds, weight sum, required credentials, then
// the supplementary field checks.
func (c *Config) Validate() error {
	if c.Risk.MaxDrawdownPercent <= 0 || c.Risk.MaxDrawdownPercent > 100 {
		return newConstraintViolation("MAX_DRAWDOWN_PERCENT",
			fmt.Sprintf("value must be between 0 and 100, got %v", c.Risk.MaxDrawdownPercent))
	}

	var total float64
	for _, weight := range c.ScoreWeights {
		total += weight
	}
	if math.Abs(total-1.0) > WeightSumTolerance {
		return newConstraintViolation("SCORE_WEIGHTS",
			fmt.Sprintf("weights must sum to 1.0, got %v", total))
	}

	credentials := []struct {
		env   string
		value string
	}{
		{"FIREBASE_PROJECT_ID", c.Firebase.ProjectID},
		{"FIREBASE_PRIVATE_KEY", c.Firebase.PrivateKey},
		{"FIREBASE_CLIENT_EMAIL", c.Firebase.ClientEmail},
		{"FIREBASE_DATABASE_URL", c.Firebase.DatabaseURL},
	}
	for _, credential := range credentials {
		if strings.TrimSpace(credential.value) == "" {
			return newMissingField(credential.env)
		}
	}

	if _, err := time.Parse("15:04", c.Tournament.DailySchedule); err != nil {
		return newConstraintViolation("TOURNAMENT_DAILY_SCHEDULE",
			fmt.Sprintf("value must be a 24h HH:MM time, got %q", c.Tournament.DailySchedule))
	}

	if c.Tournament.MaxConcurrentAgents <= 0 {
		return newConstraintViolation("MAX_CONCURRENT_AGENTS",
			fmt.Sprintf("value must be a positive integer, got %d", c.Tournament.MaxConcurrentAgents))
	}

	for metric := range c.ScoreWeights {
		if !validMetrics[metric] {
			return newConstraintViolation("SCORE_WEIGHTS",
				fmt.Sprintf("unknown metric %q", metric))
		}
	}

	return nil
}
