package config

import (
	"fmt"
	"sort"
	"strings"
)

// Score metric keys. ScoreWeights is restricted to exactly this set.
const (
	MetricProfitability = "profitability"
	MetricSharpeRatio   = "sharpe_ratio"
	MetricMaxDrawdown   = "max_drawdown"
	MetricWinRate       = "win_rate"
)

// WeightSumTolerance is the maximum allowed deviation of the score weight
// sum from 1.0.
const WeightSumTolerance = 0.001

// Config is the root configuration for the evolution engine. It is built
// once by a Loader, validated, and immutable afterwards.
type Config struct {
	Firebase     FirebaseConfig     `mapstructure:"firebase"`
	Tournament   TournamentConfig   `mapstructure:"tournament"`
	DataSources  []string           `mapstructure:"data_sources"`
	Risk         RiskConfig         `mapstructure:"risk"`
	ScoreWeights map[string]float64 `mapstructure:"score_weights"`
}

// FirebaseConfig carries the ecosystem credentials. All four fields are
// required and have no defaults.
type FirebaseConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	PrivateKey  string `mapstructure:"private_key"` // secret, must never be logged
	ClientEmail string `mapstructure:"client_email"`
	DatabaseURL string `mapstructure:"database_url"`
}

// TournamentConfig configures daily tournament execution.
type TournamentConfig struct {
	DailySchedule       string  `mapstructure:"daily_schedule"` // HH:MM, 24h clock
	MaxConcurrentAgents int     `mapstructure:"max_concurrent_agents"`
	MinSurvivalScore    float64 `mapstructure:"min_survival_score"`
}

// RiskConfig configures risk management limits.
type RiskConfig struct {
	MaxDrawdownPercent float64 `mapstructure:"max_drawdown_percent"` // in (0, 100]
	ComplexityTaxRate  float64 `mapstructure:"complexity_tax_rate"`
}

// DefaultConfig returns the configuration defaults. Credential fields stay
// empty on purpose: they must come from the environment or the override
// file.
func DefaultConfig() *Config {
	return &Config{
		Tournament: TournamentConfig{
			DailySchedule:       "22:00",
			MaxConcurrentAgents: 100,
			MinSurvivalScore:    0.0,
		},
		DataSources: []string{"binance", "kraken", "coinbase"},
		Risk: RiskConfig{
			MaxDrawdownPercent: 20.0,
			ComplexityTaxRate:  0.001,
		},
		ScoreWeights: map[string]float64{
			MetricProfitability: 0.4,
			MetricSharpeRatio:   0.25,
			MetricMaxDrawdown:   0.2,
			MetricWinRate:       0.15,
		},
	}
}

// String renders the full configuration, including the private key. Prefer
// Redacted for anything that may reach logs or terminals.
func (c *Config) String() string {
	return c.format(false)
}

// Redacted renders the configuration with the private key masked.
func (c *Config) Redacted() string {
	return c.format(true)
}

func (c *Config) format(redact bool) string {
	privateKey := c.Firebase.PrivateKey
	if redact && privateKey != "" {
		privateKey = "***"
	}

	weightKeys := make([]string, 0, len(c.ScoreWeights))
	for key := range c.ScoreWeights {
		weightKeys = append(weightKeys, key)
	}
	sort.Strings(weightKeys)

	var b strings.Builder
	b.WriteString("firebase:\n")
	fmt.Fprintf(&b, "  project_id: %s\n", c.Firebase.ProjectID)
	fmt.Fprintf(&b, "  private_key: %s\n", privateKey)
	fmt.Fprintf(&b, "  client_email: %s\n", c.Firebase.ClientEmail)
	fmt.Fprintf(&b, "  database_url: %s\n", c.Firebase.DatabaseURL)
	b.WriteString("tournament:\n")
	fmt.Fprintf(&b, "  daily_schedule: %s\n", c.Tournament.DailySchedule)
	fmt.Fprintf(&b, "  max_concurrent_agents: %d\n", c.Tournament.MaxConcurrentAgents)
	fmt.Fprintf(&b, "  min_survival_score: %v\n", c.Tournament.MinSurvivalScore)
	fmt.Fprintf(&b, "data_sources: [%s]\n", strings.Join(c.DataSources, ", "))
	b.WriteString("risk:\n")
	fmt.Fprintf(&b, "  max_drawdown_percent: %v\n", c.Risk.MaxDrawdownPercent)
	fmt.Fprintf(&b, "  complexity_tax_rate: %v\n", c.Risk.ComplexityTaxRate)
	b.WriteString("score_weights:\n")
	for _, key := range weightKeys {
		fmt.Fprintf(&b, "  %s: %v\n", key, c.ScoreWeights[key])
	}
	return b.String()
}
