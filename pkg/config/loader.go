package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultEnvFile is the conventional location of the environment override
// file.
const DefaultEnvFile = ".env"

// RequiredCredentialVars lists the environment variables that must be
// supplied for initialization to succeed. They have no defaults.
var RequiredCredentialVars = []string{
	"FIREBASE_PROJECT_ID",
	"FIREBASE_PRIVATE_KEY",
	"FIREBASE_CLIENT_EMAIL",
	"FIREBASE_DATABASE_URL",
}

// envBindings maps viper config keys to their environment variable names.
// The same table drives override-file key translation and env binding.
var envBindings = []struct {
	key string
	env string
}{
	{"firebase.project_id", "FIREBASE_PROJECT_ID"},
	{"firebase.private_key", "FIREBASE_PRIVATE_KEY"},
	{"firebase.client_email", "FIREBASE_CLIENT_EMAIL"},
	{"firebase.database_url", "FIREBASE_DATABASE_URL"},
	{"tournament.daily_schedule", "TOURNAMENT_DAILY_SCHEDULE"},
	{"tournament.max_concurrent_agents", "MAX_CONCURRENT_AGENTS"},
	{"tournament.min_survival_score", "MIN_SURVIVAL_SCORE"},
	{"data_sources", "DATA_SOURCES"},
	{"risk.max_drawdown_percent", "MAX_DRAWDOWN_PERCENT"},
	{"risk.complexity_tax_rate", "COMPLEXITY_TAX_RATE"},
	{"score_weights", "SCORE_WEIGHTS"},
}

// Loader defines the interface for loading configuration.
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper. Precedence: ENV > override
// file > defaults. The override file is required: the credential set is
// large and easy to mis-supply, so a missing file fails fast instead of
// silently falling back to bare environment variables.
type ViperLoader struct {
	envFile string
}

// NewViperLoader creates a ViperLoader reading the given override file.
// An empty path selects DefaultEnvFile.
func NewViperLoader(envFile string) *ViperLoader {
	if strings.TrimSpace(envFile) == "" {
		envFile = DefaultEnvFile
	}
	return &ViperLoader{envFile: envFile}
}

// EnvFile returns the override file path this loader reads.
func (l *ViperLoader) EnvFile() string { return l.envFile }

// Load gathers raw values from defaults, the override file, and the process
// environment, coerces them, and runs the invariant checks. It never
// returns a partially populated Config.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	l.setDefaults(v, defaults)

	fileValues, err := l.readEnvFile()
	if err != nil {
		return nil, err
	}
	if len(fileValues) > 0 {
		if err := v.MergeConfigMap(fileValues); err != nil {
			return nil, fmt.Errorf("failed to merge override file %s: %w", l.envFile, err)
		}
	}

	l.bindEnvVars(v)

	if err := normalizeRawValues(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, newTypeCoercion("", "failed to unmarshal configuration", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate runs the construction-time invariant checks.
func (l *ViperLoader) Validate(cfg *Config) error {
	return cfg.Validate()
}

// readEnvFile reads the override file into a nested settings map keyed the
// way the Config struct expects. Absence of the file is a hard error whose
// diagnostic names the required credential variables.
func (l *ViperLoader) readEnvFile() (map[string]interface{}, error) {
	if _, err := os.Stat(l.envFile); err != nil {
		return nil, newMissingSource(fmt.Sprintf(
			"override file %s not found; required environment variables: %s",
			l.envFile, strings.Join(RequiredCredentialVars, ", ")))
	}

	fileViper := viper.New()
	fileViper.SetConfigFile(l.envFile)
	fileViper.SetConfigType("env")
	if err := fileViper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read override file %s: %w", l.envFile, err)
	}

	out := map[string]interface{}{}
	for _, binding := range envBindings {
		if !fileViper.IsSet(binding.env) {
			continue
		}
		nestValue(out, binding.key, fileViper.GetString(binding.env))
	}
	return out, nil
}

// bindEnvVars explicitly binds environment variables for nested struct keys.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	for _, binding := range envBindings {
		v.BindEnv(binding.key, binding.env)
	}
}

// setDefaults seeds viper with the declared defaults.
func (l *ViperLoader) setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tournament.daily_schedule", cfg.Tournament.DailySchedule)
	v.SetDefault("tournament.max_concurrent_agents", cfg.Tournament.MaxConcurrentAgents)
	v.SetDefault("tournament.min_survival_score", cfg.Tournament.MinSurvivalScore)
	v.SetDefault("data_sources", cfg.DataSources)
	v.SetDefault("risk.max_drawdown_percent", cfg.Risk.MaxDrawdownPercent)
	v.SetDefault("risk.complexity_tax_rate", cfg.Risk.ComplexityTaxRate)
	v.SetDefault("score_weights", cfg.ScoreWeights)
}

// normalizeRawValues coerces values that arrive as raw strings from the
// environment or override file into their structured types before
// unmarshalling: delimited lists for data_sources and a JSON object for
// score_weights.
func normalizeRawValues(v *viper.Viper) error {
	if raw, ok := v.Get("data_sources").(string); ok {
		v.Set("data_sources", parseStringSlice(raw))
	}
	if raw, ok := v.Get("score_weights").(string); ok {
		weights, err := parseWeightMap(raw)
		if err != nil {
			return err
		}
		v.Set("score_weights", weights)
	}
	return nil
}

// parseStringSlice splits a delimited list, accepting commas, semicolons,
// whitespace, and optional surrounding brackets.
func parseStringSlice(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}
	}

	normalized := strings.TrimPrefix(strings.TrimSuffix(trimmed, "]"), "[")
	normalized = strings.NewReplacer(",", " ", ";", " ", "\n", " ", "\t", " ").Replace(normalized)
	parts := strings.Fields(normalized)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			result = append(result, value)
		}
	}
	return result
}

// parseWeightMap decodes a JSON object of metric name to weight.
func parseWeightMap(raw string) (map[string]float64, error) {
	weights := map[string]float64{}
	if err := json.Unmarshal([]byte(raw), &weights); err != nil {
		return nil, newTypeCoercion("SCORE_WEIGHTS",
			"value must be a JSON object of metric name to weight", err)
	}
	return weights, nil
}

func nestValue(out map[string]interface{}, key string, value interface{}) {
	parts := strings.Split(key, ".")
	m := out
	for _, part := range parts[:len(parts)-1] {
		child, ok := m[part].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			m[part] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
}
