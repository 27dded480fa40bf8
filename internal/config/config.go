package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Dirs    DirsConfig
	Primary PrimaryConfig
	Chain   ChainConfig
	Process ProcessConfig
	Ledger  LedgerConfig
	S3      S3Config
	Email   EmailConfig
	Log     LogConfig
}

// DirsConfig holds the working directory layout.
type DirsConfig struct {
	Data   string `mapstructure:"data"`
	Backup string `mapstructure:"backup"`
	Output string `mapstructure:"output"`
	Logs   string `mapstructure:"logs"`
}

// PrimaryConfig describes the dated transaction file being annotated.
type PrimaryConfig struct {
	FilePrefix   string `mapstructure:"file_prefix"`
	Extension    string `mapstructure:"extension"`
	KeyColumn    int    `mapstructure:"key_column"`
	TargetColumn int    `mapstructure:"target_column"`
}

// FileName assembles the primary file name for a compact date token.
func (p *PrimaryConfig) FileName(token string) string {
	return p.FilePrefix + token + "." + p.Extension
}

// ReferenceConfig describes one reference table in the chain. An empty label
// disables the slot.
type ReferenceConfig struct {
	Label       string `mapstructure:"label"`
	FilePrefix  string `mapstructure:"file_prefix"`
	Extension   string `mapstructure:"extension"`
	KeyColumn   int    `mapstructure:"key_column"`
	ValueColumn int    `mapstructure:"value_column"`
}

// FileName assembles the reference file name for an expanded date.
func (r *ReferenceConfig) FileName(date string) string {
	return r.FilePrefix + date + "." + r.Extension
}

// ChainConfig holds the prioritized reference tables. Order is significant:
// First is consulted before Second, Second before Third.
type ChainConfig struct {
	First  ReferenceConfig `mapstructure:"first"`
	Second ReferenceConfig `mapstructure:"second"`
	Third  ReferenceConfig `mapstructure:"third"`
}

// Ordered returns the configured reference slots in priority order, skipping
// disabled ones.
func (c *ChainConfig) Ordered() []ReferenceConfig {
	var refs []ReferenceConfig
	for _, ref := range []ReferenceConfig{c.First, c.Second, c.Third} {
		if ref.Label != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// ProcessConfig holds resolution pass settings.
type ProcessConfig struct {
	Separator   string `mapstructure:"separator"`
	Sentinel    string `mapstructure:"sentinel"`
	Concurrency int    `mapstructure:"concurrency"`
	SampleKeys  int    `mapstructure:"sample_keys"`
}

// SeparatorRune returns the field separator as a rune, defaulting to ';'.
func (p *ProcessConfig) SeparatorRune() rune {
	for _, r := range p.Separator {
		return r
	}
	return ';'
}

// LedgerConfig holds run ledger settings.
type LedgerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// S3Config holds the optional archive mirror settings.
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// EmailConfig holds run report delivery settings.
type EmailConfig struct {
	Provider    string   `mapstructure:"provider"`
	Region      string   `mapstructure:"region"`
	FromAddress string   `mapstructure:"from_address"`
	FromName    string   `mapstructure:"from_name"`
	Recipients  []string `mapstructure:"recipients"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file and from environment
// variables with the CALYREC_ prefix. Environment variables win over the
// file; explicit defaults cover everything else. When file is empty,
// calyrec.yaml in the working directory is used if present.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CALYREC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Directory defaults, matching the deployed batch layout.
	v.SetDefault("dirs.data", "data")
	v.SetDefault("dirs.backup", "BK")
	v.SetDefault("dirs.output", "procesados")
	v.SetDefault("dirs.logs", "logs")

	// Primary dataset defaults
	v.SetDefault("primary.file_prefix", "VIG_TRANSACI_CALYPSO_")
	v.SetDefault("primary.extension", "csv")
	v.SetDefault("primary.key_column", 4)
	v.SetDefault("primary.target_column", 3)

	// Reference chain defaults, in deployed priority order
	v.SetDefault("chain.first.label", "fwd_div")
	v.SetDefault("chain.first.file_prefix", "fwd_div_Calypso_")
	v.SetDefault("chain.first.extension", "csv")
	v.SetDefault("chain.first.key_column", 43)
	v.SetDefault("chain.first.value_column", 0)
	v.SetDefault("chain.second.label", "fwd_usd")
	v.SetDefault("chain.second.file_prefix", "fwd_usd_Calypso_")
	v.SetDefault("chain.second.extension", "csv")
	v.SetDefault("chain.second.key_column", 43)
	v.SetDefault("chain.second.value_column", 0)
	v.SetDefault("chain.third.label", "liquidaciones")
	v.SetDefault("chain.third.file_prefix", "LIQUIDACIONES_")
	v.SetDefault("chain.third.extension", "csv")
	v.SetDefault("chain.third.key_column", 1)
	v.SetDefault("chain.third.value_column", 20)

	// Process defaults
	v.SetDefault("process.separator", ";")
	v.SetDefault("process.sentinel", "no encontrado")
	v.SetDefault("process.concurrency", 4)
	v.SetDefault("process.sample_keys", 10)

	// Ledger defaults
	v.SetDefault("ledger.enabled", true)
	v.SetDefault("ledger.path", "logs/calyrec.db")

	// S3 defaults (mirror disabled unless configured)
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.key_prefix", "runs")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "calyrec@localhost")
	v.SetDefault("email.from_name", "calyrec")
	v.SetDefault("email.recipients", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"dirs.data":                 "CALYREC_DIRS_DATA",
		"dirs.backup":               "CALYREC_DIRS_BACKUP",
		"dirs.output":               "CALYREC_DIRS_OUTPUT",
		"dirs.logs":                 "CALYREC_DIRS_LOGS",
		"primary.file_prefix":       "CALYREC_PRIMARY_FILE_PREFIX",
		"primary.extension":         "CALYREC_PRIMARY_EXTENSION",
		"primary.key_column":        "CALYREC_PRIMARY_KEY_COLUMN",
		"primary.target_column":     "CALYREC_PRIMARY_TARGET_COLUMN",
		"chain.first.label":         "CALYREC_CHAIN_FIRST_LABEL",
		"chain.first.file_prefix":   "CALYREC_CHAIN_FIRST_FILE_PREFIX",
		"chain.first.extension":     "CALYREC_CHAIN_FIRST_EXTENSION",
		"chain.first.key_column":    "CALYREC_CHAIN_FIRST_KEY_COLUMN",
		"chain.first.value_column":  "CALYREC_CHAIN_FIRST_VALUE_COLUMN",
		"chain.second.label":        "CALYREC_CHAIN_SECOND_LABEL",
		"chain.second.file_prefix":  "CALYREC_CHAIN_SECOND_FILE_PREFIX",
		"chain.second.extension":    "CALYREC_CHAIN_SECOND_EXTENSION",
		"chain.second.key_column":   "CALYREC_CHAIN_SECOND_KEY_COLUMN",
		"chain.second.value_column": "CALYREC_CHAIN_SECOND_VALUE_COLUMN",
		"chain.third.label":         "CALYREC_CHAIN_THIRD_LABEL",
		"chain.third.file_prefix":   "CALYREC_CHAIN_THIRD_FILE_PREFIX",
		"chain.third.extension":     "CALYREC_CHAIN_THIRD_EXTENSION",
		"chain.third.key_column":    "CALYREC_CHAIN_THIRD_KEY_COLUMN",
		"chain.third.value_column":  "CALYREC_CHAIN_THIRD_VALUE_COLUMN",
		"process.separator":         "CALYREC_PROCESS_SEPARATOR",
		"process.sentinel":          "CALYREC_PROCESS_SENTINEL",
		"process.concurrency":       "CALYREC_PROCESS_CONCURRENCY",
		"process.sample_keys":       "CALYREC_PROCESS_SAMPLE_KEYS",
		"ledger.enabled":            "CALYREC_LEDGER_ENABLED",
		"ledger.path":               "CALYREC_LEDGER_PATH",
		"s3.enabled":                "CALYREC_S3_ENABLED",
		"s3.region":                 "CALYREC_S3_REGION",
		"s3.bucket":                 "CALYREC_S3_BUCKET",
		"s3.endpoint":               "CALYREC_S3_ENDPOINT",
		"s3.access_key":             "CALYREC_S3_ACCESS_KEY",
		"s3.secret_key":             "CALYREC_S3_SECRET_KEY",
		"s3.key_prefix":             "CALYREC_S3_KEY_PREFIX",
		"email.provider":            "CALYREC_EMAIL_PROVIDER",
		"email.region":              "CALYREC_EMAIL_REGION",
		"email.from_address":        "CALYREC_EMAIL_FROM_ADDRESS",
		"email.from_name":           "CALYREC_EMAIL_FROM_NAME",
		"email.recipients":          "CALYREC_EMAIL_RECIPIENTS",
		"log.level":                 "CALYREC_LOG_LEVEL",
		"log.format":                "CALYREC_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	} else {
		v.SetConfigName("calyrec")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config.Load: %w", err)
			}
		}
	}

	cfg := &Config{}

	cfg.Dirs = DirsConfig{
		Data:   v.GetString("dirs.data"),
		Backup: v.GetString("dirs.backup"),
		Output: v.GetString("dirs.output"),
		Logs:   v.GetString("dirs.logs"),
	}
	cfg.Primary = PrimaryConfig{
		FilePrefix:   v.GetString("primary.file_prefix"),
		Extension:    v.GetString("primary.extension"),
		KeyColumn:    v.GetInt("primary.key_column"),
		TargetColumn: v.GetInt("primary.target_column"),
	}
	cfg.Chain = ChainConfig{
		First: ReferenceConfig{
			Label:       v.GetString("chain.first.label"),
			FilePrefix:  v.GetString("chain.first.file_prefix"),
			Extension:   v.GetString("chain.first.extension"),
			KeyColumn:   v.GetInt("chain.first.key_column"),
			ValueColumn: v.GetInt("chain.first.value_column"),
		},
		Second: ReferenceConfig{
			Label:       v.GetString("chain.second.label"),
			FilePrefix:  v.GetString("chain.second.file_prefix"),
			Extension:   v.GetString("chain.second.extension"),
			KeyColumn:   v.GetInt("chain.second.key_column"),
			ValueColumn: v.GetInt("chain.second.value_column"),
		},
		Third: ReferenceConfig{
			Label:       v.GetString("chain.third.label"),
			FilePrefix:  v.GetString("chain.third.file_prefix"),
			Extension:   v.GetString("chain.third.extension"),
			KeyColumn:   v.GetInt("chain.third.key_column"),
			ValueColumn: v.GetInt("chain.third.value_column"),
		},
	}
	cfg.Process = ProcessConfig{
		Separator:   v.GetString("process.separator"),
		Sentinel:    v.GetString("process.sentinel"),
		Concurrency: v.GetInt("process.concurrency"),
		SampleKeys:  v.GetInt("process.sample_keys"),
	}
	cfg.Ledger = LedgerConfig{
		Enabled: v.GetBool("ledger.enabled"),
		Path:    v.GetString("ledger.path"),
	}
	cfg.S3 = S3Config{
		Enabled:   v.GetBool("s3.enabled"),
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		KeyPrefix: v.GetString("s3.key_prefix"),
	}
	// Parse recipients from a comma-separated string
	var recipients []string
	for _, r := range strings.Split(v.GetString("email.recipients"), ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			recipients = append(recipients, r)
		}
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		Recipients:  recipients,
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
