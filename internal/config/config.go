package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	SessionsDir  string `mapstructure:"sessions_dir" yaml:"sessions_dir"`
	CodesFile    string `mapstructure:"codes_file" yaml:"codes_file"`
	LabelsFile   string `mapstructure:"labels_file" yaml:"labels_file"`
	TaxonomyFile string `mapstructure:"taxonomy_file" yaml:"taxonomy_file"`

	// Grouping and colors
	GroupBy       string `mapstructure:"group_by" yaml:"group_by"`
	ColorMode     string `mapstructure:"color_mode" yaml:"color_mode"`
	FallbackColor string `mapstructure:"fallback_color" yaml:"fallback_color"`

	// Agreement policies
	LoyaltyField        string `mapstructure:"loyalty_field" yaml:"loyalty_field"`
	StatePattern        string `mapstructure:"state_pattern" yaml:"state_pattern"`
	PurchaseReasonField string `mapstructure:"purchase_reason_field" yaml:"purchase_reason_field"`

	PriceField        string  `mapstructure:"price_field" yaml:"price_field"`
	SubsampleFraction float64 `mapstructure:"subsample_fraction" yaml:"subsample_fraction"`

	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"data_dir", "sessions_dir", "codes_file", "labels_file", "taxonomy_file",
	"group_by", "color_mode", "fallback_color",
	"loyalty_field", "state_pattern", "purchase_reason_field",
	"price_field", "subsample_fraction", "chart_width", "chart_height",
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".segmap"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.segmap/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := homeDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SEGMAP")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "")
	v.SetDefault("sessions_dir", "")
	v.SetDefault("codes_file", "")
	v.SetDefault("labels_file", "")
	v.SetDefault("taxonomy_file", "")
	v.SetDefault("group_by", "cluster")
	v.SetDefault("color_mode", "")
	v.SetDefault("fallback_color", "#94A3B8")
	v.SetDefault("loyalty_field", "OL_MODEL_GRP")
	v.SetDefault("state_pattern", `(?i)^STATE_`)
	v.SetDefault("purchase_reason_field", "PR_MOST")
	v.SetDefault("price_field", "FIN_PRICE_UNEDITED")
	v.SetDefault("subsample_fraction", 0.5)
	v.SetDefault("chart_width", 960)
	v.SetDefault("chart_height", 640)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := homeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// sessions_dir default: ~/.segmap/sessions
	if c.SessionsDir == "" {
		dir, err := homeDir()
		if err != nil {
			return nil, err
		}
		c.SessionsDir = filepath.Join(dir, "sessions")
	}
	return &c, nil
}

// Set assigns a single key from its string form, parsing numbers where needed.
func (c *Global) Set(key, value string) error {
	switch key {
	case "data_dir":
		c.DataDir = value
	case "sessions_dir":
		c.SessionsDir = value
	case "codes_file":
		c.CodesFile = value
	case "labels_file":
		c.LabelsFile = value
	case "taxonomy_file":
		c.TaxonomyFile = value
	case "group_by":
		c.GroupBy = value
	case "color_mode":
		c.ColorMode = value
	case "fallback_color":
		c.FallbackColor = value
	case "loyalty_field":
		c.LoyaltyField = value
	case "state_pattern":
		c.StatePattern = value
	case "purchase_reason_field":
		c.PurchaseReasonField = value
	case "price_field":
		c.PriceField = value
	case "subsample_fraction":
		var f float64
		if _, err := fmt.Sscanf(value, "%g", &f); err != nil || f <= 0 || f > 1 {
			return fmt.Errorf("subsample_fraction must be in (0,1]: %q", value)
		}
		c.SubsampleFraction = f
	case "chart_width", "chart_height":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer: %q", key, value)
		}
		if key == "chart_width" {
			c.ChartWidth = n
		} else {
			c.ChartHeight = n
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
