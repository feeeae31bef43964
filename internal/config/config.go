package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
	JoinRate   float64       `mapstructure:"join_rate"`
	JoinBurst  int           `mapstructure:"join_burst"`
	// Backpressure is "drop" or "close".
	Backpressure string      `mapstructure:"backpressure"`
	ICEServers   []ICEServer `mapstructure:"ice_servers"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"mode":        "mode",
	"port":        "port",
	"static-path": "static_path",
	"log-level":   "log_level",
}

// Flags declares the command-line overrides understood by Load.
func Flags(fs *pflag.FlagSet) {
	fs.String("config-env", "", "config environment, selects config/config.<env>.yaml (default $CONFIG_ENV or dev)")
	fs.String("mode", "", "gin mode: debug or release")
	fs.Int("port", 0, "HTTP listen port")
	fs.String("static-path", "", "directory with the browser client")
	fs.String("log-level", "", "debug, info, warn or error")
}

func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if flags != nil {
		if f := flags.Lookup("config-env"); f != nil && f.Changed {
			env = f.Value.String()
		}
	}
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "duet-dev-secret")
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("join_rate", 2.0)
	v.SetDefault("join_burst", 5)
	v.SetDefault("backpressure", "drop")
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
		{"urls": []string{"stun:stun.services.mozilla.com"}},
	})

	v.SetEnvPrefix("DUET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.PongWait <= 0 || c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		errs = append(errs, fmt.Errorf("ping_period %s must be positive and below pong_wait %s", c.PingPeriod, c.PongWait))
	}
	if c.WriteWait <= 0 {
		errs = append(errs, fmt.Errorf("write_wait %s must be positive", c.WriteWait))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, fmt.Errorf("send_buffer %d must be positive", c.SendBuffer))
	}
	if c.JoinRate <= 0 || c.JoinBurst <= 0 {
		errs = append(errs, errors.New("join_rate and join_burst must be positive"))
	}
	switch c.Backpressure {
	case "drop", "close":
	default:
		errs = append(errs, fmt.Errorf("unknown backpressure policy %q", c.Backpressure))
	}
	return errors.Join(errs...)
}
