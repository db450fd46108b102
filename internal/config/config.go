package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the server. Values come from config.yaml
// when present, with MAFIA_-prefixed environment overrides; all keys have
// defaults so the file is optional.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Phases   PhaseConfig    `mapstructure:"phases"`
	Decision DecisionConfig `mapstructure:"decision"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// PhaseConfig carries the phase durations the scheduler runs with. They are
// configuration, not constants baked into the state machine.
type PhaseConfig struct {
	Night      time.Duration `mapstructure:"night"`
	Discussion time.Duration `mapstructure:"discussion"`
	Voting     time.Duration `mapstructure:"voting"`
}

// DecisionConfig tunes the autonomous-player gateway.
type DecisionConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
	// NightDispatchDelay is how long after night starts bots act.
	NightDispatchDelay time.Duration `mapstructure:"night_dispatch_delay"`
	// VoteJitterMin/Max bound the randomized delay before a bot votes.
	VoteJitterMin time.Duration `mapstructure:"vote_jitter_min"`
	VoteJitterMax time.Duration `mapstructure:"vote_jitter_max"`
	// ChatReplyJitterMin/Max bound the delay before a bot answers a human.
	ChatReplyJitterMin time.Duration `mapstructure:"chat_reply_jitter_min"`
	ChatReplyJitterMax time.Duration `mapstructure:"chat_reply_jitter_max"`
	// AbstainProbability is the chance a bot abstains when the provider
	// returned nothing usable for a vote.
	AbstainProbability float64 `mapstructure:"abstain_probability"`
}

func setDefaults() {
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("db.path", "./data/mafia.db")
	viper.SetDefault("phases.night", 30*time.Second)
	viper.SetDefault("phases.discussion", 60*time.Second)
	viper.SetDefault("phases.voting", 45*time.Second)
	viper.SetDefault("decision.base_url", "https://api.openai.com")
	viper.SetDefault("decision.model", "gpt-4o-mini")
	viper.SetDefault("decision.timeout", 20*time.Second)
	viper.SetDefault("decision.night_dispatch_delay", 2*time.Second)
	viper.SetDefault("decision.vote_jitter_min", 2*time.Second)
	viper.SetDefault("decision.vote_jitter_max", 12*time.Second)
	viper.SetDefault("decision.chat_reply_jitter_min", 2*time.Second)
	viper.SetDefault("decision.chat_reply_jitter_max", 6*time.Second)
	viper.SetDefault("decision.abstain_probability", 0.3)
}

// Load reads configuration from the given path (a directory containing
// config.yaml) and the environment. An empty path means current directory.
func Load(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if path == "" {
		path = "."
	}
	viper.AddConfigPath(path)
	viper.SetEnvPrefix("MAFIA")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Phases.Night <= 0 || c.Phases.Discussion <= 0 || c.Phases.Voting <= 0 {
		return fmt.Errorf("phase durations must be positive")
	}
	if c.Decision.AbstainProbability < 0 || c.Decision.AbstainProbability > 1 {
		return fmt.Errorf("decision.abstain_probability must be within [0,1]")
	}
	if c.Decision.VoteJitterMax < c.Decision.VoteJitterMin {
		return fmt.Errorf("decision.vote_jitter_max must be >= vote_jitter_min")
	}
	return nil
}
