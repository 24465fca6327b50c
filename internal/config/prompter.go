package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/prompter/pkg/log"
)

// PrompterConfig holds the session and interception settings. Prefix,
// SessionTimeout and HistoryLimit take effect on reload; Unsafe and
// HijackDelay only at startup.
type PrompterConfig struct {
	Unsafe         bool          `env:"PROMPTER_UNSAFE" envDefault:"false"`
	HijackDelay    time.Duration `env:"PROMPTER_HIJACK_DELAY" envDefault:"1s"`
	Prefix         string        `env:"PROMPTER_PREFIX" envDefault:"› "`
	SessionTimeout time.Duration `env:"PROMPTER_SESSION_TIMEOUT" envDefault:"0s"`
	HistoryLimit   int           `env:"PROMPTER_HISTORY_LIMIT" envDefault:"10"`
}

func NewPrompterConfig(ctx context.Context) *PrompterConfig {
	c, err := LoadPrompterConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Prompter config")
	}
	return c
}

// LoadPrompterConfig parses the current environment without exiting on error,
// for use by reload.
func LoadPrompterConfig() (*PrompterConfig, error) {
	c := &PrompterConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c PrompterConfig) Validate() error {
	if c.HijackDelay < 0 {
		return fmt.Errorf("PROMPTER_HIJACK_DELAY must not be negative, got %s", c.HijackDelay)
	}
	if c.SessionTimeout < 0 {
		return fmt.Errorf("PROMPTER_SESSION_TIMEOUT must not be negative, got %s", c.SessionTimeout)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("PROMPTER_HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	return nil
}
