// Package i18n resolves message keys to human-readable text.
package i18n

import (
	"context"
	"errors"
	"fmt"
	"os"

	fs "github.com/sandevgo/prompter/configs"
	"github.com/sandevgo/prompter/pkg/log"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	messages map[string]string
}

// NewCatalog builds a catalog from explicit messages. Used by tests and as a
// base for overrides.
func NewCatalog(messages map[string]string) *Catalog {
	c := &Catalog{messages: make(map[string]string, len(messages))}
	for k, v := range messages {
		c.messages[k] = v
	}
	return c
}

// LoadCatalog reads the embedded defaults and, if present, merges the
// override file at path on top of them.
func LoadCatalog(ctx context.Context, path string) (*Catalog, error) {
	data, err := fs.FS.ReadFile(fs.MessagesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded messages: %w", err)
	}

	base := make(map[string]string)
	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("failed to parse embedded messages: %w", err)
	}
	c := NewCatalog(base)

	if path == "" {
		return c, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read messages override: %w", err)
	}

	overrides := make(map[string]string)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse messages override %s: %w", path, err)
	}
	for k, v := range overrides {
		c.messages[k] = v
	}

	log.FromCtx(ctx).Debug().Str("path", path).Int("overrides", len(overrides)).Msg("loaded message overrides")
	return c, nil
}

// Get formats the message for key. Unknown keys come back as the key itself
// so a missing translation is visible rather than silent.
func (c *Catalog) Get(key string, args ...any) string {
	msg, ok := c.messages[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}
