// Package hooks runs user-configured shell commands around a save.
// Hooks are configured in hooks.yaml next to config.yaml and run before the
// file is written (pre-save) and after (post-save).
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Phase says when a hook runs.
type Phase string

const (
	// PreSave runs after validation, before the file is written. Failure
	// cancels the write.
	PreSave Phase = "pre-save"
	// PostSave runs after the file is written. Failure is reported but the
	// file stays written.
	PostSave Phase = "post-save"
)

// OnError values.
const (
	OnErrorFail     = "fail"
	OnErrorContinue = "continue"
)

// Hook defines a single hook.
type Hook struct {
	Name    string            `yaml:"name"`
	Command string            `yaml:"command"`           // run with sh -c
	Timeout time.Duration     `yaml:"timeout,omitempty"` // default 30s
	Env     map[string]string `yaml:"env,omitempty"`     // values are ${VAR}-expanded
	OnError string            `yaml:"on_error,omitempty"`
}

// Config holds all hooks.
type Config struct {
	Hooks ByPhase `yaml:"hooks"`
}

// ByPhase groups hooks by phase.
type ByPhase struct {
	PreSave  []Hook `yaml:"pre-save,omitempty"`
	PostSave []Hook `yaml:"post-save,omitempty"`
}

// Empty reports whether no hooks are configured.
func (c *Config) Empty() bool {
	return c == nil || len(c.Hooks.PreSave) == 0 && len(c.Hooks.PostSave) == 0
}

// SaveContext describes the save, passed to hooks as environment variables.
type SaveContext struct {
	File      string    // JV_FILE
	Lines     int       // JV_LINES: lines in the written document
	Bytes     int       // JV_BYTES
	Timestamp time.Time // JV_TIMESTAMP (RFC3339)
}

// ToEnv converts the context to environment variables.
func (c SaveContext) ToEnv() []string {
	return []string{
		fmt.Sprintf("JV_FILE=%s", c.File),
		fmt.Sprintf("JV_LINES=%d", c.Lines),
		fmt.Sprintf("JV_BYTES=%d", c.Bytes),
		fmt.Sprintf("JV_TIMESTAMP=%s", c.Timestamp.Format(time.RFC3339)),
	}
}

// DefaultTimeout applies to hooks without a timeout.
const DefaultTimeout = 30 * time.Second

// FileName is the hooks file looked up in the config directory.
const FileName = "hooks.yaml"

// Load reads dir/hooks.yaml. A missing file yields an empty Config. Hooks
// with an empty command are dropped and reported in warnings.
func Load(dir string) (*Config, []string, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil, nil
		}
		return nil, nil, fmt.Errorf("reading hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var warnings []string
	cfg.Hooks.PreSave, warnings = normalize(cfg.Hooks.PreSave, PreSave, warnings)
	cfg.Hooks.PostSave, warnings = normalize(cfg.Hooks.PostSave, PostSave, warnings)
	return &cfg, warnings, nil
}

// normalize applies defaults and drops empty commands.
func normalize(hooks []Hook, phase Phase, warnings []string) ([]Hook, []string) {
	var out []Hook
	for i, hook := range hooks {
		if strings.TrimSpace(hook.Command) == "" {
			warnings = append(warnings, fmt.Sprintf("%s hook %d has empty command; skipping", phase, i+1))
			continue
		}
		if hook.Timeout == 0 {
			hook.Timeout = DefaultTimeout
		}
		if hook.OnError == "" {
			hook.OnError = OnErrorContinue
			if phase == PreSave {
				hook.OnError = OnErrorFail
			}
		}
		if hook.Name == "" {
			hook.Name = fmt.Sprintf("%s-%d", phase, i+1)
		}
		out = append(out, hook)
	}
	return out, warnings
}

// Get returns the hooks of one phase.
func (c *Config) Get(phase Phase) []Hook {
	if c == nil {
		return nil
	}
	switch phase {
	case PreSave:
		return c.Hooks.PreSave
	case PostSave:
		return c.Hooks.PostSave
	default:
		return nil
	}
}

// UnmarshalYAML accepts timeouts as durations ("5s") or plain seconds.
func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	type hookDTO struct {
		Name    string            `yaml:"name"`
		Command string            `yaml:"command"`
		Timeout string            `yaml:"timeout,omitempty"`
		Env     map[string]string `yaml:"env,omitempty"`
		OnError string            `yaml:"on_error,omitempty"`
	}

	var dto hookDTO
	if err := node.Decode(&dto); err != nil {
		return err
	}
	h.Name = dto.Name
	h.Command = dto.Command
	h.Env = dto.Env
	h.OnError = dto.OnError

	if dto.Timeout != "" {
		d, err := time.ParseDuration(dto.Timeout)
		if err != nil {
			var seconds float64
			if _, scanErr := fmt.Sscanf(dto.Timeout, "%f", &seconds); scanErr != nil {
				return fmt.Errorf("invalid timeout %q: %w", dto.Timeout, err)
			}
			d = time.Duration(seconds * float64(time.Second))
		}
		h.Timeout = d
	}

	switch h.OnError {
	case "", OnErrorFail, OnErrorContinue:
	default:
		return fmt.Errorf("hook %q: on_error must be %q or %q", h.Name, OnErrorFail, OnErrorContinue)
	}
	return nil
}
