package llm

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// TaskType identifies what a prompt is for. Each task carries its own
// sampling settings and deadline.
type TaskType string

const (
	TaskSuggest   TaskType = "suggest"
	TaskTranslate TaskType = "translate"
	TaskSummarize TaskType = "summarize"
)

type TaskConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutMs   int     `yaml:"timeout_ms"` // overrides LLMConfig.TimeoutMs if > 0
}

// LLMConfig is the "llm" section of config.yaml.
type LLMConfig struct {
	Enabled    bool                    `yaml:"enabled"`
	LogCalls   bool                    `yaml:"log_calls"`
	Endpoint   string                  `yaml:"endpoint"`
	Model      string                  `yaml:"model"`
	TimeoutMs  int                     `yaml:"timeout_ms"`
	MaxRetries int                     `yaml:"max_retries"`
	Tasks      map[TaskType]TaskConfig `yaml:"tasks"`
}

// DefaultConfig points at a local Ollama but leaves the assistant off.
// Failed calls are not retried.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Endpoint:  "http://localhost:11434",
		Model:     "llama3.2",
		TimeoutMs: 15000,
		Tasks: map[TaskType]TaskConfig{
			TaskSuggest:   {Temperature: 0.4, MaxTokens: 512, TimeoutMs: 15000},
			TaskTranslate: {Temperature: 0.1, MaxTokens: 1024, TimeoutMs: 10000},
			TaskSummarize: {Temperature: 0.2, MaxTokens: 1024, TimeoutMs: 30000},
		},
	}
}

// TaskTimeout returns the per-attempt deadline for task in milliseconds.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// Validate checks the settings the client cannot run without. A disabled
// config is always valid.
func (c LLMConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: llm.endpoint must be an absolute URL, got %q", c.Endpoint)
	}
	if c.Model == "" {
		return fmt.Errorf("config: llm.model must not be empty")
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("config: llm.timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	return nil
}

// envSetters map ACCREDIT_LLM_* variables onto LLMConfig. A setter returns
// false when the value does not parse; such values are ignored.
var envSetters = map[string]func(*LLMConfig, string) bool{
	"ACCREDIT_LLM_ENABLED":     func(c *LLMConfig, v string) bool { return parseBool(v, &c.Enabled) },
	"ACCREDIT_LLM_LOG_CALLS":   func(c *LLMConfig, v string) bool { return parseBool(v, &c.LogCalls) },
	"ACCREDIT_LLM_ENDPOINT":    func(c *LLMConfig, v string) bool { c.Endpoint = v; return true },
	"ACCREDIT_LLM_MODEL":       func(c *LLMConfig, v string) bool { c.Model = v; return true },
	"ACCREDIT_LLM_TIMEOUT_MS":  func(c *LLMConfig, v string) bool { return parseInt(v, 1, &c.TimeoutMs) },
	"ACCREDIT_LLM_MAX_RETRIES": func(c *LLMConfig, v string) bool { return parseInt(v, 0, &c.MaxRetries) },

	"ACCREDIT_LLM_SUGGEST_TIMEOUT_MS":   taskTimeoutSetter(TaskSuggest),
	"ACCREDIT_LLM_TRANSLATE_TIMEOUT_MS": taskTimeoutSetter(TaskTranslate),
	"ACCREDIT_LLM_SUMMARIZE_TIMEOUT_MS": taskTimeoutSetter(TaskSummarize),
}

// ApplyEnv overrides cfg with the ACCREDIT_LLM_* variables that are set.
func ApplyEnv(cfg *LLMConfig) {
	for name, set := range envSetters {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			set(cfg, v)
		}
	}
}

func taskTimeoutSetter(task TaskType) func(*LLMConfig, string) bool {
	return func(c *LLMConfig, v string) bool {
		var n int
		if !parseInt(v, 1, &n) {
			return false
		}
		if c.Tasks == nil {
			c.Tasks = map[TaskType]TaskConfig{}
		}
		tc := c.Tasks[task]
		tc.TimeoutMs = n
		c.Tasks[task] = tc
		return true
	}
}

func parseBool(v string, dst *bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	*dst = b
	return true
}

func parseInt(v string, minimum int, dst *int) bool {
	n, err := strconv.Atoi(v)
	if err != nil || n < minimum {
		return false
	}
	*dst = n
	return true
}
