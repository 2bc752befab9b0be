package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the settings a command mode depends on. Modes: "run"
// (analysis and leads), "serve" (run plus the HTTP server), "sync" (run plus
// at least one CRM target).
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "run", "serve", "sync":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	problems = append(problems, c.validateCore()...)

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
	case "sync":
		if !c.Salesforce.Configured() && !c.Notion.Configured() {
			problems = append(problems, "salesforce or notion must be configured")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateCore() []string {
	var problems []string

	if !c.LLM.UseLocal {
		switch c.LLM.Provider {
		case "anthropic", "gemini":
		default:
			problems = append(problems, fmt.Sprintf("llm.provider %q must be anthropic or gemini", c.LLM.Provider))
		}
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		problems = append(problems, "llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxRetries < 1 {
		problems = append(problems, "llm.max_retries must be >= 1")
	}
	if c.Analysis.MaxContentLength <= 0 {
		problems = append(problems, "analysis.max_content_length must be > 0")
	}
	if c.Cache.TTLSecs <= 0 {
		problems = append(problems, "cache.ttl_secs must be > 0")
	}

	switch c.Cache.Driver {
	case "file", "sqlite":
		if c.Cache.Dir == "" {
			problems = append(problems, "cache.dir is required for the "+c.Cache.Driver+" driver")
		}
	case "postgres":
		if c.Cache.DatabaseURL == "" {
			problems = append(problems, "cache.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("cache.driver %q must be file, sqlite or postgres", c.Cache.Driver))
	}

	return problems
}
