package app

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/platform/envutil"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/services"
)

//go:embed tools.yaml
var defaultToolProfiles []byte

const sharedKeyEnv = "GENAI_API_KEY"

type toolSettings struct {
	Model           string   `yaml:"model"`
	Temperature     *float32 `yaml:"temperature"`
	MaxOutputTokens int32    `yaml:"max_output_tokens"`
	KeyEnv          []string `yaml:"key_env"`
}

type toolProfiles struct {
	Tools map[string]toolSettings `yaml:"tools"`
}

// loadToolProfiles parses the embedded profiles, or path when set.
func loadToolProfiles(path string) (toolProfiles, error) {
	raw := defaultToolProfiles
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return toolProfiles{}, fmt.Errorf("read tool profiles: %w", err)
		}
		raw = b
	}
	var tp toolProfiles
	if err := yaml.Unmarshal(raw, &tp); err != nil {
		return toolProfiles{}, fmt.Errorf("parse tool profiles: %w", err)
	}
	if tp.Tools == nil {
		tp.Tools = map[string]toolSettings{}
	}
	return tp, nil
}

// tool binds profile to its configured model and resolved key.
func (tp toolProfiles) tool(log *logger.Logger, profile extraction.Profile) services.Tool {
	s := tp.Tools[profile.Tool]
	if s.Temperature != nil {
		profile.Temperature = *s.Temperature
	}
	if s.MaxOutputTokens > 0 {
		profile.MaxOutputTokens = s.MaxOutputTokens
	}
	key := resolveAPIKey(s.KeyEnv)
	if key == "" {
		log.Warn("No API key configured for tool; its calls will fail", "tool", profile.Tool, "env", append([]string{sharedKeyEnv}, s.KeyEnv...))
	}
	return services.Tool{Profile: profile, APIKey: key, Model: s.Model}
}

// resolveAPIKey prefers the shared key, then the tool's own variables.
func resolveAPIKey(keyEnv []string) string {
	if v := envutil.First(sharedKeyEnv); v != "" {
		return v
	}
	return envutil.First(keyEnv...)
}
