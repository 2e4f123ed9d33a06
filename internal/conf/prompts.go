package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptsConfig contains all prompt configurations loaded from YAML
type PromptsConfig struct {
	Summary SummaryPrompts `yaml:"summary"`

	// Source is the file the prompts were read from, empty for defaults
	Source string `yaml:"-"`
}

// SummaryPrompts contains the daily summary prompts
type SummaryPrompts struct {
	SystemPrompt        string `yaml:"system_prompt"`
	InstructionTemplate string `yaml:"instruction_template"` // {{messages}} is replaced by the transcript
	TimeLayout          string `yaml:"time_layout"`          // Go layout for transcript timestamps
}

// LoadPromptsConfig loads prompts configuration from YAML file
func LoadPromptsConfig(configPath string) (*PromptsConfig, error) {
	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"/etc/digestbot/prompts.yaml",
		}
		// Add path relative to executable
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err == nil {
			data = content
			loadedPath = p
			break
		}
	}

	if data == nil {
		// Return default config if no file found
		return DefaultPromptsConfig(), nil
	}

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return DefaultPromptsConfig(), fmt.Errorf("failed to parse %s: %w", loadedPath, err)
	}
	config.Source = loadedPath

	// Fill in defaults for empty values
	config.fillDefaults()

	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PromptsConfig) fillDefaults() {
	defaults := DefaultPromptsConfig()

	if c.Summary.SystemPrompt == "" {
		c.Summary.SystemPrompt = defaults.Summary.SystemPrompt
	}
	if c.Summary.InstructionTemplate == "" {
		c.Summary.InstructionTemplate = defaults.Summary.InstructionTemplate
	}
	if c.Summary.TimeLayout == "" {
		c.Summary.TimeLayout = defaults.Summary.TimeLayout
	}
}

// FormatInstructions inserts the chat transcript into the instruction template
func (p *SummaryPrompts) FormatInstructions(transcript string) string {
	return strings.TrimSpace(strings.ReplaceAll(p.InstructionTemplate, "{{messages}}", transcript))
}

// DefaultPromptsConfig returns the default prompts configuration
func DefaultPromptsConfig() *PromptsConfig {
	return &PromptsConfig{
		Summary: SummaryPrompts{
			SystemPrompt: "You are a helpful assistant that summarizes Discord chat logs.",
			InstructionTemplate: `Here are the messages from the last 24 hours:

{{messages}}

Please provide a concise summary of the day's events in bullet points.
- Discard extra chatter, jokes, or irrelevant messages.
- Focus on news, important discussions, and events.
- Group related topics together.
- Use Discord markdown formatting (e.g., **bold** for topics).
- If a message contains an X (Twitter) link and users added context about it, summarize the content that was shared based on that context rather than just naming the author.`,
			TimeLayout: "15:04",
		},
	}
}
