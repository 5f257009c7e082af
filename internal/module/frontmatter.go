package module

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the fields waypoint reads from a module file header
type Frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ParseFrontmatter extracts YAML frontmatter from content into fm.
// Content without a frontmatter block leaves fm untouched.
// Returns the body content and any error.
func ParseFrontmatter(content []byte, fm *Frontmatter) (string, error) {
	text := string(content)

	if !strings.HasPrefix(text, "---") {
		return text, nil
	}

	rest := strings.TrimPrefix(text[3:], "\n")

	idx := strings.Index(rest, "\n---")
	if idx == -1 {
		return text, nil
	}

	yamlContent := rest[:idx]
	body := strings.TrimPrefix(rest[idx+4:], "\n")

	if err := yaml.Unmarshal([]byte(yamlContent), fm); err != nil {
		return "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	return body, nil
}
