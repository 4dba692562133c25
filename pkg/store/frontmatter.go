package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/planner/pkg/task"
)

const frontmatterDelimiter = "---"

// ParseTask splits a task file into YAML frontmatter and a markdown body.
// The body becomes the task's description. One blank line after the closing
// delimiter and one trailing newline belong to the file layout; everything
// else in the body is kept as written.
func ParseTask(content string) (task.Task, error) {
	content = strings.TrimLeft(content, " \t\r\n")

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return task.Task{}, fmt.Errorf("missing frontmatter")
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return task.Task{}, fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent := rest[:idx]
	// Skip the remainder of the closing delimiter line.
	_, body, _ := strings.Cut(rest[idx+len("\n"+frontmatterDelimiter):], "\n")
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimSuffix(body, "\n")

	var t task.Task
	if err := yaml.Unmarshal([]byte(yamlContent), &t); err != nil {
		return task.Task{}, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}

	t.Description = body
	return t, nil
}

// SerializeTask renders a task as markdown with YAML frontmatter.
func SerializeTask(t task.Task) (string, error) {
	yamlBytes, err := yaml.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString("\n")
		b.WriteString(t.Description)
		b.WriteString("\n")
	}

	return b.String(), nil
}
