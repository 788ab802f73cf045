package llm

import (
	"bytes"
	"text/template"
)

// PromptTemplate is a named text/template for building prompts.
type PromptTemplate struct {
	Name     string
	Template string
}

// NewPromptTemplate creates a PromptTemplate.
func NewPromptTemplate(name, tmpl string) *PromptTemplate {
	return &PromptTemplate{
		Name:     name,
		Template: tmpl,
	}
}

// Execute renders the template with data into a prompt string.
func (pt *PromptTemplate) Execute(data map[string]any) (string, error) {
	tmpl, err := template.New(pt.Name).Parse(pt.Template)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
