package aws

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// renderPolicy loads a JSON policy document template from the configured
// templates directory and executes it with the given values.
func (c *AWSClient) renderPolicy(name string, data map[string]any) (string, error) {
	document, err := os.ReadFile(filepath.Join(c.config.Templates, name+".json"))
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Parse(string(document))
	if err != nil {
		return "", err
	}
	rendered := new(strings.Builder)
	if err := tmpl.Execute(rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}
