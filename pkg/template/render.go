package template

import (
	"bytes"
	"fmt"
	texttmpl "text/template"
)

// Render interpolates a CMS-stored template body with the job's payload
// fields. Fields the body references but the payload lacks render as empty
// strings rather than failing the job.
func Render(name, body string, fields map[string]string) (string, error) {
	if fields == nil {
		fields = map[string]string{}
	}

	tmpl, err := texttmpl.New(name).Option("missingkey=zero").Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, fields); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
