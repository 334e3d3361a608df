package generation

import (
	"strings"
	"text/template"

	"github.com/goliatone/go-cms-modules/internal/schema"
)

var itemPrompt = template.Must(template.New("item").Parse(`Generate content for one "{{.Label}}" item.
Subject: {{.Subject}}
Variation {{.Index}} of {{.Count}}: make this item distinct from the other variations.
{{- if .Locale}}
Write every field in the language of locale "{{.Locale}}".
{{- end}}
{{- if .Hint}}
Guidance: {{.Hint}}
{{- end}}
Fields:
{{- range .Fields}}
- {{.Name}} ({{.Label}}{{if .Required}}, required{{end}}){{if .Description}}: {{.Description}}{{end}}{{if eq .Kind "richtext"}} [markdown allowed]{{end}}
{{- end}}
`))

type promptData struct {
	Label   string
	Subject string
	Index   int
	Count   int
	Locale  string
	Hint    string
	Fields  []schema.Field
}

// renderPrompt builds the structured content prompt for iteration index
// (1-based). Image fields are left to the image provider.
func renderPrompt(desc *schema.Descriptor, req Request, index int) (string, error) {
	data := promptData{
		Label:   desc.Label,
		Subject: strings.TrimSpace(req.Subject),
		Index:   index,
		Count:   req.Count,
		Locale:  req.Locale,
		Hint:    desc.PromptHint,
	}
	if data.Label == "" {
		data.Label = desc.Type
	}
	for _, f := range desc.Fields {
		if f.Kind == schema.KindImage {
			continue
		}
		data.Fields = append(data.Fields, f)
	}
	var b strings.Builder
	if err := itemPrompt.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderImagePrompt describes the generated item for the image provider.
func renderImagePrompt(desc *schema.Descriptor, subject string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString("Subject: ")
	b.WriteString(strings.TrimSpace(subject))
	b.WriteString("\nAn illustrative image for a ")
	if desc.Label != "" {
		b.WriteString(strings.ToLower(desc.Label))
	} else {
		b.WriteString(desc.Type)
	}
	b.WriteString(" item")
	if title := headline(desc, fields); title != "" {
		b.WriteString(" titled \"")
		b.WriteString(title)
		b.WriteString("\"")
	}
	b.WriteString(". No text in the image.")
	return b.String()
}

// headline returns the first non-empty plain text value.
func headline(desc *schema.Descriptor, fields map[string]any) string {
	for _, name := range desc.FieldsOfKind(schema.KindText) {
		if v, ok := fields[name].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
