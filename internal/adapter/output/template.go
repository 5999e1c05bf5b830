package output

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// TemplateFormatter renders a report through a text/template.
type TemplateFormatter struct {
	template *template.Template
}

// templateData is the value templates are executed against.
type templateData struct {
	Full     string
	Short    string
	Seconds  uint64
	OK       bool
	Source   string
	BootTime time.Time
	ReadAt   time.Time
}

// NewTemplateFormatter parses text as a template.
func NewTemplateFormatter(text string) (*TemplateFormatter, error) {
	if text == "" {
		return nil, fmt.Errorf("template format requires a template")
	}
	tmpl, err := template.New("uptime").Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &TemplateFormatter{template: tmpl}, nil
}

// Format executes the template and terminates the output with a newline.
func (f *TemplateFormatter) Format(w io.Writer, r Report) error {
	data := templateData{
		Full:     r.Snapshot.Strings.Full,
		Short:    r.Snapshot.Strings.Short,
		Seconds:  r.Snapshot.Reading.Seconds(),
		OK:       r.Snapshot.OK(),
		Source:   r.Snapshot.Source,
		BootTime: r.BootTime,
		ReadAt:   r.Snapshot.ReadAt,
	}
	if err := f.template.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// templateFuncs returns helper functions available to templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"ago":        relativeTime,
		"formatTime": func(t time.Time) string { return t.Format(time.RFC3339) },
		"comma":      func(n uint64) string { return humanize.Comma(int64(n)) },
	}
}

// relativeTime renders t as "3 days ago"; unknown times render empty.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}
