package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/devicelab-dev/casesheet/pkg/core"
	"github.com/devicelab-dev/casesheet/pkg/testcase"
)

// HTMLConfig contains configuration for HTML report generation.
type HTMLConfig struct {
	Title       string    // Report title (default: "Test Execution Report")
	GeneratedAt time.Time // Shown in the header (default: now)
}

// HTMLData contains all data needed for the HTML template.
type HTMLData struct {
	Title       string
	GeneratedAt string
	Source      string
	Sheet       string
	Fields      []string
	Summary     testcase.Summary
	Cases       []CaseHTMLData
}

// CaseHTMLData is one case row.
type CaseHTMLData struct {
	StatusClass string
	Values      []string
	Steps       []StepHTMLData
}

// StepHTMLData is one row of a case's steps table.
type StepHTMLData struct {
	Text          string
	Expected      string
	Actual        string
	Result        string
	Screenshot    template.URL
	HasScreenshot bool
}

// GenerateHTML renders the report for d.
func GenerateHTML(d Data, cfg HTMLConfig) (string, error) {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.GeneratedAt.IsZero() {
		cfg.GeneratedAt = time.Now()
	}

	html, err := renderHTML(buildHTMLData(d, cfg))
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return html, nil
}

// WriteHTML renders the report and writes it to path.
func WriteHTML(path string, d Data, cfg HTMLConfig) error {
	html, err := GenerateHTML(d, cfg)
	if err != nil {
		return err
	}
	if err := atomicWrite(path, []byte(html)); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

func buildHTMLData(d Data, cfg HTMLConfig) HTMLData {
	fields := d.Fields()
	cases := make([]CaseHTMLData, len(d.Cases))
	for i := range d.Cases {
		tc := &d.Cases[i]
		values := make([]string, len(fields))
		for j, f := range fields {
			values[j] = tc.Value(f)
		}
		steps := make([]StepHTMLData, len(tc.Steps))
		for j, s := range tc.Steps {
			step := StepHTMLData{
				Text:     s.Text,
				Expected: s.Expected,
				Actual:   s.Actual,
				Result:   string(s.Result),
			}
			// Only inline images are embedded; anything else would make
			// the report depend on an external reference.
			if core.IsImageDataURL(s.Screenshot) {
				step.Screenshot = template.URL(s.Screenshot)
				step.HasScreenshot = true
			}
			steps[j] = step
		}
		cases[i] = CaseHTMLData{
			StatusClass: tc.Status().String(),
			Values:      values,
			Steps:       steps,
		}
	}

	return HTMLData{
		Title:       cfg.Title,
		GeneratedAt: cfg.GeneratedAt.Format("2006-01-02 15:04:05"),
		Source:      d.Source,
		Sheet:       d.Sheet,
		Fields:      fields,
		Summary:     testcase.Summarize(d.Cases),
		Cases:       cases,
	}
}

func renderHTML(data HTMLData) (string, error) {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; }
        table { border-collapse: collapse; width: 100%; }
        th, td { border: 1px solid #ccc; padding: 8px; vertical-align: top; }
        th { background: #f0f0f0; }
        img { max-width: 100px; max-height: 60px; display: block; cursor: pointer; }
        .passed { background: #d4edda; }
        .failed { background: #f8d7da; }
        .skipped { background: #fff3cd; }
        .steps-table { margin: 8px 0; }
        .steps-table th, .steps-table td { font-size: 13px; }
        .summary span { margin-right: 16px; }
        .meta { color: #666; font-size: 13px; }
    </style>
</head>
<body>
    <h2>{{.Title}}</h2>
    <p class="meta">Generated {{.GeneratedAt}}{{if .Source}} from {{.Source}}{{end}}{{if .Sheet}} ({{.Sheet}}){{end}}</p>
    <p class="summary">
        <span>Total: {{.Summary.Total}}</span>
        <span>Passed: {{.Summary.Passed}}</span>
        <span>Failed: {{.Summary.Failed}}</span>
        <span>Skipped: {{.Summary.Skipped}}</span>
    </p>
    <table>
        <thead>
            <tr>{{range .Fields}}<th>{{.}}</th>{{end}}<th>Test Steps</th></tr>
        </thead>
        <tbody>
        {{- range .Cases}}
            <tr class="{{.StatusClass}}">
                {{- range .Values}}<td>{{.}}</td>{{end}}
                <td>
                    <table class="steps-table">
                        <thead><tr><th>Step</th><th>Expected Result</th><th>Actual Result</th><th>Screenshot</th><th>Step Result</th></tr></thead>
                        <tbody>
                        {{- range .Steps}}
                            <tr{{if .Result}} class="{{.Result}}"{{end}}>
                                <td>{{.Text}}</td>
                                <td>{{.Expected}}</td>
                                <td>{{.Actual}}</td>
                                <td>{{if .HasScreenshot}}<img src="{{.Screenshot}}" alt="Screenshot">{{end}}</td>
                                <td>{{.Result}}</td>
                            </tr>
                        {{- end}}
                        </tbody>
                    </table>
                </td>
            </tr>
        {{- end}}
        </tbody>
    </table>
    <script>
        document.querySelectorAll('img').forEach(function (img) {
            img.onclick = function () {
                var w = window.open();
                w.document.write('<img src="' + img.src + '" style="max-width:100%">');
            };
        });
    </script>
</body>
</html>
`
