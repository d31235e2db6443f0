package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/particle"
	"github.com/wesleyorama2/burstbench/internal/timing"
)

// htmlData contains all data needed to render the HTML report.
type htmlData struct {
	Name       string
	Summary    *timing.Summary
	SeriesJSON template.JS
}

// series is one strategy's initiation times for the chart.
type series struct {
	Label  string    `json:"label"`
	Color  string    `json:"color"`
	Millis []float64 `json:"millis"`
}

// GenerateHTML renders a report of the summary and the records behind it
// and writes it to path.
func GenerateHTML(name string, sum *timing.Summary, records []timing.Record, path string) error {
	html, err := GenerateHTMLString(name, sum, records)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}

// GenerateHTMLString renders the HTML report as a string.
func GenerateHTMLString(name string, sum *timing.Summary, records []timing.Record) (string, error) {
	if sum == nil {
		return "", fmt.Errorf("summary cannot be nil")
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"label":   Label,
		"seconds": formatSeconds,
		"number":  func(n int) string { return formatNumber(int64(n)) },
	}).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	seriesJSON, err := chartSeries(sum, records)
	if err != nil {
		return "", fmt.Errorf("failed to convert records: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, htmlData{
		Name:       name,
		Summary:    sum,
		SeriesJSON: template.JS(seriesJSON),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// chartSeries groups records by strategy in summary order. Each series is
// drawn in the first color of its strategy's palette.
func chartSeries(sum *timing.Summary, records []timing.Record) (string, error) {
	byTag := make(map[burst.Tag][]float64)
	for _, rec := range records {
		byTag[rec.Strategy] = append(byTag[rec.Strategy], rec.ElapsedSeconds()*1000)
	}

	out := make([]series, 0, len(sum.Strategies))
	for _, ss := range sum.Strategies {
		s := series{Label: Label(ss.Strategy), Color: "#888888", Millis: byTag[ss.Strategy]}
		if s.Millis == nil {
			s.Millis = []float64{}
		}
		if p := burst.Palettes[ss.Strategy]; len(p) > 0 {
			s.Color = hexColor(p[0])
		}
		out = append(out, s)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "[]", err
	}
	return string(b), nil
}

func hexColor(c particle.Color) string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}} - Burst Initiation Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f8fafc; color: #1e293b; margin: 0; }
        .container { max-width: 1100px; margin: 0 auto; padding: 2rem; }
        h1 { margin-bottom: 0.25rem; }
        .muted { color: #64748b; }
        .cards { display: flex; gap: 1rem; margin: 1.5rem 0; }
        .card { background: #fff; border: 1px solid #e2e8f0; border-radius: 8px; padding: 1rem 1.5rem; flex: 1; }
        .card .value { font-size: 1.5rem; font-weight: 600; }
        table { width: 100%; border-collapse: collapse; background: #fff; border: 1px solid #e2e8f0; }
        th, td { padding: 0.5rem 0.75rem; text-align: right; border-bottom: 1px solid #e2e8f0; }
        th:first-child, td:first-child { text-align: left; }
        .chart { background: #fff; border: 1px solid #e2e8f0; border-radius: 8px; padding: 1rem; margin-top: 1.5rem; }
    </style>
</head>
<body>
<div class="container">
    <h1>{{.Name}}</h1>
    <div class="muted">Generated {{.Summary.Timestamp.Format "2006-01-02 15:04:05"}}</div>

    <div class="cards">
        <div class="card"><div class="muted">Total Bursts</div><div class="value">{{number .Summary.TotalBursts}}</div></div>
        <div class="card"><div class="muted">Overall Average</div><div class="value">{{seconds .Summary.OverallAverage}}</div></div>
    </div>

    <table>
        <thead>
            <tr><th>Strategy</th><th>Bursts</th><th>Avg</th><th>Min</th><th>P50</th><th>P90</th><th>P99</th><th>Max</th></tr>
        </thead>
        <tbody>
        {{range .Summary.Strategies}}
            <tr>
                <td>{{label .Strategy}}</td>
                <td>{{number .Count}}</td>
                <td>{{seconds .Average}}</td>
                <td>{{seconds .Min}}</td>
                <td>{{seconds .P50}}</td>
                <td>{{seconds .P90}}</td>
                <td>{{seconds .P99}}</td>
                <td>{{seconds .Max}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>

    <div class="chart"><canvas id="burstChart" height="110"></canvas></div>
</div>
<script>
    const series = {{.SeriesJSON}};
    const longest = Math.max(0, ...series.map(s => s.millis.length));
    new Chart(document.getElementById('burstChart'), {
        type: 'line',
        data: {
            labels: Array.from({length: longest}, (_, i) => i + 1),
            datasets: series.map(s => ({
                label: s.label,
                data: s.millis,
                borderColor: s.color,
                backgroundColor: s.color,
                tension: 0.2,
                pointRadius: 2
            }))
        },
        options: {
            plugins: { title: { display: true, text: 'Initiation time per burst (ms)' } },
            scales: { x: { title: { display: true, text: 'Burst' } }, y: { beginAtZero: true } }
        }
    });
</script>
</body>
</html>
`
