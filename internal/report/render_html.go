package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"strconv"
	"strings"
	texttemplate "text/template" // nosemgrep

	"powerview/internal/table"
)

// customHTMLRenderers holds the renderers of tables that need more than the default table
var customHTMLRenderers = map[string]table.HTMLTableRenderer{}

// RegisterHTMLRenderer registers a custom HTML renderer for the named table
func RegisterHTMLRenderer(tableName string, renderer table.HTMLTableRenderer) {
	customHTMLRenderers[tableName] = renderer
}

// MultiTargetHTMLRenderer renders the same single-value table of several reports
type MultiTargetHTMLRenderer func(tableValues []table.TableValues, targetNames []string) string

var customMultiTargetHTMLRenderers = map[string]MultiTargetHTMLRenderer{}

// RegisterMultiTargetHTMLRenderer registers the renderer used for the named table
// when several reports are rendered side by side
func RegisterMultiTargetHTMLRenderer(tableName string, renderer MultiTargetHTMLRenderer) {
	customMultiTargetHTMLRenderers[tableName] = renderer
}

type htmlMenuItem struct {
	Anchor string
	Label  string
}

type htmlSection struct {
	Anchor string
	Title  string
	Body   htmltemplate.HTML
}

type htmlPage struct {
	Target   string
	Menu     []htmlMenuItem
	Sections []htmlSection
}

var pageTemplate = htmltemplate.Must(htmltemplate.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>PowerView{{if .Target}} - {{.Target}}{{end}}</title>
<link rel="stylesheet" href="https://unpkg.com/normalize.css@8.0.1/normalize.css" integrity="sha384-M86HUGbBFILBBZ9ykMAbT3nVb0+2C7yZlF8X2CiKNpDOQjKroMJqIeGZ/Le8N2Qp" crossorigin="anonymous" referrerpolicy="no-referrer">
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/purecss@3.0.0/build/pure-min.css" integrity="sha384-X38yfunGUhNzHpBaEBsWLO+A0HDYOQi8ufWDkZ0k9e0eXz/tH3II7uKZ9msv++Ls" crossorigin="anonymous" referrerpolicy="no-referrer">
<script src="https://unpkg.com/chart.js@3.7.1/dist/chart.min.js" integrity="sha384-7NrRHqlWUj2hJl3a/dZj/a1GxuQc56mJ3aYsEnydBYrY1jR+RSt6SBvK3sHfj+mJ" crossorigin="anonymous" referrerpolicy="no-referrer"></script>
<style>
body { display: flex; }
nav.menu { position: sticky; top: 0; height: 100vh; min-width: 200px; overflow-y: auto; padding: 1em 0; background: #1d2733; }
nav.menu span { display: block; padding: 0 1em 0.5em; color: #fff; font-weight: bold; }
nav.menu a { display: block; padding: 0.15em 1em; color: #a9b4c0; text-decoration: none; }
nav.menu a:hover { color: #fff; }
main.content { flex: 1; padding: 0 2em 2em; line-height: 1.6em; }
main.content h2 { font-weight: 300; color: #3b6ea5; border-bottom: 1px solid #ddd; }
main.content p.target { color: #666; }
.field-description { position: relative; display: inline-block; margin-left: 5px; cursor: help; }
.field-description .tooltip-text { visibility: hidden; position: absolute; z-index: 10; bottom: 125%; left: 0; width: 250px; padding: 8px; border-radius: 6px; background: #333; color: #fff; font-size: 12px; }
.field-description:hover .tooltip-text { visibility: visible; }
</style>
</head>
<body>
{{- if .Menu}}
<nav class="menu"><span>Contents</span>
{{range .Menu}}<a href="#{{.Anchor}}">{{.Label}}</a>
{{end}}</nav>
{{- end}}
<main class="content">
<h1>PowerView</h1>
{{if .Target}}<p class="target">{{.Target}}</p>
{{end}}
{{- range .Sections}}<section>
<h2 id="{{.Anchor}}">{{.Title}}</h2>
{{.Body}}
</section>
{{end}}</main>
</body>
</html>
`))

// htmlMenu lists the tables that have a menu label
func htmlMenu(allTableValues []table.TableValues) []htmlMenuItem {
	menu := []htmlMenuItem{}
	for _, tableValues := range allTableValues {
		if tableValues.MenuLabel != "" {
			menu = append(menu, htmlMenuItem{Anchor: anchor(tableValues.Name), Label: tableValues.MenuLabel})
		}
	}
	return menu
}

func renderHtmlPage(page htmlPage) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to render html page: %w", err)
	}
	return buf.Bytes(), nil
}

// renderHtmlTableBody renders one table of one report, custom renderer first
func renderHtmlTableBody(tableValues table.TableValues, targetName string) string {
	if !tableValues.HasData() {
		return "<p>" + htmltemplate.HTMLEscapeString(noDataMessage(tableValues)) + "</p>\n"
	}
	if renderer, ok := customHTMLRenderers[tableValues.Name]; ok {
		return renderer(tableValues, targetName)
	}
	return DefaultHTMLTableRendererFunc(tableValues)
}

func createHtmlReport(allTableValues []table.TableValues, targetName string) (out []byte, err error) {
	page := htmlPage{Target: targetName, Menu: htmlMenu(allTableValues)}
	for _, tableValues := range allTableValues {
		page.Sections = append(page.Sections, htmlSection{
			Anchor: anchor(tableValues.Name),
			Title:  tableValues.Name,
			Body:   htmltemplate.HTML(renderHtmlTableBody(tableValues, targetName)), // #nosec G203 values are escaped by the renderers
		})
	}
	return renderHtmlPage(page)
}

func createHtmlReportMultiTarget(allTargetsTableValues [][]table.TableValues, targetNames []string, allTableNames []string) (out []byte, err error) {
	if len(allTargetsTableValues) == 0 {
		return nil, fmt.Errorf("no target table values provided")
	}
	page := htmlPage{Menu: htmlMenu(allTargetsTableValues[0])}
	for _, tableName := range allTableNames {
		tableValues, tableTargets := tablesForName(allTargetsTableValues, targetNames, tableName)
		if len(tableValues) == 0 {
			continue
		}
		var body strings.Builder
		if !tableValues[0].HasRows {
			// single-value tables are rendered side by side
			if renderer, ok := customMultiTargetHTMLRenderers[tableName]; ok {
				body.WriteString(renderer(tableValues, tableTargets))
			} else {
				body.WriteString(renderMultiTargetHtmlTable(tableValues, tableTargets))
			}
		} else {
			for i, targetTableValues := range tableValues {
				fmt.Fprintf(&body, "<h3>%s</h3>\n", htmltemplate.HTMLEscapeString(tableTargets[i]))
				body.WriteString(renderHtmlTableBody(targetTableValues, tableTargets[i]))
			}
		}
		page.Sections = append(page.Sections, htmlSection{
			Anchor: anchor(tableName),
			Title:  tableName,
			Body:   htmltemplate.HTML(body.String()), // #nosec G203 values are escaped by the renderers
		})
	}
	return renderHtmlPage(page)
}

// fieldLabel renders a field name with its description, if any, as a tooltip
func fieldLabel(name, description string) string {
	label := htmltemplate.HTMLEscapeString(name)
	if description == "" {
		return label
	}
	return label + `<span class="field-description">?<span class="tooltip-text">` + htmltemplate.HTMLEscapeString(description) + `</span></span>`
}

// renderHtmlTable writes a pure.css table. headers and cells hold HTML, callers
// escape values. With labelColumn set the first cell of each row is bold.
func renderHtmlTable(headers []string, rows [][]string, labelColumn bool) string {
	var sb strings.Builder
	sb.WriteString(`<table class="pure-table pure-table-striped">`)
	if len(headers) > 0 {
		sb.WriteString(`<thead><tr>`)
		for _, header := range headers {
			sb.WriteString(`<th>` + header + `</th>`)
		}
		sb.WriteString(`</tr></thead>`)
	}
	sb.WriteString(`<tbody>`)
	for _, row := range rows {
		sb.WriteString(`<tr>`)
		for i, cell := range row {
			if labelColumn && i == 0 {
				sb.WriteString(`<td style="font-weight:bold">` + cell + `</td>`)
				continue
			}
			sb.WriteString(`<td>` + cell + `</td>`)
		}
		sb.WriteString(`</tr>`)
	}
	sb.WriteString("</tbody></table>\n")
	return sb.String()
}

// DefaultHTMLTableRendererFunc renders row tables with the field names across the
// top and single-value tables as name/value pairs.
func DefaultHTMLTableRendererFunc(tableValues table.TableValues) string {
	if tableValues.HasRows {
		headers := make([]string, 0, len(tableValues.Fields))
		for _, field := range tableValues.Fields {
			headers = append(headers, fieldLabel(field.Name, field.Description))
		}
		rows := [][]string{}
		for row := range tableValues.Fields[0].Values {
			cells := make([]string, 0, len(tableValues.Fields))
			for _, field := range tableValues.Fields {
				cells = append(cells, htmltemplate.HTMLEscapeString(field.Values[row]))
			}
			rows = append(rows, cells)
		}
		return renderHtmlTable(headers, rows, false)
	}
	rows := make([][]string, 0, len(tableValues.Fields))
	for _, field := range tableValues.Fields {
		value := ""
		if len(field.Values) > 0 {
			value = htmltemplate.HTMLEscapeString(field.Values[0])
		}
		rows = append(rows, []string{fieldLabel(field.Name, field.Description), value})
	}
	return renderHtmlTable(nil, rows, true)
}

// renderMultiTargetHtmlTable renders the same single-value table of several reports,
// one column per report
func renderMultiTargetHtmlTable(tableValues []table.TableValues, targetNames []string) string {
	headers := []string{""}
	for _, targetName := range targetNames {
		headers = append(headers, htmltemplate.HTMLEscapeString(targetName))
	}
	rows := [][]string{}
	for fieldIndex, field := range tableValues[0].Fields {
		row := []string{fieldLabel(field.Name, field.Description)}
		for _, targetTableValues := range tableValues {
			value := ""
			if fieldIndex < len(targetTableValues.Fields) && len(targetTableValues.Fields[fieldIndex].Values) > 0 {
				value = htmltemplate.HTMLEscapeString(targetTableValues.Fields[fieldIndex].Values[0])
			}
			row = append(row, value)
		}
		rows = append(rows, row)
	}
	return renderHtmlTable(headers, rows, true)
}

// BarChart configures a horizontal chart.js bar chart.
type BarChart struct {
	ID          string // canvas element id
	XAxisLabel  string
	Title       string // no title when empty
	ShowLegend  bool
	AspectRatio float64
}

type chartDataset struct {
	Label string
	Data  string
	Color string
}

var barChartTemplate = texttemplate.Must(texttemplate.New("barChart").Funcs(texttemplate.FuncMap{
	"js": htmltemplate.JSEscapeString,
}).Parse(`<div class="chart" style="max-width: 900px">
<canvas id="{{.ID}}"></canvas>
</div>
<script>
new Chart(document.getElementById('{{js .ID}}'), {
	type: 'bar',
	data: {
		labels: [{{range $i, $label := .Labels}}{{if $i}},{{end}}'{{js $label}}'{{end}}],
		datasets: [{{range $i, $ds := .Datasets}}{{if $i}},{{end}}{
			label: '{{js $ds.Label}}',
			data: [{{$ds.Data}}],
			backgroundColor: '{{$ds.Color}}',
			borderColor: '{{$ds.Color}}',
			borderWidth: 1
		}{{end}}]
	},
	options: {
		aspectRatio: {{.AspectRatio}},
		indexAxis: 'y',
		scales: {x: {beginAtZero: true, title: {text: '{{js .XAxisLabel}}', display: true}}},
		plugins: {
			title: {text: '{{js .Title}}', display: {{ne .Title ""}}, font: {size: 18}},
			legend: {display: {{.ShowLegend}}}
		}
	}
});
</script>
`))

// color-blind safe palette, http://mkweb.bcgsc.ca/colorblind/palettes.mhtml
var chartColors = []string{"#9F0162", "#009F81", "#FF5AAF", "#00FCCF", "#8400CD", "#008DF9", "#00C2F9", "#FFB2FD", "#A40122", "#E20134", "#FF6E3A", "#FFC33B"}

// RenderBarChart renders a bar chart with one dataset per entry in data.
func RenderBarChart(data [][]float64, datasetNames []string, labels []string, chart BarChart) string {
	datasets := make([]chartDataset, 0, len(data))
	for i, values := range data {
		points := make([]string, 0, len(values))
		for _, value := range values {
			points = append(points, strconv.FormatFloat(value, 'g', -1, 64))
		}
		name := ""
		if i < len(datasetNames) {
			name = datasetNames[i]
		}
		datasets = append(datasets, chartDataset{Label: name, Data: strings.Join(points, ","), Color: chartColors[i%len(chartColors)]})
	}
	var buf bytes.Buffer
	err := barChartTemplate.Execute(&buf, struct {
		BarChart
		Labels   []string
		Datasets []chartDataset
	}{chart, labels, datasets})
	if err != nil {
		slog.Error("error executing template", slog.String("error", err.Error()))
		return "Error rendering chart."
	}
	return buf.String()
}
