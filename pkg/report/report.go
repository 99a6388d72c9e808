// Package report renders an aggregated scan result as a standalone HTML
// document or as JSON.
package report

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pyneda/kansa/pkg/scan"
)

//go:embed templates/*
var templates embed.FS

type ReportFormat string

const (
	ReportFormatHTML ReportFormat = "html"
	ReportFormatJSON ReportFormat = "json"
)

// ParseFormat maps a user-supplied format string to a ReportFormat.
func ParseFormat(value string) (ReportFormat, error) {
	switch strings.ToLower(value) {
	case "", "html":
		return ReportFormatHTML, nil
	case "json":
		return ReportFormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", value)
	}
}

type ReportOptions struct {
	Result scan.AggregatedResult
	Title  string
	Format ReportFormat
}

func GenerateReport(options ReportOptions, w io.Writer) error {
	if options.Title == "" {
		options.Title = "Accessibility Scan Report"
	}
	switch options.Format {
	case ReportFormatHTML:
		return generateHTMLReport(options, w)
	case ReportFormatJSON:
		return generateJSONReport(options, w)
	default:
		return errors.New("invalid report format")
	}
}

func generateHTMLReport(options ReportOptions, w io.Writer) error {
	funcMap := template.FuncMap{
		"severityClass": func(s interface{}) string { return strings.ToLower(fmt.Sprintf("%v", s)) },
		"joinWCAG":      joinWCAG,
		"formatScore":   func(score float64) string { return fmt.Sprintf("%.1f", score) },
	}

	tmpl, err := template.New("report.tmpl").Funcs(funcMap).ParseFS(templates, "templates/report.tmpl")
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse report template")
		return err
	}

	data := HTMLReportData{
		Title:           options.Title,
		ScanID:          options.Result.ScanID,
		Summary:         generateSummary(options.Result),
		GroupedFindings: groupFindings(options.Result.Findings),
		ScannerNames:    scannerNames(options.Result),
		GeneratedAt:     time.Now().Format("2006-01-02 15:04:05"),
	}

	if err := tmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Failed to execute report template")
		return err
	}
	return nil
}

func generateJSONReport(options ReportOptions, w io.Writer) error {
	data := map[string]interface{}{
		"title":            options.Title,
		"generated_at":     time.Now().Format(time.RFC3339),
		"summary":          generateSummary(options.Result),
		"grouped_findings": groupFindings(options.Result.Findings),
		"result":           options.Result,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
