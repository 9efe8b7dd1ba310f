package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"
)

// writeResult prints the mapping line for res, and the error line beneath it
// when the rename failed.
func writeResult(w io.Writer, res Result) {
	fmt.Fprintln(w, mappingLine(res))
	if res.Outcome == OutcomeFailed && res.Err != nil {
		fmt.Fprintln(w, res.Err.Error())
	}
}

// mappingLine renders `"<original>" -> "<target>"`.
func mappingLine(res Result) string {
	return fmt.Sprintf("\"%s\" -> \"%s\"", res.Entry.Raw, res.Target)
}

// summaryLine renders the one-line batch summary.
func summaryLine(s Summary) string {
	if s.Planned > 0 {
		return fmt.Sprintf("planned %d of %d", s.Planned, s.Total)
	}
	return fmt.Sprintf("renamed %d, failed %d of %d", s.Renamed, s.Failed, s.Total)
}

// printUsage writes the two usage lines.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Syntax: fenum [flags] [--] [files...]")
	fmt.Fprintln(w, "\tEnumerate the given files (starting at 1) in the same order as they are passed (use -- before names starting with -).")
}

// textReport renders the results the way they were streamed, plus the summary.
func textReport(results []Result, summary Summary) string {
	var builder strings.Builder
	for _, res := range results {
		writeResult(&builder, res)
	}
	builder.WriteString(summaryLine(summary))
	builder.WriteString("\n")
	return builder.String()
}

type reportEntry struct {
	Index    int    `yaml:"index"`
	Original string `yaml:"original"`
	Target   string `yaml:"target"`
	Status   string `yaml:"status"`
	Error    string `yaml:"error,omitempty"`
}

type reportSummary struct {
	Total   int `yaml:"total"`
	Renamed int `yaml:"renamed"`
	Failed  int `yaml:"failed"`
	Planned int `yaml:"planned,omitempty"`
}

type report struct {
	Entries []reportEntry `yaml:"entries"`
	Summary reportSummary `yaml:"summary"`
}

// yamlReport renders the results as a YAML document.
func yamlReport(results []Result, summary Summary) (string, error) {
	doc := report{
		Entries: make([]reportEntry, 0, len(results)),
		Summary: reportSummary{
			Total:   summary.Total,
			Renamed: summary.Renamed,
			Failed:  summary.Failed,
			Planned: summary.Planned,
		},
	}
	for _, res := range results {
		entry := reportEntry{
			Index:    res.Index,
			Original: res.Entry.Raw,
			Target:   res.Target,
			Status:   string(res.Outcome),
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		doc.Entries = append(doc.Entries, entry)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("error encoding report: %w", err)
	}
	return string(out), nil
}

// renderReport renders the results in the named format ("text" or "yaml").
func renderReport(format string, results []Result, summary Summary) (string, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return textReport(results, summary), nil
	case "yaml", "yml":
		return yamlReport(results, summary)
	default:
		return "", fmt.Errorf("unsupported report format: %s. Use 'text' or 'yaml'", format)
	}
}

// saveReport writes the rendered report to path.
func saveReport(path, format string, results []Result, summary Summary) error {
	content, err := renderReport(format, results, summary)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("error writing to file %s: %w", path, err)
	}
	return nil
}

// copyReport puts the text report on the system clipboard.
func copyReport(results []Result, summary Summary) error {
	if err := clipboard.WriteAll(textReport(results, summary)); err != nil {
		return fmt.Errorf("error writing to clipboard: %w", err)
	}
	return nil
}
