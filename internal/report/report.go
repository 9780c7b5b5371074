// Package report renders adapter lists, play groups and status for the CLI
// in text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"adapterctl/internal/adapters"
	"adapterctl/internal/play"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Reporter writes command output.
type Reporter struct {
	jsonOutput bool
	verbose    bool
	writer     io.Writer
}

// ReporterOption is a functional option for configuring a Reporter
type ReporterOption func(*Reporter)

// WithJSONOutput enables JSON output format
func WithJSONOutput(jsonOutput bool) ReporterOption {
	return func(r *Reporter) {
		r.jsonOutput = jsonOutput
	}
}

// WithVerboseOutput enables verbose output
func WithVerboseOutput(verbose bool) ReporterOption {
	return func(r *Reporter) {
		r.verbose = verbose
	}
}

// NewReporter creates a reporter writing to writer.
func NewReporter(writer io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{writer: writer}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSON reports whether the reporter emits JSON.
func (r *Reporter) JSON() bool {
	return r.jsonOutput
}

func (r *Reporter) writeJSON(output interface{}) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func (r *Reporter) writeText(s string) error {
	_, err := io.WriteString(r.writer, s)
	return err
}

// OptionLists is the JSON shape of `list`.
type OptionLists struct {
	Available  []adapters.Option `json:"available,omitempty"`
	Configured []adapters.Option `json:"configured,omitempty"`
}

// Options writes one or both option lists. A nil list is skipped.
func (r *Reporter) Options(available, configured []adapters.Option) error {
	if r.jsonOutput {
		return r.writeJSON(OptionLists{Available: available, Configured: configured})
	}

	var sb strings.Builder
	if available != nil {
		writeOptions(&sb, "Available adapters", available)
	}
	if configured != nil {
		if available != nil {
			sb.WriteString("\n")
		}
		writeOptions(&sb, "Configured adapters", configured)
	}
	return r.writeText(sb.String())
}

func writeOptions(sb *strings.Builder, title string, opts []adapters.Option) {
	sb.WriteString(headingStyle.Render(title) + "\n")
	if len(opts) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return
	}
	for _, o := range opts {
		mark := "✅"
		if !o.Pingable {
			mark = "❌"
		}
		sb.WriteString(fmt.Sprintf("  %s %-32s %s\n", mark, o.Label, dimStyle.Render(o.Value)))
	}
}

// Adapters writes the configured adapter chips.
func (r *Reporter) Adapters(list []adapters.Adapter) error {
	if r.jsonOutput {
		if list == nil {
			list = []adapters.Adapter{}
		}
		return r.writeJSON(list)
	}

	var sb strings.Builder
	sb.WriteString(headingStyle.Render("Adapters") + "\n")
	if len(list) == 0 {
		sb.WriteString(dimStyle.Render("  (none configured)") + "\n")
	}
	for _, a := range list {
		sb.WriteString(fmt.Sprintf("  %-24s %-16s %s\n", a.Location, a.Name, a.Version))
		if r.verbose {
			sb.WriteString(dimStyle.Render("    "+a.Tooltip()) + "\n")
		}
	}
	return r.writeText(sb.String())
}

// Play writes the operation groups of a selected adapter.
func (r *Reporter) Play(s play.Summary) error {
	if r.jsonOutput {
		return r.writeJSON(s)
	}

	var sb strings.Builder
	title := fmt.Sprintf("%s (%s)", adapters.DisplayName(s.Adapter.Name), s.Adapter.Location)
	sb.WriteString(headingStyle.Render(title) + "\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%d adapter(s) named %s", s.Count, s.Adapter.Name)) + "\n")
	if len(s.Groups) == 0 {
		sb.WriteString("\n  No operations available.\n")
	}
	for _, g := range s.Groups {
		sb.WriteString("\n" + g.Name + ":\n")
		for _, op := range g.Ops {
			sb.WriteString(fmt.Sprintf("  • %s", op.Value))
			if r.verbose {
				sb.WriteString(dimStyle.Render(" [" + op.Key + "]"))
			}
			sb.WriteString("\n")
		}
	}
	return r.writeText(sb.String())
}

// Status is the data printed by `status`.
type Status struct {
	Server          string `json:"server"`
	ServerReachable bool   `json:"serverReachable"`
	Error           string `json:"error,omitempty"`
	ProbeMode       string `json:"probeMode"`
	ProbeTimeout    string `json:"probeTimeout"`
	Adapters        int    `json:"adapters"`
	Available       int    `json:"available"`
	AvailableUp     int    `json:"availableReachable"`
	Configured      int    `json:"configured"`
	ConfiguredUp    int    `json:"configuredReachable"`
	SelectedAdapter string `json:"selectedAdapter,omitempty"`
	CurrentAdapter  string `json:"currentAdapter,omitempty"`
	ConfigPath      string `json:"configPath"`
}

// Status writes a status summary.
func (r *Reporter) Status(s Status) error {
	if r.jsonOutput {
		return r.writeJSON(s)
	}

	var sb strings.Builder
	server := "✅ reachable"
	if !s.ServerReachable {
		server = "❌ unreachable"
	}
	sb.WriteString(headingStyle.Render("adapterctl status") + "\n\n")
	sb.WriteString(fmt.Sprintf("  Server:      %s (%s)\n", s.Server, server))
	if s.Error != "" {
		sb.WriteString(fmt.Sprintf("  Error:       %s\n", s.Error))
	}
	sb.WriteString(fmt.Sprintf("  Probe:       %s, timeout %s\n", s.ProbeMode, s.ProbeTimeout))
	sb.WriteString(fmt.Sprintf("  Adapters:    %d configured on the server\n", s.Adapters))
	sb.WriteString(fmt.Sprintf("  Available:   %d/%d reachable\n", s.AvailableUp, s.Available))
	sb.WriteString(fmt.Sprintf("  Configured:  %d/%d reachable\n", s.ConfiguredUp, s.Configured))
	selected := s.SelectedAdapter
	if selected == "" {
		selected = "(none)"
	}
	sb.WriteString(fmt.Sprintf("  Selected:    %s\n", selected))
	if s.CurrentAdapter != "" {
		sb.WriteString(fmt.Sprintf("  Current:     %s\n", s.CurrentAdapter))
	}
	if r.verbose {
		sb.WriteString(fmt.Sprintf("  Config file: %s\n", s.ConfigPath))
	}
	return r.writeText(sb.String())
}

// Catalog writes the known adapter catalog.
func (r *Reporter) Catalog(list []adapters.Known) error {
	if r.jsonOutput {
		return r.writeJSON(list)
	}

	var sb strings.Builder
	sb.WriteString(headingStyle.Render("Known adapters") + "\n")
	for _, k := range list {
		sb.WriteString(fmt.Sprintf("  %-20s %s\n", k.Name, k.Location()))
	}
	return r.writeText(sb.String())
}

// Result is the JSON shape of a single action outcome.
type Result struct {
	OK       bool               `json:"ok"`
	Message  string             `json:"message"`
	Adapters []adapters.Adapter `json:"adapters,omitempty"`
}

// Result writes the outcome of configure, remove, ping or select.
func (r *Reporter) Result(res Result) error {
	if r.jsonOutput {
		return r.writeJSON(res)
	}
	mark := "✅"
	if !res.OK {
		mark = "❌"
	}
	return r.writeText(fmt.Sprintf("%s %s\n", mark, res.Message))
}
