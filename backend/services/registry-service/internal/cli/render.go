package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/internal/wizard"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(18)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	currentStepStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// RenderProgress draws the step indicator, e.g. "[x] Station Details > [2] Technical Specs > [3] Verification".
func RenderProgress(progress []wizard.StepProgress) string {
	parts := make([]string, 0, len(progress))
	for _, p := range progress {
		switch p.State {
		case wizard.StepCompleted:
			parts = append(parts, successStyle.Render("[x] "+p.Title))
		case wizard.StepCurrent:
			parts = append(parts, currentStepStyle.Render(fmt.Sprintf("[%d] %s", p.Step, p.Title)))
		default:
			parts = append(parts, dimStyle.Render(fmt.Sprintf("[%d] %s", p.Step, p.Title)))
		}
	}
	return strings.Join(parts, dimStyle.Render(" > "))
}

// RenderSummary draws the verification view.
func RenderSummary(summary station.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Review your station"))
	b.WriteString("\n")
	for _, section := range summary.Sections {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, line := range section.Lines {
			b.WriteString("  ")
			b.WriteString(labelStyle.Render(line.Label))
			b.WriteString(line.Value)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderFieldErrors lists validation messages in field order.
func RenderFieldErrors(verr *station.ValidationError) string {
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	order := make(map[string]int, len(station.Fields))
	for i, f := range station.Fields {
		order[f] = i
	}
	sort.Slice(fields, func(i, j int) bool { return order[fields[i]] < order[fields[j]] })

	var b strings.Builder
	for _, f := range fields {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  %s: %s", f, verr.Fields[f])))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderError styles a one line failure message.
func RenderError(msg string) string {
	return errorStyle.Render(msg)
}

// RenderRegistered confirms a successful registration.
func RenderRegistered(st *station.Station, route string) string {
	msg := fmt.Sprintf("Station %q registered", st.Name)
	if st.ID != "" {
		msg += " (" + st.ID + ")"
	}
	return successStyle.Render(msg) + "\n" + dimStyle.Render("-> "+route)
}
