// Package terminal renders prediction results for the command line.
package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/edgard/studentpredictor/internal/predictor"
)

const barWidth = 30

var (
	colorHigh   = lipgloss.Color("#22c55e")
	colorMedium = lipgloss.Color("#3b82f6")
	colorLow    = lipgloss.Color("#ef4444")
	colorMuted  = lipgloss.Color("#6b7280")
	colorBorder = lipgloss.Color("#4b5563")
)

// Styles holds the lipgloss styles used by the renderers.
type Styles struct {
	Box     lipgloss.Style
	Title   lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// NewStyles returns the default styles.
func NewStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder),

		Title: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),

		Heading: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),

		Error: lipgloss.NewStyle().
			Foreground(colorLow).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(colorHigh).
			Bold(true),
	}
}

func classColor(level string) lipgloss.Color {
	switch level {
	case "alto":
		return colorHigh
	case "bajo":
		return colorLow
	default:
		return colorMedium
	}
}

// Prediction renders a successful prediction: class, confidence, one bar
// per class in API order, key factors and recommendations.
func (s Styles) Prediction(p *predictor.Prediction) string {
	var b strings.Builder

	title := strings.TrimSpace(fmt.Sprintf("%s Rendimiento %s", p.Emoji(), p.Class))
	b.WriteString(s.Title.Foreground(classColor(p.Level())).Render(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Confianza: %s%%\n\n", percent(p.Confidence))

	b.WriteString(s.Heading.Render("Probabilidades"))
	b.WriteString("\n")
	labelWidth := 0
	for _, cp := range p.Probabilities {
		labelWidth = max(labelWidth, lipgloss.Width(cp.Class))
	}
	for _, cp := range p.Probabilities {
		bar := lipgloss.NewStyle().Foreground(classColor(cp.Level())).Render(Bar(cp.Probability, barWidth))
		fmt.Fprintf(&b, "%-*s %s %6s%%\n", labelWidth, cp.Class, bar, percent(cp.Probability))
	}

	if len(p.KeyFactors) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Heading.Render("Factores clave"))
		b.WriteString("\n")
		writeList(&b, p.KeyFactors)
	}

	b.WriteString("\n")
	b.WriteString(s.Heading.Render("Recomendaciones"))
	b.WriteString("\n")
	writeList(&b, p.RecommendationsOrDefault())

	return s.Box.Render(strings.TrimRight(b.String(), "\n"))
}

// Failure renders the single error message shown for a failed submission.
func (s Styles) Failure(message string) string {
	return s.Box.BorderForeground(colorLow).Render(s.Error.Render("Error") + "\n" + message)
}

// Health renders the API health and, when available, the model metadata.
func (s Styles) Health(h *predictor.HealthStatus, info *predictor.ModelInfo) string {
	var b strings.Builder

	if h.Healthy() {
		b.WriteString(s.Success.Render("Servicio disponible"))
	} else {
		b.WriteString(s.Error.Render("Servicio no disponible"))
	}
	b.WriteString("\n")
	if h != nil {
		fmt.Fprintf(&b, "Estado: %s\n", h.Status)
		fmt.Fprintf(&b, "Modelo cargado: %t\n", h.ModelLoaded)
		if h.Message != "" {
			b.WriteString(s.Muted.Render(h.Message))
			b.WriteString("\n")
		}
	}

	if info != nil {
		b.WriteString("\n")
		b.WriteString(s.Heading.Render(info.Model))
		b.WriteString("\n")
		if info.Description != "" {
			b.WriteString(info.Description)
			b.WriteString("\n")
		}
		for _, m := range info.Metrics {
			fmt.Fprintf(&b, "%s: %s\n", m.Name, m.Value)
		}
		if len(info.Classes) > 0 {
			fmt.Fprintf(&b, "Clases: %s\n", strings.Join(info.Classes, ", "))
		}
	}

	return s.Box.Render(strings.TrimRight(b.String(), "\n"))
}

// Bar draws a horizontal bar of width cells filled in proportion to v,
// clamped to [0,1].
func Bar(v float64, width int) string {
	if width <= 0 {
		return ""
	}
	v = math.Max(0, math.Min(1, v))
	filled := int(math.Round(v * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f", v*100)
}

func writeList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "• %s\n", item)
	}
}
