// Package report renders evaluation reports for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/chromactl/internal/evaluate"
)

const maxContentWidth = 88

// styles groups the lipgloss styles used by the renderer.
type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	id     lipgloss.Style
	topic  lipgloss.Style
	good   lipgloss.Style
	mid    lipgloss.Style
	poor   lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{
			header: plain, label: plain, id: plain, topic: plain,
			good: plain, mid: plain, poor: plain, muted: plain,
		}
	}
	return styles{
		header: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "39"}),
		label: lipgloss.NewStyle().Bold(true),
		id:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "54", Dark: "141"}),
		topic: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "84"}),
		good:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "82"}),
		mid:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"}),
		poor:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "203"}),
		muted: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "243", Dark: "245"}),
	}
}

// Renderer writes evaluation reports.
type Renderer struct {
	w  io.Writer
	st styles
}

// NewRenderer creates a renderer; color disables all styling when false.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, st: newStyles(color)}
}

// Render writes one query report.
func (r *Renderer) Render(rep evaluate.Report) {
	rule := strings.Repeat("=", 30)
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.st.muted.Render(rule))
	fmt.Fprintf(r.w, "%s %s\n", r.st.label.Render("Query:"), r.st.header.Render(rep.Query))
	if len(rep.Keywords) > 0 {
		fmt.Fprintf(r.w, "%s %s\n",
			r.st.label.Render("Keywords:"), r.st.muted.Render(strings.Join(rep.Keywords, ", ")))
	}

	if len(rep.Hits) == 0 {
		fmt.Fprintln(r.w, r.st.poor.Render("No results returned."))
		fmt.Fprintf(r.w, "%s %s\n", r.st.label.Render("Notes:"), rep.Notes)
		return
	}

	fmt.Fprintf(r.w, "Results (top %d):\n", len(rep.Hits))
	for i, h := range rep.Hits {
		fmt.Fprintf(r.w, "#%d -> %s  %s\n",
			i+1, r.st.id.Render(h.ID), r.st.topic.Render("["+h.Topic+"]"))
		fmt.Fprintf(r.w, "      %s\n", truncate(h.Content, maxContentWidth))
		fmt.Fprintf(r.w, "      apparent relevance (0-5): %s", r.scoreStyle(h.Score).Render(fmt.Sprint(h.Score)))
		if len(h.Matched) > 0 {
			fmt.Fprintf(r.w, "  %s", r.st.muted.Render("matched: "+strings.Join(h.Matched, ", ")))
		}
		fmt.Fprintln(r.w)
	}

	fmt.Fprintf(r.w, "%s %s (%d distinct)\n",
		r.st.label.Render("Topic coverage:"), strings.Join(rep.Topics, ", "), rep.Coverage)
	fmt.Fprintf(r.w, "%s %d/5\n", r.st.label.Render("Relevance:"), rep.Relevance)
	fmt.Fprintf(r.w, "%s %s\n", r.st.label.Render("Notes:"), rep.Notes)
}

func (r *Renderer) scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 4:
		return r.st.good
	case score == 3:
		return r.st.mid
	default:
		return r.st.poor
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
