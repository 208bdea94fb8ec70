package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wavefield/stereometer/pkg/meterstate"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAAA")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	greenStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00AA00"))
	cyanStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00AAAA"))
	amberStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA500"))
	redStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A40000"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00AAAA")).
			Padding(0, 1).
			MarginBottom(1)
)

func colourStyle(c meterstate.LoudnessColour) lipgloss.Style {
	switch c {
	case meterstate.ColourGreen:
		return greenStyle
	case meterstate.ColourCyan:
		return cyanStyle
	case meterstate.ColourAmber:
		return amberStyle
	case meterstate.ColourRed:
		return redStyle
	default:
		return valueStyle
	}
}

// renderDashboard is the top-level view for the demonstration host: a
// header, the loudness box, the true-peak/PPM box, and the stereo-field
// box, each reading straight off the last published snapshot.
func renderDashboard(m model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n")
	b.WriteString(renderLoudnessBox(m.snap))
	b.WriteString(renderPeakBox(m.snap))
	b.WriteString(renderStereoBox(m.snap))

	if !m.snap.ShouldRender {
		b.WriteString(subtitleStyle.Render("(blanked: transition in progress)\n"))
	}
	b.WriteString(subtitleStyle.Render("q to quit"))

	return b.String()
}

func renderHeader(m model) string {
	title := titleStyle.Render("stereometer")
	subtitle := subtitleStyle.Render(fmt.Sprintf("preset: %s | elapsed: %.1fs", m.presetName, m.snap.ElapsedS))
	return title + "\n" + subtitle + "\n"
}

func renderLoudnessBox(s meterstate.Snapshot) string {
	lufs := s.LUFS
	row := func(label string, text string, style lipgloss.Style) string {
		return fmt.Sprintf("%s %s\n", labelStyle.Render(label), style.Render(text))
	}

	var b strings.Builder
	b.WriteString(row("Momentary: ", meterstate.FormatLUFS(lufs.Momentary, lufs.MomentaryReady), colourStyle(lufs.Colour)))
	b.WriteString(row("Short-term:", meterstate.FormatLUFS(lufs.ShortTerm, lufs.ShortTermReady), valueStyle))
	b.WriteString(row("Integrated:", meterstate.FormatLUFS(lufs.Integrated, lufs.IntegratedReady), valueStyle))
	b.WriteString(row("LRA:       ", fmt.Sprintf("%.1f LU", lufs.LRA), valueStyle))
	crestText := meterstate.SilenceSentinel
	if s.CrestReady {
		crestText = fmt.Sprintf("%.1f dB", s.Crest)
	}
	b.WriteString(row("Crest:     ", crestText, valueStyle))

	return boxStyle.Render(b.String())
}

func renderPeakBox(s meterstate.Snapshot) string {
	tp := s.TruePeak
	ppm := s.PPM

	peakStyle := valueStyle
	if tp.PeakOver {
		peakStyle = redStyle
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s / %s\n", labelStyle.Render("True Peak L/R:"),
		peakStyle.Render(meterstate.FormatDBTP(tp.CurrentL)), peakStyle.Render(meterstate.FormatDBTP(tp.CurrentR))))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("TP Hold (max):"), peakStyle.Render(meterstate.FormatDBTP(tp.CumulativeMax))))
	b.WriteString(fmt.Sprintf("%s %s / %s\n", labelStyle.Render("PPM L/R:      "),
		valueStyle.Render(meterstate.FormatPPMDBu(ppm.DBuL, ppm.SilentL)), valueStyle.Render(meterstate.FormatPPMDBu(ppm.DBuR, ppm.SilentR))))

	return boxStyle.Render(b.String())
}

func renderStereoBox(s meterstate.Snapshot) string {
	st := s.Stereo
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %.2f\n", labelStyle.Render("Correlation:"), st.Correlation))
	b.WriteString(fmt.Sprintf("%s %.1f dB\n", labelStyle.Render("Balance:    "), st.BalanceDB))
	b.WriteString(fmt.Sprintf("%s %.2f (hold %.2f)\n", labelStyle.Render("Width:      "), st.Width, st.WidthHold))
	b.WriteString(fmt.Sprintf("%s %.1f dB / %s %.1f dB\n", labelStyle.Render("Mid:"), st.MidDB, labelStyle.Render("Side:"), st.SideDB))

	return boxStyle.Render(b.String())
}
