package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mindgraft/pkg/pipeline"
)

// stdout receives every status line printed by commands. Tests swap it for
// a buffer.
var stdout io.Writer = os.Stdout

// Palette. Manual cards share the amber used for warnings so grafts stand
// out in the outline.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorManual = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorQuiet  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleAccent = lipgloss.NewStyle().Foreground(colorAccent)
	styleLink   = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	stylePath   = lipgloss.NewStyle().Foreground(colorText)
	styleWarn   = lipgloss.NewStyle().Foreground(colorManual)
	styleCmd    = lipgloss.NewStyle().Foreground(colorLink)

	styleCached   = lipgloss.NewStyle().Foreground(colorOK)
	styleComputed = lipgloss.NewStyle().Foreground(colorQuiet)
	styleSpinner  = lipgloss.NewStyle().Foreground(colorAccent)
)

// status marks the kind of a one-line message.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorManual)}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorQuiet)}
)

func (s status) line(msg string) string {
	return s.style.Render(s.icon) + " " + msg
}

func emit(line string) {
	fmt.Fprintln(stdout, line)
}

func printSuccess(format string, args ...any) {
	emit(statusOK.line(fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	emit(statusFail.line(fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	emit(statusWarn.line(styleWarn.Render(fmt.Sprintf(format, args...))))
}

func printInfo(format string, args ...any) {
	emit(statusInfo.line(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line under the previous status.
func printDetail(format string, args ...any) {
	emit("  " + styleMuted.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a file a command wrote.
func printFile(path string) {
	emit("  " + styleMuted.Render("→") + " " + stylePath.Render(path))
}

// printStats prints the size of a laid-out mind map on a single line.
func printStats(res *pipeline.Result) {
	emit("  " + formatStats(res))
}

// formatStats renders card and link counts, layout time, and whether the
// layout came from cache.
func formatStats(res *pipeline.Result) string {
	parts := []string{
		plural(res.Stats.NodeCount, "card", "cards"),
		plural(res.Stats.EdgeCount, "link", "links"),
	}
	if res.CacheInfo.LayoutHit {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh in "+elapsed(res.Stats.LayoutTime)))
	}
	return strings.Join(parts, styleMuted.Render(" · "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return styleMuted.Render("1 " + one)
	}
	return styleMuted.Render(fmt.Sprintf("%d %s", n, many))
}

// printNextStep suggests the command to run after this one.
func printNextStep(description, cmd string) {
	emit(styleMuted.Render(description+":") + " " + styleCmd.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
