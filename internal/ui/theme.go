// Package ui holds the terminal styles used by the gift CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	IconGift    = "🎁"
	IconDone    = "✅"
	IconRest    = "💤"
	IconPending = "⏳"
	IconGoal    = "🔁"
	IconHeart   = "💗"
	IconFlame   = "🔥"
	IconMoment  = "📸"
	IconVideo   = "🎬"
	IconError   = "🧨"
)

var (
	cPink  = lipgloss.Color("205")
	cBlue  = lipgloss.Color("63")
	cGood  = lipgloss.Color("42")
	cWarn  = lipgloss.Color("214")
	cBad   = lipgloss.Color("196")
	cMuted = lipgloss.Color("244")
	cGold  = lipgloss.Color("220")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cPink)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cBlue)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
)

// Heading renders an icon and bold title line.
func Heading(icon, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

// LabelValue renders a dimmed label followed by its value.
func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// StatusText renders a task status with its icon.
func StatusText(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "done":
		return IconDone + " " + Good.Render("done")
	case "rest":
		return IconRest + " " + Muted.Render("rest")
	case "pending":
		return IconPending + " " + Warn.Render("pending")
	default:
		return Muted.Render(status)
	}
}

// MoodText colors a plush or goal mood.
func MoodText(mood string) string {
	switch mood {
	case "spark":
		return Gold.Render(mood)
	case "happy":
		return Good.Render(mood)
	case "calm":
		return Key.Render(mood)
	default:
		return Muted.Render(mood)
	}
}

// ProgressBar draws a fixed-width bar for percent in [0, 100].
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}
