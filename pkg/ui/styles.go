package ui

import (
	"fmt"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/orchestrator"
	"github.com/charmbracelet/lipgloss"
)

var (
	successColor = lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	warningColor = lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#FFD54F"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#A0A8B0"}
	headingColor = lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"}
)

var (
	TitleStyle   = lipgloss.NewStyle().Foreground(headingColor).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

// StatusStyle returns the style used for a user status
func StatusStyle(status orchestrator.Status) lipgloss.Style {
	switch status {
	case orchestrator.StatusOK:
		return SuccessStyle
	case orchestrator.StatusPartial:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// RenderError formats err with its code for stderr
func RenderError(err error, f Format) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		msg = fmt.Sprintf("Error [%s]: %v", code, err)
	}
	if f == FormatText {
		return msg
	}
	return ErrorStyle.Render(msg)
}

func paint(style lipgloss.Style, s string, f Format) string {
	if f == FormatText {
		return s
	}
	return style.Render(s)
}
