package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	noStyle      = lipgloss.NewStyle()
	helpStyle    = blurredStyle

	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	headerCellStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle         = lipgloss.NewStyle().Padding(0, 1)
	selectedCellStyle = cellStyle.Foreground(lipgloss.Color("205")).Bold(true)
	tableBorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
