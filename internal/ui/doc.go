// Package ui holds the palette-driven lipgloss styles shared by the TUI pages.
package ui
