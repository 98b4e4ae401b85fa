package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/voicevista/voicevista/internal/transcript"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// terminalFd returns the descriptor of r when it is an interactive terminal.
func terminalFd(r io.Reader) (uintptr, bool) {
	file, ok := r.(*os.File)
	if !ok {
		return 0, false
	}
	fd := file.Fd()
	return fd, isatty.IsTerminal(fd)
}

// statusText renders a status label, coloured when writing to a terminal.
func statusText(status transcript.Status, colorize bool) string {
	label := status.Label()
	if !colorize {
		return label
	}
	switch status {
	case transcript.StatusCompleted:
		return ansiGreen + label + ansiReset
	case transcript.StatusProcessing:
		return ansiYellow + label + ansiReset
	case transcript.StatusFailed:
		return ansiRed + label + ansiReset
	}
	return label
}
