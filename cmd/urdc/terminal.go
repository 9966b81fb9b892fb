package main

import (
	"os"

	"golang.org/x/term"
)

func isTerminalFd(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
