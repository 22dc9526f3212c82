//go:build unix

package main

import (
	"os"
	"syscall"
)

var (
	interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	statusSignals    = []os.Signal{syscall.SIGUSR1}
)
