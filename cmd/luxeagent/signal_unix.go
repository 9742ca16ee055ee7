//go:build !windows

package main

import (
	"os"
	"syscall"
)

// terminationSignals trigger a graceful shutdown. SIGTERM is what systemd and
// kubernetes send.
var terminationSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// reloadSignals re-read the catalog without a restart.
var reloadSignals = []os.Signal{syscall.SIGHUP}
