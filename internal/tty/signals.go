package tty

import (
	"os"
	"os/signal"
)

// sigGuard scopes a signal-ignore to one operation. Construction ignores
// the signals; Restore puts the default disposition back.
type sigGuard struct {
	sigs []os.Signal
}

func ignore(sigs ...os.Signal) *sigGuard {
	signal.Ignore(sigs...)
	return &sigGuard{sigs: sigs}
}

func (g *sigGuard) Restore() {
	signal.Reset(g.sigs...)
}
