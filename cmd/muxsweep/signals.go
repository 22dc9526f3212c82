package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/backmassage/muxsweep/internal/result"
)

// handleSignals watches interrupt and status signals until the returned
// stop function is called. The first interrupt cancels the batch through
// cancel, so the encoder in flight is killed and its output removed before
// run reports and returns. A second interrupt exits immediately with
// status 1. A status signal writes the text summary and the batch goes on.
func handleSignals(batch *result.Run, rep *reporter, cancel context.CancelFunc) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, append(append([]os.Signal{}, interruptSignals...), statusSignals...)...)
	done := make(chan struct{})

	go func() {
		interrupted := false
		for {
			select {
			case <-done:
				return
			case sig := <-ch:
				switch {
				case isStatusSignal(sig):
					rep.status(batch.Summary())
				case interrupted:
					rep.log.Error("Received %v again, exiting", sig)
					exit(exitFailure)
					return
				default:
					interrupted = true
					rep.log.Warn("Received %v, stopping after cleanup of the current file", sig)
					cancel()
				}
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

func isStatusSignal(sig os.Signal) bool {
	for _, s := range statusSignals {
		if s == sig {
			return true
		}
	}
	return false
}
