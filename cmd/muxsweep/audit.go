package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/backmassage/muxsweep/internal/audit"
	"github.com/backmassage/muxsweep/internal/config"
)

// showAudit prints the stored run and/or file history requested on the
// command line. No media is processed.
func showAudit(cfg *config.Config, w io.Writer) int {
	store, err := audit.Open(cfg.AuditDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
		return exitFailure
	}
	defer store.Close()

	if cfg.AuditShow != "" {
		var r *audit.Run
		if cfg.AuditShow == "latest" {
			r, err = store.LatestRun()
		} else {
			r, err = store.RunByID(cfg.AuditShow)
		}
		if errors.Is(err, audit.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "muxsweep: %s: %v\n", cfg.AuditShow, err)
			return exitFailure
		}
		if err == nil {
			err = audit.WriteRun(w, r)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
			return exitFailure
		}
	}

	if cfg.AuditHistory != "" {
		// results are keyed by the absolute source path
		path, err := filepath.Abs(cfg.AuditHistory)
		if err != nil {
			fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
			return exitFailure
		}
		files, err := store.FileHistory(path)
		if err == nil {
			err = audit.WriteHistory(w, path, files)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "muxsweep: %v\n", err)
			return exitFailure
		}
	}
	return exitOK
}
