// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/probechain/go-tiny/lang/frontend"
	"github.com/probechain/go-tiny/log"
	"github.com/rjeczalik/notify"
)

// watch re-checks each file whenever it is written or replaced, until the
// process is interrupted. Directories are watched rather than the files
// themselves so that editors saving through a rename are still seen.
func (s *session) watch(paths []string) error {
	events := make(chan notify.EventInfo, 16)
	defer notify.Stop(events)

	watched := make(map[string]string) // absolute path -> path as given
	dirs := make(map[string]bool)
	for _, path := range paths {
		if path == frontend.StdinName {
			return fmt.Errorf("cannot watch standard input")
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = path
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := notify.Watch(dir, events, notify.Write, notify.Create, notify.Rename); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	log.Info("Watching for changes", "files", len(watched))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	for {
		select {
		case ev := <-events:
			path, ok := watched[ev.Path()]
			if !ok {
				continue
			}
			log.Debug("Source changed", "file", path, "event", ev.Event())
			if _, err := os.Stat(ev.Path()); err != nil {
				// Removed or mid-rename; the next event will bring it back.
				continue
			}
			fmt.Fprintf(s.out, "--- %s\n", path)
			s.checkOne(path)
		case sig := <-sigc:
			log.Info("Stopped watching", "signal", sig)
			return nil
		}
	}
}
