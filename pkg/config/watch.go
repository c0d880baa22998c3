// Zaparoo Nixie
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Nixie.
//
// Zaparoo Nixie is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Nixie is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Nixie.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// watchSettle is how long the watcher waits for a burst of file events to
// end before reporting one change.
const watchSettle = 150 * time.Millisecond

// FileWatcher reports settled changes to the settings file.
type FileWatcher struct {
	clock    clockwork.Clock
	watcher  *fsnotify.Watcher
	timer    clockwork.Timer
	onChange func()
	target   string
	mu       syncutil.Mutex
	gen      uint64
	closed   bool
}

// StartFileWatch calls onChange once per burst of writes to the settings
// file. The parent directory is watched so editors that save by renaming a
// temporary file are picked up too. Close the returned watcher to stop.
func StartFileWatch(clock clockwork.Clock, cfgPath string, onChange func()) (*FileWatcher, error) {
	log.Info().Str("path", cfgPath).Msg("starting config file watcher")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	fw := &FileWatcher{
		clock:    clock,
		watcher:  watcher,
		onChange: onChange,
		target:   filepath.Clean(cfgPath),
	}

	go fw.run()

	if err := watcher.Add(filepath.Dir(fw.target)); err != nil {
		if closeErr := fw.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing config watcher")
		}
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return fw, nil
}

func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			fw.touch()
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("config watcher error")
		}
	}
}

// touch restarts the settle timer.
func (fw *FileWatcher) touch() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed {
		return
	}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.gen++
	gen := fw.gen
	fw.timer = fw.clock.AfterFunc(watchSettle, func() { fw.fire(gen) })
}

// fire reports the change unless a newer event restarted the timer or the
// watcher was closed.
func (fw *FileWatcher) fire(gen uint64) {
	fw.mu.Lock()
	stale := fw.closed || gen != fw.gen
	if !stale {
		fw.timer = nil
	}
	fw.mu.Unlock()
	if stale {
		return
	}
	fw.onChange()
}

// Close stops watching. A change still settling is not reported.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	fw.closed = true
	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
	fw.mu.Unlock()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close config watcher: %w", err)
	}
	return nil
}
