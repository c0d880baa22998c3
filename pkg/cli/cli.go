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

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/zaparoo-nixie/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/configui"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/platforms"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrBadFlag = errors.New("invalid flag value")

type Flags struct {
	Version      *bool
	Daemon       *bool
	Config       *string
	SetTime      *string
	ImportEEPROM *string
	Get          *string
	Set          *string
	Service      *string
	ConfigUI     *bool
	fs           *flag.FlagSet
}

// SetupFlags defines the flags common to every platform on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs: fs,
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Daemon: fs.Bool(
			"daemon",
			false,
			"run service in the background with no preview",
		),
		Config: fs.String(
			"config",
			"",
			"path to the settings file",
		),
		SetTime: fs.String(
			"set-time",
			"",
			`set the clock, as "HH:MM YYYY-MM-DD" local time or an RFC 3339 timestamp`,
		),
		ImportEEPROM: fs.String(
			"import-eeprom",
			"",
			"import settings from a dumped settings image of the original firmware",
		),
		Get: fs.String(
			"get",
			"",
			"print a setting, e.g. time.ntp_server",
		),
		Set: fs.String(
			"set",
			"",
			"change a setting, e.g. display.slot.year=true",
		),
		Service: fs.String(
			"service",
			"",
			"manage the background service (exec, stop, status)",
		),
		ConfigUI: fs.Bool(
			"config-ui",
			false,
			"open the interactive settings editor",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Pre parses args and handles flags that need no setup. It returns true
// when the program should exit.
func (f *Flags) Pre(pl platforms.Platform, args []string, out io.Writer) (bool, error) {
	if err := f.fs.Parse(args); err != nil {
		return true, fmt.Errorf("failed to parse flags: %w", err)
	}

	if *f.Version {
		_, _ = fmt.Fprintf(out, "Zaparoo Nixie v%s (%s)\n", config.AppVersion, pl.ID())
		return true, nil
	}
	return false, nil
}

// ConfigPath is the settings file to use, from -config or the platform.
func (f *Flags) ConfigPath(pl platforms.Platform) string {
	if *f.Config != "" {
		return *f.Config
	}
	return helpers.ConfigPath(pl)
}

// Post handles the one-shot settings flags. It returns true when one was
// handled and the program should exit.
func (f *Flags) Post(cfg *config.Instance, out io.Writer) (bool, error) {
	switch {
	case *f.ConfigUI:
		if err := configui.Run(cfg); err != nil {
			return true, fmt.Errorf("settings editor failed: %w", err)
		}
		return true, nil
	case f.isFlagPassed("import-eeprom"):
		return true, importEEPROM(cfg, *f.ImportEEPROM)
	case f.isFlagPassed("get"):
		value, err := cfg.Get(*f.Get)
		if err != nil {
			return true, fmt.Errorf("failed to get setting: %w", err)
		}
		_, _ = fmt.Fprintln(out, value)
		return true, nil
	case f.isFlagPassed("set"):
		key, value, ok := strings.Cut(*f.Set, "=")
		if !ok {
			return true, fmt.Errorf("%w: set expects key=value", ErrBadFlag)
		}
		if err := cfg.Put(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return true, fmt.Errorf("failed to change setting: %w", err)
		}
		if err := cfg.Commit(); err != nil {
			return true, fmt.Errorf("failed to save settings: %w", err)
		}
		log.Info().Str("key", key).Str("value", value).Msg("setting changed")
		return true, nil
	}
	return false, nil
}

func importEEPROM(cfg *config.Instance, path string) error {
	if path == "" {
		return fmt.Errorf("%w: import-eeprom requires a file", ErrBadFlag)
	}
	//nolint:gosec // path given by the user on the command line
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings image: %w", err)
	}

	vals, err := config.ImportLegacyEEPROM(image, cfg.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to import settings image: %w", err)
	}
	if err := cfg.Replace(vals); err != nil {
		return fmt.Errorf("imported settings are invalid: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	log.Info().Str("path", path).Msg("imported legacy settings")
	return nil
}

// Setup creates the platform directories, starts logging and loads the
// settings file.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	pl platforms.Platform,
	cfgPath string,
	defaultConfig config.Values,
	writers []io.Writer,
) (*config.Instance, error) {
	s := pl.Settings()
	for _, dir := range []string{s.DataDir, s.TempDir, filepath.Dir(cfgPath)} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := helpers.InitLogging(pl, writers); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.NewConfig(afero.NewOsFs(), cfgPath, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	helpers.SetDebugLogging(cfg.DebugLogging())

	if err := telemetry.Init(cfg.ErrorReportingDSN(), cfg.DeviceID(), pl.ID()); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}
