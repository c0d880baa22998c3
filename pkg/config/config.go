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

// Package config holds the typed settings file. Values are read from and
// written to TOML, validated on every load and change, and exposed through
// locked getters so the service and its watchers can share one Instance.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "NIXIE_CFG"
)

var (
	ErrSchemaMismatch = errors.New("schema version mismatch")
	ErrInvalidValue   = errors.New("invalid config value")
	ErrUnknownKey     = errors.New("unknown config key")
)

type Values struct {
	ErrorReporting ErrorReporting `toml:"error_reporting,omitempty"`
	Time           Time           `toml:"time"`
	RTC            RTC            `toml:"rtc,omitempty"`
	DeviceID       string         `toml:"device_id"`
	Publishers     Publishers     `toml:"publishers,omitempty"`
	Display        Display        `toml:"display"`
	ConfigSchema   int            `toml:"config_schema"`
	DebugLogging   bool           `toml:"debug_logging"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Time: Time{
		Hour24:          true,
		NTPEnabled:      true,
		NTPServer:       DefaultNTPServer,
		NTPSyncInterval: DefaultNTPSyncInterval,
		TimeZone:        DefaultTimeZone,
	},
	Display: Display{
		Driver:             DisplayDriverAuto,
		BaudRate:           DefaultBaudRate,
		Slots:              []string{SlotTime, SlotDate},
		DateFormat:         DateFormatDayMonth,
		Animation:          true,
		AnimationSteps:     DefaultAnimationSteps,
		AnimationStepMs:    DefaultAnimationStepMs,
		AntiPoisonInterval: DefaultAntiPoisonInterval,
		RefreshMs:          DefaultRefreshMs,
	},
}

type Instance struct {
	fs       afero.Fs
	validate *validator.Validate
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig opens the settings file at cfgPath, writing defaults first if
// it does not exist yet.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(fs afero.Fs, cfgPath string, defaults Values) (*Instance, error) {
	if cfgPath == "" {
		return nil, errors.New("config path not set")
	}

	cfg := &Instance{
		fs:       fs,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cfgPath:  cfgPath,
		vals:     cloneValues(defaults),
		defaults: cloneValues(defaults),
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Str("path", cfgPath).Msg("saving new default config to disk")

		if err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Path is the settings file location.
func (c *Instance) Path() string {
	return c.cfgPath
}

// Load re-reads the settings file. Fields missing from the file keep their
// defaults. An invalid file leaves the current values untouched.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals := cloneValues(c.defaults)
	// slices in the file replace the defaults instead of merging into them
	newVals.Display.Slots = nil
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if newVals.Display.Slots == nil {
		newVals.Display.Slots = slices.Clone(c.defaults.Display.Slots)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	if err := c.validateValues(&newVals); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

// Save writes the current values to disk.
func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.vals.ConfigSchema = SchemaVersion

	if c.vals.DeviceID == "" {
		newID := uuid.New().String()
		c.vals.DeviceID = newID
		log.Info().Msgf("generated new device id: %s", newID)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Snapshot returns a copy of all values.
func (c *Instance) Snapshot() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneValues(c.vals)
}

// Replace validates and installs a complete set of values, e.g. from a
// legacy import. Nothing is written until Save.
//
//nolint:gocritic // config struct copied for immutability
func (c *Instance) Replace(vals Values) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	vals = cloneValues(vals)
	vals.ConfigSchema = SchemaVersion
	if vals.DeviceID == "" {
		vals.DeviceID = c.vals.DeviceID
	}
	if err := c.validateValues(&vals); err != nil {
		return err
	}
	c.vals = vals
	return nil
}

func (c *Instance) validateValues(v *Values) error {
	if err := c.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q check", ErrInvalidValue, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) DeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DeviceID
}

//nolint:gocritic // config struct copied for immutability
func cloneValues(v Values) Values {
	v.Display.Slots = slices.Clone(v.Display.Slots)
	v.Publishers.MQTT = slices.Clone(v.Publishers.MQTT)
	return v
}
