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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/zaparoo-nixie/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/cli"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/platforms/board"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		telemetry.Flush()
		os.Exit(1)
	}
}

func run() error {
	pl := board.NewPlatform()
	flags := cli.SetupFlags(flag.CommandLine)

	exit, err := flags.Pre(pl, os.Args[1:], os.Stdout)
	if exit {
		return err
	}

	cfg, err := cli.Setup(pl, flags.ConfigPath(pl), config.BaseDefaults, []io.Writer{os.Stderr})
	if err != nil {
		return err
	}
	defer telemetry.Close()

	if handled, err := flags.Post(cfg, os.Stdout); handled {
		return err
	}

	return cli.RunApp(pl, cfg, flags)
}
