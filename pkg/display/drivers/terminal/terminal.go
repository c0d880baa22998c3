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

// Package terminal previews the tubes in a terminal window. The space bar
// stands in for the touch button.
package terminal

import (
	"context"
	"strings"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	DriverID = "terminal"

	GlyphRows = 5
	litColor  = "#ff8c1a"
	offColor  = "#3a2a20"
)

var glyphs = [tubes.Cathodes][GlyphRows]string{
	{"███", "█ █", "█ █", "█ █", "███"},
	{"  █", "  █", "  █", "  █", "  █"},
	{"███", "  █", "███", "█  ", "███"},
	{"███", "  █", "███", "  █", "███"},
	{"█ █", "█ █", "███", "  █", "  █"},
	{"███", "█  ", "███", "  █", "███"},
	{"███", "█  ", "███", "█ █", "███"},
	{"███", "  █", "  █", "  █", "  █"},
	{"███", "█ █", "███", "█ █", "███"},
	{"███", "█ █", "███", "  █", "███"},
}

// Render draws a frame as GlyphRows lines of block characters. A lit dot
// shows as a bullet on the bottom line between its tubes.
func Render(f tubes.Frame) []string {
	rows := make([]string, GlyphRows)
	for r := range GlyphRows {
		var b strings.Builder
		for i := range tubes.Positions {
			b.WriteString(dotCell(f.Dots&(tubes.DotLeading<<i) != 0, r))
			if s := f.Digits[i]; s == tubes.Blank {
				b.WriteString("   ")
			} else {
				b.WriteString(glyphs[s][r])
			}
		}
		rows[r] = b.String()
	}
	return rows
}

func dotCell(lit bool, row int) string {
	if lit && row == GlyphRows-1 {
		return " • "
	}
	return "   "
}

type Preview struct {
	app      *tview.Application
	view     *tview.TextView
	onButton func()
	onQuit   func()
	done     chan struct{}
	mu       syncutil.Mutex
	running  bool
	closing  bool
}

// New creates a preview. A nil screen uses the controlling terminal.
func New(screen tcell.Screen) *Preview {
	app := tview.NewApplication()
	if screen != nil {
		app.SetScreen(screen)
	}

	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	view.SetBorder(true).SetTitle(" Zaparoo Nixie ")

	help := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("space: touch button   q: quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(view, GlyphRows+2, 0, false).
		AddItem(help, 1, 0, false).
		AddItem(nil, 0, 1, false)
	app.SetRoot(layout, true)

	p := &Preview{app: app, view: view, done: make(chan struct{})}
	app.SetInputCapture(p.handleKey)
	return p
}

func (*Preview) ID() string {
	return DriverID
}

func (p *Preview) SetButtonHandler(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onButton = fn
}

// SetQuitHandler is called when the user leaves the preview.
func (p *Preview) SetQuitHandler(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onQuit = fn
}

func (p *Preview) Open(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	p.running = true

	go func() {
		defer close(p.done)
		if err := p.app.Run(); err != nil {
			log.Error().Err(err).Msg("terminal preview stopped")
		}
		p.mu.Lock()
		quit := p.onQuit
		closing := p.closing
		p.mu.Unlock()
		if !closing && quit != nil {
			quit()
		}
	}()
	return nil
}

func (p *Preview) Show(f tubes.Frame) error {
	p.mu.Lock()
	closing := p.closing
	p.mu.Unlock()
	if closing {
		return nil
	}

	text := markup(f)
	p.app.QueueUpdateDraw(func() {
		p.view.SetText(text)
	})
	return nil
}

func markup(f tubes.Frame) string {
	color := litColor
	if f == tubes.BlankFrame {
		color = offColor
	}
	return "[" + color + "]" + strings.Join(Render(f), "\n") + "[-]"
}

func (p *Preview) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	switch {
	case ev.Key() == tcell.KeyRune && ev.Rune() == ' ', ev.Key() == tcell.KeyEnter:
		p.mu.Lock()
		fn := p.onButton
		p.mu.Unlock()
		if fn != nil {
			fn()
		}
		return nil
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'q', ev.Key() == tcell.KeyEscape:
		p.app.Stop()
		return nil
	default:
		return ev
	}
}

func (p *Preview) Close() error {
	p.mu.Lock()
	p.closing = true
	running := p.running
	p.mu.Unlock()

	if running {
		p.app.Stop()
		<-p.done
	}
	return nil
}
