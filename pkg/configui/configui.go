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

package configui

import (
	"fmt"
	"strconv"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	pageMain = "main"
	pageEdit = "edit"
)

// Store is the subset of the config instance the editor works against.
type Store interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Commit() error
}

// Editor is a terminal menu listing every settings key. Boolean keys
// toggle in place, everything else opens a text field. Changes stay in
// memory until saved.
type Editor struct {
	app    *tview.Application
	pages  *tview.Pages
	list   *tview.List
	status *tview.TextView
	store  Store
	keys   []string
	dirty  bool
}

func SetTheme(theme *tview.Theme) {
	theme.BorderColor = tcell.ColorLightYellow
	theme.PrimaryTextColor = tcell.ColorWhite
	theme.ContrastBackgroundColor = tcell.ColorDarkBlue
	theme.InverseTextColor = tcell.ColorDarkOrange
}

func NewEditor(store Store, keys []string) *Editor {
	e := &Editor{
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		list:   tview.NewList(),
		status: tview.NewTextView(),
		store:  store,
		keys:   keys,
	}

	e.list.SetBorder(true)
	e.list.SetTitle(" Zaparoo Nixie settings ")
	e.list.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		if i < len(e.keys) {
			e.activate(e.keys[i])
		}
	})

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(e.list, 0, 1, true).
		AddItem(e.status, 1, 0, false)

	e.pages.AddPage(pageMain, layout, true, true)
	e.refresh()
	return e
}

// refresh rebuilds the menu from the store, keeping the selection.
func (e *Editor) refresh() {
	current := e.list.GetCurrentItem()
	e.list.Clear()
	for _, key := range e.keys {
		val, err := e.store.Get(key)
		if err != nil {
			val = "?"
		}
		e.list.AddItem(key+" = "+val, "", 0, nil)
	}
	e.list.AddItem("Save", "Write changes to the config file", 's', func() {
		if err := e.save(); err != nil {
			e.setStatus(fmt.Sprintf("save failed: %v", err))
		}
	})
	e.list.AddItem("Quit", "Exit without saving", 'q', func() {
		e.app.Stop()
	})
	if current < e.list.GetItemCount() {
		e.list.SetCurrentItem(current)
	}
}

func (e *Editor) setStatus(msg string) {
	e.status.SetText(msg)
}

// activate toggles a boolean key or opens the edit form for any other.
func (e *Editor) activate(key string) {
	val, err := e.store.Get(key)
	if err != nil {
		e.setStatus(err.Error())
		return
	}

	if b, err := strconv.ParseBool(val); err == nil {
		e.submit(key, strconv.FormatBool(!b))
		return
	}

	form := tview.NewForm()
	form.AddInputField("Value", val, 40, nil, nil)
	form.AddButton("OK", func() {
		field, ok := form.GetFormItemByLabel("Value").(*tview.InputField)
		if ok {
			e.submit(key, field.GetText())
		}
		e.pages.RemovePage(pageEdit)
	})
	form.AddButton("Cancel", func() {
		e.pages.RemovePage(pageEdit)
	})
	form.SetBorder(true)
	form.SetTitle(" " + key + " ")
	e.pages.AddAndSwitchToPage(pageEdit, form, true)
}

// submit stores a value, reporting rejected values on the status line.
func (e *Editor) submit(key, value string) {
	if err := e.store.Put(key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("rejected setting")
		e.setStatus(err.Error())
		return
	}
	e.dirty = true
	e.setStatus("")
	e.refresh()
}

func (e *Editor) save() error {
	if !e.dirty {
		e.setStatus("no changes")
		return nil
	}
	if err := e.store.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	e.dirty = false
	e.setStatus("saved")
	return nil
}

// Run shows the editor on the terminal until the user quits.
func Run(cfg *config.Instance) error {
	SetTheme(&tview.Styles)
	e := NewEditor(cfg, config.Keys())
	return tryRunApp(e.app.SetRoot(e.pages, true).EnableMouse(true), func() (*tview.Application, error) {
		retry := NewEditor(cfg, config.Keys())
		return retry.app.SetRoot(retry.pages, true).EnableMouse(true), nil
	})
}
