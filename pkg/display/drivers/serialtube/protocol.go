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

package serialtube

import (
	"strings"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
)

// Driver board protocol. Text commands end in a newline; replies end in a
// semicolon. Frames are sent as binary packets.
const (
	CmdProbe = "NXHWINF"
	CmdClear = "NXCLR"

	CommandTerminator = "\n"
	ReplyTerminator   = ';'

	// ReplyReady is sent by the board when it boots.
	ReplyReady = "nxrdy;"

	FrameStart = 0xa5
	PacketSize = 2 + tubes.WordSize
)

// Packet frames an encoded shift register word: start byte, the word, then
// an XOR checksum of the word.
func Packet(f tubes.Frame) [PacketSize]byte {
	var p [PacketSize]byte
	word := tubes.Encode(f)
	p[0] = FrameStart
	var sum byte
	for i, b := range word {
		p[i+1] = b
		sum ^= b
	}
	p[PacketSize-1] = sum
	return p
}

// isBoardReply reports whether a probe reply came from a tube driver board,
// e.g. "NXTUBE4;".
func isBoardReply(reply string) bool {
	reply = strings.TrimSpace(reply)
	if strings.Contains(reply, ReplyReady) {
		return true
	}
	return strings.HasPrefix(reply, "NX") && strings.HasSuffix(reply, string(ReplyTerminator))
}
