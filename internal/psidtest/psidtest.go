// SPDX-License-Identifier: EPL-2.0

// Package psidtest builds SID files for tests.
package psidtest

import "encoding/binary"

// File describes a SID file to build. Zero fields take the defaults of a
// small, valid PSID v2 tune.
type File struct {
	Magic       string
	Version     uint16
	DataOffset  uint16
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	Songs       uint16
	StartSong   uint16
	Speed       uint32
	Name        string
	Author      string
	Released    string
	Flags       uint16
	StartPage   uint8
	PageLength  uint8
	Sid2        uint8
	Sid3        uint8

	// EmbeddedLoad is written little endian ahead of Program when
	// LoadAddress is zero.
	EmbeddedLoad uint16
	Program      []byte
}

// Bytes encodes f.
func (f File) Bytes() []byte {
	if f.Magic == "" {
		f.Magic = "PSID"
	}
	if f.Version == 0 {
		f.Version = 2
	}
	if f.DataOffset == 0 {
		f.DataOffset = 0x7C
		if f.Version == 1 {
			f.DataOffset = 0x76
		}
	}
	if f.Songs == 0 {
		f.Songs = 1
	}
	if f.Program == nil {
		f.Program = []byte{0x60} // RTS
	}

	hdr := make([]byte, f.DataOffset)
	copy(hdr[0:4], f.Magic)
	binary.BigEndian.PutUint16(hdr[0x04:], f.Version)
	binary.BigEndian.PutUint16(hdr[0x06:], f.DataOffset)
	binary.BigEndian.PutUint16(hdr[0x08:], f.LoadAddress)
	binary.BigEndian.PutUint16(hdr[0x0A:], f.InitAddress)
	binary.BigEndian.PutUint16(hdr[0x0C:], f.PlayAddress)
	binary.BigEndian.PutUint16(hdr[0x0E:], f.Songs)
	binary.BigEndian.PutUint16(hdr[0x10:], f.StartSong)
	binary.BigEndian.PutUint32(hdr[0x12:], f.Speed)
	copy(hdr[0x16:0x36], f.Name)
	copy(hdr[0x36:0x56], f.Author)
	copy(hdr[0x56:0x76], f.Released)
	if len(hdr) >= 0x7C {
		binary.BigEndian.PutUint16(hdr[0x76:], f.Flags)
		hdr[0x78] = f.StartPage
		hdr[0x79] = f.PageLength
		hdr[0x7A] = f.Sid2
		hdr[0x7B] = f.Sid3
	}

	out := hdr
	if f.LoadAddress == 0 {
		load := f.EmbeddedLoad
		if load == 0 {
			load = 0x1000
		}
		out = binary.LittleEndian.AppendUint16(out, load)
	}
	return append(out, f.Program...)
}

// Minimal returns a valid single-song PSID v2 file titled title.
func Minimal(title string) []byte {
	return File{
		Name:     title,
		Author:   "Test Author",
		Released: "2024 Test",
	}.Bytes()
}
