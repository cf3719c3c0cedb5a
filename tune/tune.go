// SPDX-License-Identifier: EPL-2.0

package tune

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Header sizes of the PSID/RSID layout.
const (
	headerV1 = 0x76
	headerV2 = 0x7C

	// MaxFileLen is the largest tune file accepted: a full 64K image, its
	// embedded load address and a v2+ header.
	MaxFileLen = 65536 + 2 + headerV2

	// MaxSongs is the most sub-tunes a file can declare.
	MaxSongs = 256
)

// Clock is the video standard a tune is timed for.
type Clock int

const (
	ClockUnknown Clock = iota
	ClockPAL
	ClockNTSC
	ClockAny
)

func (c Clock) String() string {
	switch c {
	case ClockUnknown:
		return "unknown"
	case ClockPAL:
		return "pal"
	case ClockNTSC:
		return "ntsc"
	case ClockAny:
		return "any"
	}
	return fmt.Sprintf("Clock(%d)", int(c))
}

// ParseClock parses "pal", "ntsc" or "any", ignoring case.
func ParseClock(s string) (Clock, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pal":
		return ClockPAL, nil
	case "ntsc":
		return ClockNTSC, nil
	case "any":
		return ClockAny, nil
	}
	return ClockUnknown, fmt.Errorf("unknown clock %q", s)
}

// Model is a SID chip revision.
type Model int

const (
	ModelUnknown Model = iota
	Model6581
	Model8580
	ModelAny
)

func (m Model) String() string {
	switch m {
	case ModelUnknown:
		return "unknown"
	case Model6581:
		return "MOS6581"
	case Model8580:
		return "MOS8580"
	case ModelAny:
		return "any"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Speed is how a song's play routine is driven.
type Speed int

const (
	// SpeedVBI calls play once per video frame.
	SpeedVBI Speed = iota
	// SpeedCIA calls play from a CIA timer interrupt.
	SpeedCIA
)

func (s Speed) String() string {
	if s == SpeedCIA {
		return "cia"
	}
	return "vbi"
}

// Header mirrors the fields of a PSID/RSID header.
type Header struct {
	MagicID     string
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
	Sid2Addr    uint16
	Sid3Addr    uint16
	IsRSID      bool
}

// Tune is a parsed and validated SID file.
type Tune struct {
	Header Header

	data    []byte
	current int
}

// Info summarises a tune for display and tagging.
type Info struct {
	Format      string
	Title       string
	Author      string
	Released    string
	Songs       int
	StartSong   int
	CurrentSong int
	Speed       Speed
	Clock       Clock
	Model       Model
	Chips       int
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	DataLength  int
	MUS         bool
}

// Parse validates data as a PSID or RSID file. The returned tune has its
// start song selected. data is not retained.
func Parse(data []byte) (*Tune, error) {
	if len(data) > MaxFileLen {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), MaxFileLen)
	}
	if len(data) < headerV1 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooShort, len(data))
	}

	magic := string(data[:4])
	header := Header{
		MagicID: magic,
	}

	switch magic {
	case "PSID":
		header.IsRSID = false
	case "RSID":
		header.IsRSID = true
	default:
		return nil, fmt.Errorf("%w: magic %q", ErrUnknownFormat, magic)
	}

	header.Version = binary.BigEndian.Uint16(data[0x04:0x06])
	header.DataOffset = binary.BigEndian.Uint16(data[0x06:0x08])
	header.LoadAddress = binary.BigEndian.Uint16(data[0x08:0x0A])
	header.InitAddress = binary.BigEndian.Uint16(data[0x0A:0x0C])
	header.PlayAddress = binary.BigEndian.Uint16(data[0x0C:0x0E])
	header.Songs = binary.BigEndian.Uint16(data[0x0E:0x10])
	header.StartSong = binary.BigEndian.Uint16(data[0x10:0x12])
	header.Speed = binary.BigEndian.Uint32(data[0x12:0x16])
	header.Name = parsePaddedString(data[0x16:0x36])
	header.Author = parsePaddedString(data[0x36:0x56])
	header.Released = parsePaddedString(data[0x56:0x76])

	if err := checkVersion(&header); err != nil {
		return nil, err
	}

	if header.Version >= 2 {
		if len(data) < headerV2 {
			return nil, fmt.Errorf("%w: %d bytes for a v%d header", ErrTooShort, len(data), header.Version)
		}
		header.Flags = binary.BigEndian.Uint16(data[0x76:0x78])
		header.StartPage = data[0x78]
		header.PageLength = data[0x79]
		if header.Version >= 3 {
			addr, err := sidAddress(data[0x7A])
			if err != nil {
				return nil, err
			}
			header.Sid2Addr = addr
		}
		if header.Version >= 4 {
			addr, err := sidAddress(data[0x7B])
			if err != nil {
				return nil, err
			}
			header.Sid3Addr = addr
		}
	}

	if header.Songs == 0 || header.Songs > MaxSongs {
		return nil, fmt.Errorf("%w: %d", ErrBadSongCount, header.Songs)
	}
	if header.StartSong == 0 || header.StartSong > header.Songs {
		header.StartSong = 1
	}

	dataStart := int(header.DataOffset)
	if dataStart >= len(data) {
		return nil, fmt.Errorf("%w: header only, %d bytes", ErrNoProgram, len(data))
	}
	if header.LoadAddress == 0 {
		if dataStart+2 > len(data) {
			return nil, ErrMissingLoadAddr
		}
		header.LoadAddress = binary.LittleEndian.Uint16(data[dataStart : dataStart+2])
		dataStart += 2
	}

	program := data[dataStart:]
	if len(program) == 0 {
		return nil, ErrNoProgram
	}
	if end := int(header.LoadAddress) + len(program); end > 0x10000 {
		return nil, fmt.Errorf("%w: $%04X+%d ends at $%X", ErrProgramTooLarge, header.LoadAddress, len(program), end)
	}
	if header.InitAddress == 0 && !header.IsRSID {
		header.InitAddress = header.LoadAddress
	}
	if err := checkRelocation(&header, len(program)); err != nil {
		return nil, err
	}

	sidData := make([]byte, len(program))
	copy(sidData, program)

	return &Tune{
		Header:  header,
		data:    sidData,
		current: int(header.StartSong),
	}, nil
}

func checkVersion(h *Header) error {
	if h.IsRSID {
		if h.Version < 2 || h.Version > 4 {
			return fmt.Errorf("%w: RSID v%d", ErrUnsupportedVer, h.Version)
		}
		if h.DataOffset != headerV2 {
			return fmt.Errorf("%w: 0x%04X", ErrBadDataOffset, h.DataOffset)
		}
		if h.LoadAddress != 0 || h.PlayAddress != 0 || h.Speed != 0 {
			return fmt.Errorf("%w: load, play and speed fields must be zero", ErrBadRSID)
		}
		return nil
	}

	switch h.Version {
	case 1:
		if h.DataOffset != headerV1 {
			return fmt.Errorf("%w: 0x%04X", ErrBadDataOffset, h.DataOffset)
		}
	case 2, 3, 4:
		if h.DataOffset != headerV2 {
			return fmt.Errorf("%w: 0x%04X", ErrBadDataOffset, h.DataOffset)
		}
	default:
		return fmt.Errorf("%w: PSID v%d", ErrUnsupportedVer, h.Version)
	}
	return nil
}

// sidAddress decodes the middle byte of an extra SID's address. Zero
// means the chip is absent.
func sidAddress(b byte) (uint16, error) {
	if b == 0 {
		return 0, nil
	}
	if b&1 != 0 || !((b >= 0x42 && b <= 0x7F) || b >= 0xE0) {
		return 0, fmt.Errorf("%w: $D%02X0", ErrBadSIDAddress, b)
	}
	return 0xD000 | uint16(b)<<4, nil
}

func checkRelocation(h *Header, size int) error {
	if h.StartPage == 0 || h.StartPage == 0xFF {
		return nil
	}
	start := int(h.StartPage)
	end := start + int(h.PageLength)
	if h.PageLength == 0 || end > 0x100 {
		return fmt.Errorf("%w: pages $%02X+%d", ErrBadRelocationArea, h.StartPage, h.PageLength)
	}

	loadFirst := int(h.LoadAddress) >> 8
	loadLast := (int(h.LoadAddress) + size - 1) >> 8
	overlaps := func(lo, hi int) bool { return start <= hi && end-1 >= lo }

	if overlaps(loadFirst, loadLast) || overlaps(0x00, 0x03) || overlaps(0xA0, 0xBF) || overlaps(0xD0, 0xFF) {
		return fmt.Errorf("%w: pages $%02X-$%02X", ErrBadRelocationArea, start, end-1)
	}
	return nil
}

// parsePaddedString decodes a zero padded Latin-1 field.
func parsePaddedString(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c == 0 {
			break
		}
		sb.WriteRune(rune(c))
	}
	return strings.TrimSpace(sb.String())
}

// Program returns the C64 program image, without any embedded load address.
func (t *Tune) Program() []byte { return t.data }

// Songs returns the number of sub-tunes.
func (t *Tune) Songs() int { return int(t.Header.Songs) }

// CurrentSong returns the selected sub-tune, counting from 1.
func (t *Tune) CurrentSong() int { return t.current }

// SelectSong selects sub-tune n, counting from 1. Zero or an out of range
// value selects the tune's start song. It returns the song selected.
func (t *Tune) SelectSong(n int) int {
	if n < 1 || n > t.Songs() {
		n = int(t.Header.StartSong)
	}
	t.current = n
	return n
}

// Chips returns how many SID chips the tune drives.
func (t *Tune) Chips() int {
	n := 1
	if t.Header.Sid2Addr != 0 {
		n++
	}
	if t.Header.Sid3Addr != 0 {
		n++
	}
	return n
}

// SongSpeed returns how the current song's play routine is driven.
func (t *Tune) SongSpeed() Speed {
	if t.Header.IsRSID {
		return SpeedCIA
	}
	bit := min(t.current-1, 31)
	if t.Header.Speed&(1<<uint(bit)) != 0 {
		return SpeedCIA
	}
	return SpeedVBI
}

// Clock returns the video standard declared by the header.
func (t *Tune) Clock() Clock { return Clock((t.Header.Flags >> 2) & 0x3) }

// Model returns the SID revision declared by the header.
func (t *Tune) Model() Model { return Model((t.Header.Flags >> 4) & 0x3) }

// Info returns a summary of the tune with the current song.
func (t *Tune) Info() Info {
	return Info{
		Format:      t.Header.MagicID,
		Title:       t.Header.Name,
		Author:      t.Header.Author,
		Released:    t.Header.Released,
		Songs:       t.Songs(),
		StartSong:   int(t.Header.StartSong),
		CurrentSong: t.current,
		Speed:       t.SongSpeed(),
		Clock:       t.Clock(),
		Model:       t.Model(),
		Chips:       t.Chips(),
		LoadAddress: t.Header.LoadAddress,
		InitAddress: t.Header.InitAddress,
		PlayAddress: t.Header.PlayAddress,
		DataLength:  len(t.data),
		MUS:         t.Header.Flags&0x1 != 0,
	}
}
