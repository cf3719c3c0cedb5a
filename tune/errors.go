// SPDX-License-Identifier: EPL-2.0

package tune

import "errors"

var (
	ErrTooShort          = errors.New("file is too short for a SID header")
	ErrTooLarge          = errors.New("file exceeds the maximum tune length")
	ErrUnknownFormat     = errors.New("not a PSID or RSID file")
	ErrUnsupportedVer    = errors.New("unsupported SID file version")
	ErrBadDataOffset     = errors.New("bad data offset")
	ErrBadSongCount      = errors.New("song count out of range")
	ErrNoProgram         = errors.New("no program data")
	ErrMissingLoadAddr   = errors.New("program data missing embedded load address")
	ErrProgramTooLarge   = errors.New("program does not fit in C64 memory")
	ErrBadRSID           = errors.New("invalid RSID header")
	ErrBadSIDAddress     = errors.New("invalid extra SID address")
	ErrBadRelocationArea = errors.New("invalid relocation area")
)
