// SPDX-License-Identifier: EPL-2.0

// Package tune parses C64 SID music files in the PSID and RSID formats.
//
// A SID file is a small header followed by a 6502 program image. The
// header names the program's load, init and play addresses, the number
// of sub-tunes it holds and the hardware it expects.
//
// # Supported Formats
//
//   - PSID v1 (0x76 byte header)
//   - PSID v2, v3 and v4 (0x7C byte header, flags, extra SID chips)
//   - RSID v2, v3 and v4
//
// # Parsing
//
//	data, _ := os.ReadFile("Commando.sid")
//	t, err := tune.Parse(data)
//	if err != nil {
//	    // err wraps one of the Err* values
//	}
//	t.SelectSong(2)
//	fmt.Println(t.Info().Title)
//
// Parse copies what it keeps, so data can be reused after the call.
package tune
