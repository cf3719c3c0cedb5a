// SPDX-License-Identifier: EPL-2.0

package element

import (
	"fmt"

	"github.com/ik5/siddec/audio"
)

// negotiate picks the first candidate that signed 16-bit native endian
// PCM can satisfy and fixes its open fields.
func negotiate(candidates []audio.Caps) (audio.Format, error) {
	if len(candidates) == 0 {
		return audio.Format{}, fmt.Errorf("%w: downstream offered no formats", ErrNoFormat)
	}
	for _, c := range candidates {
		if c.Compatible() {
			return c.Fixate(), nil
		}
	}
	return audio.Format{}, fmt.Errorf("%w: none of %d offered formats is S16 %s, %d-%dHz, %d-%d channels",
		ErrNoFormat, len(candidates), audio.NativeEndianness(), audio.MinRate, audio.MaxRate, audio.MinChannels, audio.MaxChannels)
}
