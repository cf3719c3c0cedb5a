// SPDX-License-Identifier: EPL-2.0

package raw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/utils"
)

func pcm(samples ...int16) []byte {
	data := make([]byte, 2*len(samples))
	utils.PutInt16s(data, samples, binary.NativeEndian)
	return data
}

func TestSink_ByteOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		order audio.Endianness
		want  []byte
	}{
		{"little", audio.LittleEndian, []byte{0x02, 0x01, 0xfe, 0xff}},
		{"big", audio.BigEndian, []byte{0x01, 0x02, 0xff, 0xfe}},
		{"native", audio.EndianAny, pcm(0x0102, -2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := new(bytes.Buffer)
			sink, err := Encoder{Order: tt.order}.Encode(out, audio.Caps{})
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			sink.Open(audio.Format{Rate: 8000, Channels: 1})
			if err := sink.WriteBuffer(&audio.Buffer{Data: pcm(0x0102, -2)}); err != nil {
				t.Fatalf("WriteBuffer() error = %v", err)
			}
			sink.Close()

			if !bytes.Equal(out.Bytes(), tt.want) {
				t.Errorf("wrote % x, want % x", out.Bytes(), tt.want)
			}
		})
	}
}

func TestSink_SwapDoesNotTouchInput(t *testing.T) {
	t.Parallel()

	other := audio.BigEndian
	if audio.NativeEndianness() == audio.BigEndian {
		other = audio.LittleEndian
	}

	sink, _ := Encoder{Order: other}.Encode(new(bytes.Buffer), audio.Caps{})
	sink.Open(audio.Format{Rate: 8000, Channels: 1})

	in := pcm(0x0102)
	sink.WriteBuffer(&audio.Buffer{Data: in})
	if !bytes.Equal(in, pcm(0x0102)) {
		t.Errorf("input buffer modified to % x", in)
	}
}

func TestSink_Format(t *testing.T) {
	t.Parallel()

	s, _ := Encoder{}.Encode(new(bytes.Buffer), audio.Caps{Rate: 44100})
	f := audio.Format{Rate: 44100, Channels: 2}
	if err := s.Open(f); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := s.(*sink).Format(); got != f {
		t.Errorf("Format() = %v, want %v", got, f)
	}
	if caps := s.Caps(); caps[0].Rate != 44100 || caps[0].Width != audio.SampleWidth {
		t.Errorf("Caps() = %+v", caps)
	}
}

func TestSink_Errors(t *testing.T) {
	t.Parallel()

	if _, err := (Encoder{Order: audio.Endianness(9)}).Encode(new(bytes.Buffer), audio.Caps{}); !errors.Is(err, audio.ErrInvalidFormat) {
		t.Errorf("Encode() with bad order = %v, want ErrInvalidFormat", err)
	}

	sink, _ := Encoder{}.Encode(new(bytes.Buffer), audio.Caps{})
	if err := sink.WriteBuffer(&audio.Buffer{}); !errors.Is(err, audio.ErrSinkNotOpen) {
		t.Errorf("WriteBuffer() before Open = %v", err)
	}
	sink.Open(audio.Format{Rate: 8000, Channels: 1})
	if err := sink.Open(audio.Format{Rate: 8000, Channels: 1}); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("second Open() = %v", err)
	}
	sink.Close()
	if err := sink.WriteBuffer(&audio.Buffer{}); !errors.Is(err, audio.ErrSinkClosed) {
		t.Errorf("WriteBuffer() after Close = %v", err)
	}
}
