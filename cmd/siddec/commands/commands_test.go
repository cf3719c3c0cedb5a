// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/siddec/internal/psidtest"
)

// runCmd executes the command line with a private config file.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(append([]string{"--config", cfg}, args...))

	err := root.Execute()
	return out.String(), err
}

func writeTune(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestVersion(t *testing.T) {
	stdout, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "siddec dev") {
		t.Errorf("expected 'siddec dev', got: %s", stdout)
	}

	stdout, err = runCmd(t, "-v", "version")
	if err != nil {
		t.Fatalf("version -v: %v", err)
	}
	if !strings.Contains(stdout, "headless") || !strings.Contains(stdout, "mos8580") {
		t.Errorf("verbose version missing driver or properties: %s", stdout)
	}
}

func TestInfo(t *testing.T) {
	path := writeTune(t, "delta.sid", psidtest.File{Name: "Delta", Author: "Rob Hubbard", Songs: 12, StartSong: 2}.Bytes())

	stdout, err := runCmd(t, "info", "--tune", "5", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Delta", "Rob Hubbard", "12 (start 2)", "5, vbi", "PSID"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("info output missing %q:\n%s", want, stdout)
		}
	}
}

func TestInfo_BadTune(t *testing.T) {
	good := writeTune(t, "good.sid", psidtest.Minimal("Good"))
	bad := writeTune(t, "bad.sid", []byte("not a tune"))

	stdout, err := runCmd(t, "info", good, bad)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("info error = %v, want 1 of 2 failed", err)
	}
	if !strings.Contains(stdout, "Good") || !strings.Contains(stdout, "bad.sid") {
		t.Errorf("info output = %s", stdout)
	}
}

func TestDecode_WAV(t *testing.T) {
	in := writeTune(t, "commando.sid", psidtest.Minimal("Commando"))
	out := filepath.Join(t.TempDir(), "commando.wav")

	stdout, err := runCmd(t, "decode", "--length", "1s", "--rate", "8000", "--channels", "2", in, out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(stdout, "Commando") || !strings.Contains(stdout, "900ms") {
		t.Errorf("decode output = %s", stdout)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	dec := gowav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}
	if buf.Format.SampleRate != 8000 || buf.Format.NumChannels != 2 {
		t.Errorf("format = %dHz/%dch", buf.Format.SampleRate, buf.Format.NumChannels)
	}
	// 1s of song less the 100ms warm-up
	if len(buf.Data) != 7200*2 {
		t.Errorf("decoded %d samples, want %d", len(buf.Data), 7200*2)
	}
}

func TestDecode_Errors(t *testing.T) {
	in := writeTune(t, "x.sid", psidtest.Minimal("X"))
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"decode", in, filepath.Join(dir, "x.mp3")}, "unknown output format"},
		{"missing input", []string{"decode", filepath.Join(dir, "none.sid"), filepath.Join(dir, "x.wav")}, "failed to open tune"},
		{"bad tune number", []string{"decode", "--tune", "500", in, filepath.Join(dir, "x.wav")}, "decoder.tune"},
		{"bad clock", []string{"decode", "--clock", "secam", in, filepath.Join(dir, "x.wav")}, "decoder.clock"},
		{"not a tune", []string{"decode", writeTune(t, "txt.sid", []byte("hello")), filepath.Join(dir, "y.wav")}, "could not load tune"},
		{"args", []string{"decode", in}, "accepts 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "y.wav")); !os.IsNotExist(err) {
		t.Error("failed decode left its output file behind")
	}
}

func TestDecode_RawOrder(t *testing.T) {
	in := writeTune(t, "raw.sid", psidtest.Minimal("Raw"))
	out := filepath.Join(t.TempDir(), "raw.pcm")
	t.Setenv("SIDDEC_ORDER", "be")

	if _, err := runCmd(t, "decode", "--length", "200ms", "--rate", "8000", "--channels", "1", in, out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	// 200ms less 100ms warm-up at 8kHz mono
	if len(data) != 800*2 {
		t.Errorf("wrote %d bytes, want %d", len(data), 800*2)
	}
}
