// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidFormat, "invalid sample format"},
		{ErrUnsupportedConversion, "unsupported unit conversion"},
		{ErrSinkNotOpen, "sink is not open"},
		{ErrSinkClosed, "sink is closed"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
	}
}

func TestErrUnsupportedConversion_Wrapping(t *testing.T) {
	t.Parallel()

	wrappedErr := fmt.Errorf("position query: %w", ErrUnsupportedConversion)
	if !errors.Is(wrappedErr, ErrUnsupportedConversion) {
		t.Error("errors.Is() failed for wrapped ErrUnsupportedConversion")
	}

	if errors.Is(wrappedErr, ErrInvalidFormat) {
		t.Error("errors.Is() should return false for different error")
	}
}
