package diag_test

import (
	"errors"
	"testing"

	"github.com/keurnel/machoasm/internal/diag"
)

func TestErrorRendering(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no line", diag.New("unknown opcode hoge"), "error: unknown opcode hoge"},
		{"with line", &diag.Error{Line: 3, Msg: "comma expected"}, "error at line 3: comma expected"},
		{"formatted", diag.Newf("%d is not a %d bit number", 300, 8), "error: 300 is not a 8 bit number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAt(t *testing.T) {
	t.Run("attaches line to bare error", func(t *testing.T) {
		err := diag.At(7, errors.New("boom"))
		if got, want := err.Error(), "error at line 7: boom"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("attaches line to diag error", func(t *testing.T) {
		err := diag.At(7, diag.New("boom"))
		if got, want := err.Error(), "error at line 7: boom"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("keeps existing line", func(t *testing.T) {
		err := diag.At(9, &diag.Error{Line: 7, Msg: "boom"})
		if got, want := err.Error(), "error at line 7: boom"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if diag.At(1, nil) != nil {
			t.Error("At(1, nil) should be nil")
		}
	})
}
