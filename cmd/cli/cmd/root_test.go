package cmd

import "testing"

func TestReplaceExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"prog.s", "prog.o"},
		{"prog.asm", "prog.o"},
		{"dir/prog.s", "dir/prog.o"},
		{"noext", "noext.o"},
		{"a.b.s", "a.b.o"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := replaceExtension(tt.in, ".o"); got != tt.want {
				t.Errorf("replaceExtension(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
