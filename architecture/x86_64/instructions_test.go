package x86_64_test

import (
	"bytes"
	"testing"

	"github.com/keurnel/machoasm/architecture/x86_64"
)

// TestMovRegReg covers the register-to-register moves of all three
// supported widths.
func TestMovRegReg(t *testing.T) {
	tests := []struct {
		name string
		dst  x86_64.Register
		src  x86_64.Register
		want []byte
	}{
		{"mov rax, rcx", x86_64.RAX, x86_64.RCX, []byte{0x48, 0x89, 0xC8}},
		{"mov rdi, rax", x86_64.RDI, x86_64.RAX, []byte{0x48, 0x89, 0xC7}},
		{"mov r8, rax", x86_64.R8, x86_64.RAX, []byte{0x49, 0x89, 0xC0}},
		{"mov rax, r8", x86_64.RAX, x86_64.R8, []byte{0x4C, 0x89, 0xC0}},
		{"mov eax, esp", x86_64.EAX, x86_64.ESP, []byte{0x89, 0xE0}},
		{"mov r9d, eax", x86_64.R9D, x86_64.EAX, []byte{0x41, 0x89, 0xC1}},
		{"mov cx, r8w", x86_64.CX, x86_64.R8W, []byte{0x66, 0x44, 0x89, 0xC1}},
		{"mov ax, bx", x86_64.AX, x86_64.BX, []byte{0x66, 0x89, 0xD8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x86_64.MovRegReg(tt.dst, tt.src)
			if err != nil {
				t.Fatalf("MovRegReg() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("MovRegReg() = % X, want % X", got, tt.want)
			}
		})
	}
}

// TestMovRegRegWidthMismatch verifies mixed-width moves are rejected.
func TestMovRegRegWidthMismatch(t *testing.T) {
	if _, err := x86_64.MovRegReg(x86_64.RAX, x86_64.EAX); err == nil {
		t.Error("expected error for mov rax, eax")
	}
	if _, err := x86_64.MovRegReg(x86_64.AL, x86_64.BL); err == nil {
		t.Error("expected error for 8-bit mov")
	}
}

// TestMovRegImm covers the opcode-embedded immediate moves.
func TestMovRegImm(t *testing.T) {
	tests := []struct {
		name string
		dst  x86_64.Register
		imm  uint64
		want []byte
	}{
		{"mov eax, 42", x86_64.EAX, 42, []byte{0xB8, 0x2A, 0x00, 0x00, 0x00}},
		{"mov r10d, 42", x86_64.R10D, 42, []byte{0x41, 0xBA, 0x2A, 0x00, 0x00, 0x00}},
		{"mov ax, 42", x86_64.AX, 42, []byte{0x66, 0xB8, 0x2A, 0x00}},
		{"mov r9w, 1", x86_64.R9W, 1, []byte{0x66, 0x41, 0xB9, 0x01, 0x00}},
		{
			"mov rax, 0x200004",
			x86_64.RAX, 0x200004,
			[]byte{0x48, 0xB8, 0x04, 0x00, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			"mov r14, 42",
			x86_64.R14, 42,
			[]byte{0x49, 0xBE, 0x2A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x86_64.MovRegImm(tt.dst, tt.imm)
			if err != nil {
				t.Fatalf("MovRegImm() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("MovRegImm() = % X, want % X", got, tt.want)
			}
		})
	}
}

// TestMovRegImmOutOfRange verifies immediates are bounded by the register
// width.
func TestMovRegImmOutOfRange(t *testing.T) {
	if _, err := x86_64.MovRegImm(x86_64.EAX, 1<<32); err == nil {
		t.Error("expected error for 33-bit immediate into eax")
	}
	if _, err := x86_64.MovRegImm(x86_64.AX, 1<<16); err == nil {
		t.Error("expected error for 17-bit immediate into ax")
	}
}

// TestMovMemReg covers mov [mem], r64 including every ModR/M special case.
func TestMovMemReg(t *testing.T) {
	tests := []struct {
		name string
		dst  x86_64.Mem64
		src  x86_64.Register
		want []byte
	}{
		{"mov [rdi], rax", x86_64.MemReg(x86_64.RDI), x86_64.RAX, []byte{0x48, 0x89, 0x07}},
		{"mov [rdi + 42], rax", x86_64.MemRegOffset(x86_64.RDI, 42), x86_64.RAX, []byte{0x48, 0x89, 0x47, 0x2A}},
		{"mov [rbp], rax", x86_64.MemReg(x86_64.RBP), x86_64.RAX, []byte{0x48, 0x89, 0x45, 0x00}},
		{"mov [r13], rax", x86_64.MemReg(x86_64.R13), x86_64.RAX, []byte{0x4C, 0x89, 0x6D, 0x00}},
		{"mov [rsp], rax", x86_64.MemReg(x86_64.RSP), x86_64.RAX, []byte{0x48, 0x89, 0x04, 0x24}},
		{"mov [r12], rax", x86_64.MemReg(x86_64.R12), x86_64.RAX, []byte{0x4C, 0x89, 0x04, 0x24}},
		{
			"mov [rip + 0x2A], rax",
			x86_64.MemRipOffset(0x2A), x86_64.RAX,
			[]byte{0x48, 0x89, 0x05, 0x2A, 0x00, 0x00, 0x00},
		},
		{
			"mov [rbp + rax*8 + 42], r13",
			x86_64.MemSib(x86_64.RBP, 42, x86_64.RAX, 3), x86_64.R13,
			[]byte{0x4C, 0x89, 0x6C, 0xC5, 0x2A},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x86_64.MovMemReg(tt.dst, tt.src)
			if err != nil {
				t.Fatalf("MovMemReg() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("MovMemReg() = % X, want % X", got, tt.want)
			}
		})
	}

	if _, err := x86_64.MovMemReg(x86_64.MemReg(x86_64.RDI), x86_64.EAX); err == nil {
		t.Error("expected error for 32-bit source")
	}
}

// TestLea covers lea r64, [mem].
func TestLea(t *testing.T) {
	tests := []struct {
		name string
		dst  x86_64.Register
		src  x86_64.Mem64
		want []byte
	}{
		{"lea rax, [rdi]", x86_64.RAX, x86_64.MemReg(x86_64.RDI), []byte{0x48, 0x8D, 0x07}},
		{"lea rax, [rdi + 42]", x86_64.RAX, x86_64.MemRegOffset(x86_64.RDI, 42), []byte{0x48, 0x8D, 0x47, 0x2A}},
		{"lea rsp, [rsp]", x86_64.RSP, x86_64.MemReg(x86_64.RSP), []byte{0x48, 0x8D, 0x24, 0x24}},
		{"lea rax, [rsp]", x86_64.RAX, x86_64.MemReg(x86_64.RSP), []byte{0x48, 0x8D, 0x04, 0x24}},
		{
			"lea rdi, [rip + 42]",
			x86_64.RDI, x86_64.MemRipOffset(42),
			[]byte{0x48, 0x8D, 0x3D, 0x2A, 0x00, 0x00, 0x00},
		},
		{
			"lea rdi, [rax + rdi*2]",
			x86_64.RDI, x86_64.MemSib(x86_64.RAX, 0, x86_64.RDI, 1),
			[]byte{0x48, 0x8D, 0x3C, 0x78},
		},
		{
			"lea rdi, [rdi*1] no base",
			x86_64.RDI, x86_64.MemSibNoBase(0, x86_64.RDI, 0),
			[]byte{0x48, 0x8D, 0x3C, 0x7D, 0x00, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x86_64.Lea(tt.dst, tt.src)
			if err != nil {
				t.Fatalf("Lea() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Lea() = % X, want % X", got, tt.want)
			}
		})
	}

	if _, err := x86_64.Lea(x86_64.EAX, x86_64.MemReg(x86_64.RDI)); err == nil {
		t.Error("expected error for 32-bit destination")
	}
}

// TestPush covers the push forms.
func TestPush(t *testing.T) {
	regs := []struct {
		name string
		reg  x86_64.Register
		want []byte
	}{
		{"push rax", x86_64.RAX, []byte{0x50}},
		{"push r10", x86_64.R10, []byte{0x41, 0x52}},
		{"push ax", x86_64.AX, []byte{0x66, 0x50}},
		{"push r10w", x86_64.R10W, []byte{0x66, 0x41, 0x52}},
	}

	for _, tt := range regs {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x86_64.PushReg(tt.reg)
			if err != nil {
				t.Fatalf("PushReg() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("PushReg() = % X, want % X", got, tt.want)
			}
		})
	}

	t.Run("push eax rejected", func(t *testing.T) {
		if _, err := x86_64.PushReg(x86_64.EAX); err == nil {
			t.Error("push r32 must not encode in 64-bit mode")
		}
	})

	t.Run("push imm8", func(t *testing.T) {
		if got, want := x86_64.PushImm8(42), []byte{0x6A, 0x2A}; !bytes.Equal(got, want) {
			t.Errorf("PushImm8() = % X, want % X", got, want)
		}
	})
	t.Run("push imm16", func(t *testing.T) {
		if got, want := x86_64.PushImm16(420), []byte{0x66, 0x68, 0xA4, 0x01}; !bytes.Equal(got, want) {
			t.Errorf("PushImm16() = % X, want % X", got, want)
		}
	})
	t.Run("push imm32", func(t *testing.T) {
		if got, want := x86_64.PushImm32(420), []byte{0x68, 0xA4, 0x01, 0x00, 0x00}; !bytes.Equal(got, want) {
			t.Errorf("PushImm32() = % X, want % X", got, want)
		}
	})
}

// TestPop covers the pop forms.
func TestPop(t *testing.T) {
	tests := []struct {
		name string
		reg  x86_64.Register
		want []byte
	}{
		{"pop rdi", x86_64.RDI, []byte{0x5F}},
		{"pop r15", x86_64.R15, []byte{0x41, 0x5F}},
		{"pop di", x86_64.DI, []byte{0x66, 0x5F}},
		{"pop r15w", x86_64.R15W, []byte{0x66, 0x41, 0x5F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x86_64.PopReg(tt.reg)
			if err != nil {
				t.Fatalf("PopReg() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("PopReg() = % X, want % X", got, tt.want)
			}
		})
	}

	if _, err := x86_64.PopReg(x86_64.EAX); err == nil {
		t.Error("pop r32 must not encode in 64-bit mode")
	}
}

// TestRetSyscall covers the no-operand instructions.
func TestRetSyscall(t *testing.T) {
	if got, want := x86_64.Ret(), []byte{0xC3}; !bytes.Equal(got, want) {
		t.Errorf("Ret() = % X, want % X", got, want)
	}
	if got, want := x86_64.Syscall(), []byte{0x0F, 0x05}; !bytes.Equal(got, want) {
		t.Errorf("Syscall() = % X, want % X", got, want)
	}
}

// TestInstructionLengthBound verifies every encoding stays within the
// architectural 15-byte limit.
func TestInstructionLengthBound(t *testing.T) {
	encodings := [][]byte{
		x86_64.Ret(),
		x86_64.Syscall(),
		x86_64.PushImm32(0xFFFFFFFF),
	}

	if code, err := x86_64.MovRegImm(x86_64.R15, 0xFFFFFFFFFFFFFFFF); err == nil {
		encodings = append(encodings, code)
	} else {
		t.Fatalf("MovRegImm() error: %v", err)
	}
	if code, err := x86_64.MovMemReg(x86_64.MemSib(x86_64.R13, 0x12345678, x86_64.R9, 3), x86_64.R8); err == nil {
		encodings = append(encodings, code)
	} else {
		t.Fatalf("MovMemReg() error: %v", err)
	}

	for _, code := range encodings {
		if len(code) == 0 || len(code) > x86_64.MaxInstructionLen {
			t.Errorf("encoding length %d out of range: % X", len(code), code)
		}
	}
}
