package assembler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keurnel/machoasm/internal/assembler"
	"github.com/keurnel/machoasm/internal/macho"
	"github.com/keurnel/machoasm/internal/obj"
)

func assemble(t *testing.T, source string) *assembler.Assembler {
	t.Helper()
	a := assembler.New()
	require.NoError(t, a.ReadFrom(strings.NewReader(source)))
	return a
}

func TestAssembleMinimalProgram(t *testing.T) {
	a := assemble(t, `
global _main
section .text
_main:
    mov eax, 42
    ret
`)

	o := a.Object()
	require.Equal(t, []byte{0xB8, 0x2A, 0x00, 0x00, 0x00, 0xC3}, o.Text.Bytes)
	require.Empty(t, o.Text.Relocs)

	require.Len(t, o.Text.Symbols, 1)
	require.Equal(t, obj.Ref("_main", 0, true), o.Text.Symbols[0])

	var buf bytes.Buffer
	require.NoError(t, a.WriteTo(&buf))
	require.Equal(t, []byte{0xCF, 0xFA, 0xED, 0xFE}, buf.Bytes()[:4])
}

func TestAssembleDataWithLabel(t *testing.T) {
	a := assemble(t, `
section .data
msg db "Hi", 0
section .text
global _start
_start:
    ret
`)

	o := a.Object()
	require.Equal(t, []byte{0x48, 0x69, 0x00}, o.Data.Bytes)
	require.Equal(t, []byte{0xC3}, o.Text.Bytes)

	require.Len(t, o.Text.Symbols, 1)
	require.Equal(t, obj.Ref("_start", 0, true), o.Text.Symbols[0])
	require.Len(t, o.Data.Symbols, 1)
	require.Equal(t, obj.Ref("msg", 0, false), o.Data.Symbols[0])

	// text is ordinal 1, data ordinal 2 in the emitted file
	var buf bytes.Buffer
	require.NoError(t, a.WriteTo(&buf))
	file := buf.Bytes()

	symtab, err := macho.ReadSymtabCommand(bytes.NewReader(file[32+72+2*80:]))
	require.NoError(t, err)
	require.EqualValues(t, 2, symtab.NSyms)

	start, err := macho.ReadNList64(bytes.NewReader(file[symtab.SymOff:]))
	require.NoError(t, err)
	require.EqualValues(t, 1, start.Sect)

	msg, err := macho.ReadNList64(bytes.NewReader(file[symtab.SymOff+macho.NList64Size:]))
	require.NoError(t, err)
	require.EqualValues(t, 2, msg.Sect)
}

func TestAssembleWideImmediateExpression(t *testing.T) {
	a := assemble(t, "mov rax, 0x200000 + 4\n")

	require.Equal(t,
		[]byte{0x48, 0xB8, 0x04, 0x00, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00},
		a.Object().Text.Bytes)
}

func TestAssembleSymbolicImmediateRelocation(t *testing.T) {
	a := assemble(t, `
global _main
section .text
_main:
    mov rax, msg
    ret
section .data
msg db 0x42
`)

	o := a.Object()
	require.Equal(t,
		[]byte{0x48, 0xB8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC3},
		o.Text.Bytes)

	require.Len(t, o.Text.Relocs, 1)
	reloc := o.Text.Relocs[0]
	require.EqualValues(t, 2, reloc.Addr)
	require.Equal(t, "msg", reloc.Symbol)
	require.False(t, reloc.PCRel)
	require.EqualValues(t, 3, reloc.Len)

	var buf bytes.Buffer
	require.NoError(t, a.WriteTo(&buf))
	file := buf.Bytes()

	lc, err := macho.ReadLoadCommand(bytes.NewReader(file[32:]))
	require.NoError(t, err)
	text := lc.(macho.Segment64).Sections[0]

	entry, err := macho.ReadRelocationInfo(bytes.NewReader(file[text.RelOff:]))
	require.NoError(t, err)
	require.EqualValues(t, 2, entry.Addr)
	require.EqualValues(t, 1, entry.SymbolNum) // msg follows _main
	require.True(t, entry.Extern)
	require.Equal(t, macho.RelocLenQuad, entry.Length)
	require.Equal(t, macho.X8664RelocUnsigned, entry.Type)
}

func TestAssembleSibEdgeCases(t *testing.T) {
	a := assemble(t, "mov [rbp + rax*8 + 42], r13\nlea rdi, [rdi*1]\n")

	require.Equal(t, []byte{
		0x4C, 0x89, 0x6C, 0xC5, 0x2A,
		0x48, 0x8D, 0x3C, 0x7D, 0x00, 0x00, 0x00, 0x00,
	}, a.Object().Text.Bytes)
}

func TestAssembleSecondLabelOffset(t *testing.T) {
	a := assemble(t, `
section .text
first:
    ret
second:
    syscall
`)

	o := a.Object()
	require.Len(t, o.Text.Symbols, 2)
	require.Equal(t, obj.Ref("first", 0, false), o.Text.Symbols[0])
	require.Equal(t, obj.Ref("second", 1, false), o.Text.Symbols[1])
}

func TestAssembleUndefinedRelocTargetBecomesUndef(t *testing.T) {
	a := assemble(t, "mov rax, external_thing\n")

	o := a.Object()
	require.Len(t, o.Text.Symbols, 1)
	require.Equal(t, obj.Undef("external_thing"), o.Text.Symbols[0])

	// the file writes cleanly, with an N_EXT|N_UNDF entry
	var buf bytes.Buffer
	require.NoError(t, a.WriteTo(&buf))
}

func TestAssembleBssLabel(t *testing.T) {
	a := assemble(t, `
section .bss
buf:
`)

	o := a.Object()
	require.Len(t, o.Bss.Symbols, 1)
	require.Equal(t, obj.Ref("buf", 0, false), o.Bss.Symbols[0])
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{
			"write to bss",
			"section .bss\ndb 0x42\n",
			"error at line 2: can't write data to .bss section",
		},
		{
			"instruction in bss",
			"section .bss\nret\n",
			"error at line 2: can't write data to .bss section",
		},
		{
			"duplicate symbol",
			"a:\na:\n",
			"error at line 2: duplicate symbol a",
		},
		{
			"unknown opcode",
			"ret\nhoge rax\n",
			"error at line 2: unrecognized line \"hoge rax\"",
		},
		{
			"push r32",
			"push eax\n",
			"error at line 1: push eax: only 16-bit and 64-bit registers can be pushed",
		},
		{
			"bad section",
			"section .rodata\n",
			"error at line 1: unrecognized section .rodata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := assembler.New()
			err := a.ReadFrom(strings.NewReader(tt.source))
			require.Error(t, err)
			require.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestListing(t *testing.T) {
	a := assemble(t, `
section .text
mov eax, 42
ret
section .data
db 1, 2, 3
`)

	var buf bytes.Buffer
	a.Listing(&buf)
	out := buf.String()
	require.Contains(t, out, "__text (6 bytes)")
	require.Contains(t, out, "0000: b8 2a 00 00 00 c3")
	require.Contains(t, out, "__data (3 bytes)")
	require.Contains(t, out, "0000: 01 02 03")
}
