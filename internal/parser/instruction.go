package parser

import (
	"strings"

	"github.com/keurnel/machoasm/architecture/x86_64"
)

// Instruction is one encoded instruction plus an optional relocation
// request for a symbolic immediate.
type Instruction struct {
	Bytes []byte
	Reloc *LocalReloc
}

// LocalReloc describes a patch site relative to the start of the
// instruction. The driver rebases Offset onto the owning section when it
// appends the bytes.
type LocalReloc struct {
	// Offset from the start of the instruction to the byte being
	// relocated.
	Offset int
	Symbol string
	PCRel  bool
	Len    uint8 // the patch covers 2^Len bytes
}

// ParseInstruction matches a mnemonic line and encodes it.
func ParseInstruction(s string) (Instruction, bool, error) {
	mnemonic := s
	if idx := strings.IndexAny(s, " \t"); idx != -1 {
		mnemonic = s[:idx]
	}

	switch mnemonic {
	case "mov":
		instr, err := parseMov(s)
		return instr, true, err
	case "lea":
		instr, err := parseLea(s)
		return instr, true, err
	case "push":
		instr, err := parsePush(s)
		return instr, true, err
	case "pop":
		instr, err := parsePop(s)
		return instr, true, err
	case "ret":
		return Instruction{Bytes: x86_64.Ret()}, true, nil
	case "syscall":
		return Instruction{Bytes: x86_64.Syscall()}, true, nil
	default:
		return Instruction{}, false, nil
	}
}

// splitTwoOperands splits `op dst, src` into its two operand strings.
func splitTwoOperands(s, mnemonic string) (string, string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), mnemonic))
	dst, src, found := strings.Cut(rest, ",")
	if !found {
		return "", "", errorf("invalid %s instruction format", mnemonic)
	}
	return strings.TrimSpace(dst), strings.TrimSpace(src), nil
}

// oneOperand extracts the single operand of `op operand`.
func oneOperand(s, mnemonic string) (string, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", errorf("%s takes exactly one operand", mnemonic)
	}
	return fields[1], nil
}
