package parser

import "github.com/keurnel/machoasm/architecture/x86_64"

// parseLea handles `lea r64, [mem]`.
func parseLea(s string) (Instruction, error) {
	dstStr, srcStr, err := splitTwoOperands(s, "lea")
	if err != nil {
		return Instruction{}, err
	}

	dst, ok := ParseReg64(dstStr)
	if !ok {
		return Instruction{}, errorf("lea needs a 64-bit destination register, got %s", dstStr)
	}

	mem, ok, err := ParseMem(srcStr)
	if err != nil {
		return Instruction{}, err
	}
	if !ok {
		return Instruction{}, errorf("lea needs a memory source operand, got %s", srcStr)
	}

	code, err := x86_64.Lea(dst, mem)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{Bytes: code}, nil
}
