package parser

import "github.com/keurnel/machoasm/architecture/x86_64"

// parseMov handles every mov form:
//
//	mov r64, imm64 | r64 | symbol | [mem]-source is not supported
//	mov r32, imm32 | r32 | symbol
//	mov r16, imm16 | r16
//	mov [mem], r64
//
// A symbolic immediate encodes as a zero immediate plus a relocation
// request covering the immediate bytes.
func parseMov(s string) (Instruction, error) {
	dstStr, srcStr, err := splitTwoOperands(s, "mov")
	if err != nil {
		return Instruction{}, err
	}

	// destination is a memory operand
	if mem, ok, err := ParseMem(dstStr); ok || err != nil {
		if err != nil {
			return Instruction{}, err
		}
		src, ok := ParseReg64(srcStr)
		if !ok {
			return Instruction{}, errorf("mov to memory needs a 64-bit source register, got %s", srcStr)
		}
		code, err := x86_64.MovMemReg(mem, src)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Bytes: code}, nil
	}

	// destination is a 64-bit register
	if dst, ok := ParseReg64(dstStr); ok {
		if imm, ok, err := ParseExpr(srcStr); ok || err != nil {
			if err != nil {
				return Instruction{}, err
			}
			return encodeMovImm(dst, imm, nil)
		}

		if src, ok := ParseReg64(srcStr); ok {
			code, err := x86_64.MovRegReg(dst, src)
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Bytes: code}, nil
		}

		if !IsIdentifier(srcStr) {
			return Instruction{}, errorf("invalid mov source operand %s", srcStr)
		}
		// symbolic immediate, patched by the linker: 2^3 = 8 bytes
		return encodeMovImm(dst, 0, &LocalReloc{Symbol: srcStr, Len: 3})
	}

	// destination is a 32-bit register
	if dst, ok := ParseReg32(dstStr); ok {
		if imm, ok, err := ParseExpr(srcStr); ok || err != nil {
			if err != nil {
				return Instruction{}, err
			}
			if imm > 0xFFFFFFFF {
				return Instruction{}, errorf("%d is not 32bit", imm)
			}
			return encodeMovImm(dst, imm, nil)
		}

		if src, ok := ParseReg32(srcStr); ok {
			code, err := x86_64.MovRegReg(dst, src)
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Bytes: code}, nil
		}

		if !IsIdentifier(srcStr) {
			return Instruction{}, errorf("invalid mov source operand %s", srcStr)
		}
		// symbolic immediate: 2^2 = 4 bytes
		return encodeMovImm(dst, 0, &LocalReloc{Symbol: srcStr, Len: 2})
	}

	// destination is a 16-bit register
	if dst, ok := ParseReg16(dstStr); ok {
		if imm, ok, err := ParseExpr(srcStr); ok || err != nil {
			if err != nil {
				return Instruction{}, err
			}
			if imm > 0xFFFF {
				return Instruction{}, errorf("%d is not 16bit", imm)
			}
			return encodeMovImm(dst, imm, nil)
		}

		if src, ok := ParseReg16(srcStr); ok {
			code, err := x86_64.MovRegReg(dst, src)
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Bytes: code}, nil
		}

		return Instruction{}, errorf("invalid mov source operand %s", srcStr)
	}

	return Instruction{}, errorf("invalid mov destination operand %s", dstStr)
}

// encodeMovImm encodes the immediate form and anchors the relocation, if
// any, at the immediate's offset within the instruction.
func encodeMovImm(dst x86_64.Register, imm uint64, reloc *LocalReloc) (Instruction, error) {
	code, err := x86_64.MovRegImm(dst, imm)
	if err != nil {
		return Instruction{}, err
	}
	if reloc != nil {
		reloc.Offset = len(code) - (1 << reloc.Len)
	}
	return Instruction{Bytes: code, Reloc: reloc}, nil
}
