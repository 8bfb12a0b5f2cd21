package x86_64

import "fmt"

// PrefixOperandSize is the legacy operand-size override prefix selecting
// 16-bit operands in 64-bit mode.
const PrefixOperandSize byte = 0x66

//
// Data Movement Instructions
//

// MovRegReg encodes mov dst, src for two registers of equal width.
// 8-bit moves are not part of the supported set.
func MovRegReg(dst, src Register) ([]byte, error) {
	if dst.Type != src.Type {
		return nil, fmt.Errorf("mov %s, %s: operand widths differ", dst.Name, src.Name)
	}

	switch dst.Type {
	case Register64:
		return NewEncoder().REXW(true).Opcode(0x89).ModRM(src, dst).Encode(), nil
	case Register32:
		return NewEncoder().Opcode(0x89).ModRM(src, dst).Encode(), nil
	case Register16:
		return NewEncoder().Prefix(PrefixOperandSize).Opcode(0x89).ModRM(src, dst).Encode(), nil
	default:
		return nil, fmt.Errorf("mov %s, %s: unsupported operand width", dst.Name, src.Name)
	}
}

// MovRegImm encodes mov dst, imm through the opcode-embedded register
// forms (0xB8+rd). The immediate width follows the register width; imm
// must fit it.
func MovRegImm(dst Register, imm uint64) ([]byte, error) {
	switch dst.Type {
	case Register64:
		return NewEncoder().
			REXW(true).
			REXB(dst.Extended()).
			Opcode(0xB8 + dst.Code()).
			Imm(BytesU64(imm)).
			Encode(), nil
	case Register32:
		if imm > 0xFFFFFFFF {
			return nil, fmt.Errorf("mov %s, %d: immediate does not fit 32 bits", dst.Name, imm)
		}
		return NewEncoder().
			REXB(dst.Extended()).
			Opcode(0xB8 + dst.Code()).
			Imm(BytesU32(uint32(imm))).
			Encode(), nil
	case Register16:
		if imm > 0xFFFF {
			return nil, fmt.Errorf("mov %s, %d: immediate does not fit 16 bits", dst.Name, imm)
		}
		return NewEncoder().
			Prefix(PrefixOperandSize).
			REXB(dst.Extended()).
			Opcode(0xB8 + dst.Code()).
			Imm(BytesU16(uint16(imm))).
			Encode(), nil
	default:
		return nil, fmt.Errorf("mov %s, imm: unsupported operand width", dst.Name)
	}
}

// MovMemReg encodes mov [mem], src for a 64-bit source register.
func MovMemReg(dst Mem64, src Register) ([]byte, error) {
	if src.Type != Register64 {
		return nil, fmt.Errorf("mov mem, %s: source must be a 64-bit register", src.Name)
	}
	return NewEncoder().REXW(true).Opcode(0x89).ModRM(src, dst).Encode(), nil
}

// Lea encodes lea dst, [mem] for a 64-bit destination register.
func Lea(dst Register, src Mem64) ([]byte, error) {
	if dst.Type != Register64 {
		return nil, fmt.Errorf("lea %s, mem: destination must be a 64-bit register", dst.Name)
	}
	return NewEncoder().REXW(true).Opcode(0x8D).ModRM(dst, src).Encode(), nil
}

//
// Stack Instructions
//

// PushReg encodes push reg. Only the 16- and 64-bit forms exist in
// 64-bit mode; push r32 is not encodable.
//
// Note that the 16-bit form pushes 2 bytes and breaks the 64-bit stack
// alignment.
func PushReg(reg Register) ([]byte, error) {
	switch reg.Type {
	case Register64:
		return NewEncoder().REXB(reg.Extended()).Opcode(0x50 + reg.Code()).Encode(), nil
	case Register16:
		return NewEncoder().
			Prefix(PrefixOperandSize).
			REXB(reg.Extended()).
			Opcode(0x50 + reg.Code()).
			Encode(), nil
	default:
		return nil, fmt.Errorf("push %s: only 16-bit and 64-bit registers can be pushed", reg.Name)
	}
}

// PushImm8 encodes push imm8.
func PushImm8(imm uint8) []byte {
	return NewEncoder().Opcode(0x6A).Imm(BytesU8(imm)).Encode()
}

// PushImm16 encodes push imm16.
func PushImm16(imm uint16) []byte {
	return NewEncoder().Prefix(PrefixOperandSize).Opcode(0x68).Imm(BytesU16(imm)).Encode()
}

// PushImm32 encodes push imm32.
func PushImm32(imm uint32) []byte {
	return NewEncoder().Opcode(0x68).Imm(BytesU32(imm)).Encode()
}

// PopReg encodes pop reg. As with push, only the 16- and 64-bit forms
// exist in 64-bit mode.
func PopReg(reg Register) ([]byte, error) {
	switch reg.Type {
	case Register64:
		return NewEncoder().REXB(reg.Extended()).Opcode(0x58 + reg.Code()).Encode(), nil
	case Register16:
		return NewEncoder().
			Prefix(PrefixOperandSize).
			REXB(reg.Extended()).
			Opcode(0x58 + reg.Code()).
			Encode(), nil
	default:
		return nil, fmt.Errorf("pop %s: only 16-bit and 64-bit registers can be popped", reg.Name)
	}
}

//
// Control Flow Instructions
//

// Ret encodes a near return.
func Ret() []byte {
	return NewEncoder().Opcode(0xC3).Encode()
}

// Syscall encodes the fast system call instruction.
func Syscall() []byte {
	return NewEncoder().Opcode(0x0F, 0x05).Encode()
}
