package parser

import "github.com/keurnel/machoasm/architecture/x86_64"

// parsePush handles `push r64`, `push r16` and `push imm`, picking the
// narrowest immediate encoding that holds the value.
func parsePush(s string) (Instruction, error) {
	operand, err := oneOperand(s, "push")
	if err != nil {
		return Instruction{}, err
	}

	if reg, ok := x86_64.RegistersByName[operand]; ok {
		code, err := x86_64.PushReg(reg)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Bytes: code}, nil
	}

	imm, ok, err := ParseExpr(operand)
	if err != nil {
		return Instruction{}, err
	}
	if !ok {
		return Instruction{}, errorf("invalid push operand : %s", operand)
	}

	switch {
	case imm <= 0xFF:
		return Instruction{Bytes: x86_64.PushImm8(uint8(imm))}, nil
	case imm <= 0xFFFF:
		return Instruction{Bytes: x86_64.PushImm16(uint16(imm))}, nil
	case imm <= 0xFFFFFFFF:
		return Instruction{Bytes: x86_64.PushImm32(uint32(imm))}, nil
	default:
		return Instruction{}, errorf("%d does not fit a push immediate", imm)
	}
}
