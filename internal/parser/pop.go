package parser

import "github.com/keurnel/machoasm/architecture/x86_64"

// parsePop handles `pop r64` and `pop r16`.
func parsePop(s string) (Instruction, error) {
	operand, err := oneOperand(s, "pop")
	if err != nil {
		return Instruction{}, err
	}

	reg, ok := x86_64.RegistersByName[operand]
	if !ok {
		return Instruction{}, errorf("invalid pop operand : %s", operand)
	}

	code, err := x86_64.PopReg(reg)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{Bytes: code}, nil
}
