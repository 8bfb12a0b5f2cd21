package parser

import "github.com/keurnel/machoasm/architecture/x86_64"

// ParseReg64 matches a 64-bit register name.
func ParseReg64(s string) (x86_64.Register, bool) {
	return parseRegOfType(s, x86_64.Register64)
}

// ParseReg32 matches a 32-bit register name.
func ParseReg32(s string) (x86_64.Register, bool) {
	return parseRegOfType(s, x86_64.Register32)
}

// ParseReg16 matches a 16-bit register name.
func ParseReg16(s string) (x86_64.Register, bool) {
	return parseRegOfType(s, x86_64.Register16)
}

func parseRegOfType(s string, t x86_64.RegisterType) (x86_64.Register, bool) {
	reg, ok := x86_64.RegistersByName[s]
	if !ok || reg.Type != t {
		return x86_64.Register{}, false
	}
	return reg, true
}
