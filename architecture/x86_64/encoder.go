package x86_64

// RegLike is an operand that can occupy the reg field of a ModR/M byte:
// a register, or a plain opcode-extension value.
type RegLike interface {
	// RexR - R bit of the REX prefix
	RexR() bool
	// RegBits - reg field of the ModR/M byte
	RegBits() byte
}

// RegMemLike is an operand that can occupy the r/m side of a ModR/M byte:
// a register or a memory reference.
type RegMemLike interface {
	// RexB - B bit of the REX prefix
	RexB() bool
	// RexX - X bit of the REX prefix
	RexX() bool
	// ModeBits - mode field of the ModR/M byte
	ModeBits() byte
	// RMBits - rm field of the ModR/M byte
	RMBits() byte
	// SIBByte - the SIB byte, if one is needed
	SIBByte() (byte, bool)
	// DispBytes - address displacement bytes
	DispBytes() Bytes
}

// OpcodeExt is an opcode extension carried in the reg field of the ModR/M
// byte (the /digit notation of the instruction reference).
type OpcodeExt byte

// RexR - opcode extensions never extend the reg field.
func (e OpcodeExt) RexR() bool { return false }

// RegBits - the extension value itself.
func (e OpcodeExt) RegBits() byte { return byte(e) }

// Encoder assembles one instruction from its symbolic parts. Configure it
// with the chainable setters, then call Encode. The zero-value-per-field
// defaults mean an Encoder with only an opcode yields exactly that opcode.
type Encoder struct {
	prefix    byte
	hasPrefix bool
	rexW      bool
	rexB      bool
	opcode    Bytes
	reg       RegLike
	rm        RegMemLike
	hasModRM  bool
	imm       Bytes
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Prefix adds a legacy prefix byte (0x66 for 16-bit operand size).
func (e *Encoder) Prefix(prefix byte) *Encoder {
	e.prefix = prefix
	e.hasPrefix = true
	return e
}

// REXW requests a REX prefix with W=1 (64-bit operand size).
func (e *Encoder) REXW(on bool) *Encoder {
	e.rexW = on
	return e
}

// REXB requests the REX.B bit directly. This is the opcode-embedded
// register form (0xB8+rd, 0x50+rd, ...) where the register is not
// described by a ModR/M byte.
func (e *Encoder) REXB(on bool) *Encoder {
	e.rexB = on
	return e
}

// Opcode sets the 1-3 opcode bytes.
func (e *Encoder) Opcode(opcode ...byte) *Encoder {
	e.opcode = BytesOf(opcode...)
	return e
}

// ModRM sets the two ModR/M operands: reg side and r/m side.
func (e *Encoder) ModRM(reg RegLike, rm RegMemLike) *Encoder {
	e.reg = reg
	e.rm = rm
	e.hasModRM = true
	return e
}

// Imm sets the immediate operand bytes.
func (e *Encoder) Imm(imm Bytes) *Encoder {
	e.imm = imm
	return e
}

// Encode composes the final byte sequence. An 8-byte immediate is only
// legal in 64-bit operand mode (mov r64, imm64); requesting one without
// REX.W is a programming error and panics.
func (e *Encoder) Encode() []byte {
	var code ByteCode

	if e.hasPrefix {
		code.SetPrefix(e.prefix)
	}

	code.SetOpcode(e.opcode)

	if e.rexW {
		code.SetREXW(true)
	}

	if e.hasModRM {
		code.SetModRM(e.rm.ModeBits(), e.reg.RegBits(), e.rm.RMBits())

		if e.reg.RexR() {
			code.SetREXR(true)
		}
		if e.rm.RexB() {
			code.SetREXB(true)
		}

		if sib, ok := e.rm.SIBByte(); ok {
			code.SetSIB(sib)
			if e.rm.RexX() {
				code.SetREXX(true)
			}
		}

		code.SetDisp(e.rm.DispBytes())
	}

	if e.rexB {
		code.SetREXB(true)
	}

	if e.imm.Len() == 8 && !e.rexW {
		panic("x86_64: 64-bit immediate is only valid in 64-bit operand mode")
	}
	code.SetImm(e.imm)

	return code.Encode()
}
