package x86_64

// MaxInstructionLen is the architectural limit on the length of a single
// encoded instruction.
const MaxInstructionLen = 15

// EncodeModRM encodes the ModR/M byte
func EncodeModRM(mod, reg, rm byte) byte {
	return (mod << 6) | ((reg & 0x7) << 3) | (rm & 0x7)
}

// EncodeSIB encodes the SIB byte
func EncodeSIB(scale, index, base byte) byte {
	return (scale << 6) | ((index & 0x7) << 3) | (base & 0x7)
}

// REX bit positions within the 0100WRXB prefix byte.
const (
	rexBase byte = 0b0100_0000
	rexW    byte = 0b0000_1000
	rexR    byte = 0b0000_0100
	rexX    byte = 0b0000_0010
	rexB    byte = 0b0000_0001
)

// ByteCode is one instruction under construction. Each component is either
// absent or holds its final value; Encode concatenates the present
// components in the fixed order prefix, REX, opcode, ModR/M, SIB,
// displacement, immediate.
type ByteCode struct {
	prefix    byte
	hasPrefix bool
	rex       byte
	hasREX    bool
	opcode    Bytes // 1-3 bytes
	modRM     byte
	hasModRM  bool
	sib       byte
	hasSIB    bool
	disp      Bytes // 0-4 bytes
	imm       Bytes // 0-8 bytes; 8 only for mov r64, imm64
}

// SetPrefix records a legacy prefix byte (0x66 operand-size, etc.).
func (c *ByteCode) SetPrefix(prefix byte) {
	c.prefix = prefix
	c.hasPrefix = true
}

// SetOpcode records the 1-3 opcode bytes.
func (c *ByteCode) SetOpcode(opcode Bytes) {
	if opcode.Len() < 1 || opcode.Len() > 3 {
		panic("x86_64: opcode is 1 to 3 bytes")
	}
	c.opcode = opcode
}

// setREXBit materializes the REX prefix if needed and sets one of its bits.
func (c *ByteCode) setREXBit(bit byte, flag bool) {
	if !c.hasREX {
		c.rex = rexBase
		c.hasREX = true
	}
	if flag {
		c.rex |= bit
	} else {
		c.rex &^= bit
	}
}

// SetREXW forces a REX prefix with the given W (64-bit operand size) bit.
func (c *ByteCode) SetREXW(flag bool) { c.setREXBit(rexW, flag) }

// SetREXR sets the R bit (ModR/M.reg extension), materializing REX.
func (c *ByteCode) SetREXR(flag bool) { c.setREXBit(rexR, flag) }

// SetREXX sets the X bit (SIB.index extension), materializing REX.
func (c *ByteCode) SetREXX(flag bool) { c.setREXBit(rexX, flag) }

// SetREXB sets the B bit (r/m, SIB.base or opcode-register extension),
// materializing REX.
func (c *ByteCode) SetREXB(flag bool) { c.setREXBit(rexB, flag) }

// SetModRM records the ModR/M byte from its three fields.
func (c *ByteCode) SetModRM(mod, reg, rm byte) {
	if mod > 0b11 || reg > 0b111 || rm > 0b111 {
		panic("x86_64: ModR/M field out of range")
	}
	c.modRM = EncodeModRM(mod, reg, rm)
	c.hasModRM = true
}

// SetSIB records an already-encoded SIB byte.
func (c *ByteCode) SetSIB(sib byte) {
	c.sib = sib
	c.hasSIB = true
}

// SetDisp records the displacement bytes.
func (c *ByteCode) SetDisp(disp Bytes) {
	if disp.Len() > 4 {
		panic("x86_64: displacement is at most 4 bytes")
	}
	c.disp = disp
}

// SetImm records the immediate bytes.
func (c *ByteCode) SetImm(imm Bytes) {
	c.imm = imm
}

// Len returns the encoded length: the sum of the present components.
func (c *ByteCode) Len() int {
	n := c.opcode.Len() + c.disp.Len() + c.imm.Len()
	if c.hasPrefix {
		n++
	}
	if c.hasREX {
		n++
	}
	if c.hasModRM {
		n++
	}
	if c.hasSIB {
		n++
	}
	return n
}

// Encode serializes the instruction in component order. The result is at
// most MaxInstructionLen bytes.
func (c *ByteCode) Encode() []byte {
	out := make([]byte, 0, MaxInstructionLen)
	if c.hasPrefix {
		out = append(out, c.prefix)
	}
	if c.hasREX {
		out = append(out, c.rex)
	}
	out = append(out, c.opcode.Slice()...)
	if c.hasModRM {
		out = append(out, c.modRM)
	}
	if c.hasSIB {
		out = append(out, c.sib)
	}
	out = append(out, c.disp.Slice()...)
	out = append(out, c.imm.Slice()...)
	return out
}
