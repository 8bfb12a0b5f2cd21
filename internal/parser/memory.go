package parser

import (
	"strings"

	"github.com/keurnel/machoasm/architecture/x86_64"
)

// ParseMem matches a bracketed effective address operand:
//
//	[base]
//	[base + disp]
//	[rip + disp]
//	[base + index*scale + disp]
//	[index*scale + disp]          (no base, 32-bit displacement)
//
// Terms are separated by `+`; base must come before index; the scale
// literal is 1, 2, 4 or 8.
func ParseMem(s string) (x86_64.Mem64, bool, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return x86_64.Mem64{}, false, nil
	}
	if !strings.HasSuffix(s, "]") {
		return x86_64.Mem64{}, true, errorf("unclosed memory operand %s", s)
	}

	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return x86_64.Mem64{}, true, errorf("empty memory operand")
	}

	var (
		base     x86_64.Register
		hasBase  bool
		index    x86_64.Register
		scale    byte
		hasIndex bool
		rip      bool
		disp     uint64
		hasDisp  bool
	)

	for _, term := range strings.Split(inner, "+") {
		term = strings.TrimSpace(term)
		if term == "" {
			return x86_64.Mem64{}, true, errorf("empty term in memory operand")
		}

		switch {
		case term == "rip":
			if rip || hasBase || hasIndex {
				return x86_64.Mem64{}, true, errorf("rip cannot be combined with other address registers")
			}
			rip = true

		case strings.ContainsRune(term, '*'):
			if hasIndex {
				return x86_64.Mem64{}, true, errorf("multiple index terms in memory operand")
			}
			idxStr, scaleStr, _ := strings.Cut(term, "*")
			reg, ok := ParseReg64(strings.TrimSpace(idxStr))
			if !ok {
				return x86_64.Mem64{}, true, errorf("invalid index register %s", strings.TrimSpace(idxStr))
			}
			bits, err := parseScale(strings.TrimSpace(scaleStr))
			if err != nil {
				return x86_64.Mem64{}, true, err
			}
			index, scale, hasIndex = reg, bits, true

		default:
			if reg, ok := ParseReg64(term); ok {
				if hasBase {
					// second bare register acts as an unscaled index
					if hasIndex {
						return x86_64.Mem64{}, true, errorf("too many registers in memory operand")
					}
					index, scale, hasIndex = reg, 0, true
					break
				}
				base, hasBase = reg, true
				break
			}

			n, ok, err := ParseUint(term, 32)
			if err != nil {
				return x86_64.Mem64{}, true, err
			}
			if !ok {
				return x86_64.Mem64{}, true, errorf("invalid term %s in memory operand", term)
			}
			if hasDisp {
				return x86_64.Mem64{}, true, errorf("multiple displacements in memory operand")
			}
			disp, hasDisp = n, true
		}
	}

	switch {
	case rip:
		if hasBase || hasIndex {
			return x86_64.Mem64{}, true, errorf("rip cannot be combined with other address registers")
		}
		return x86_64.MemRipOffset(uint32(disp)), true, nil

	case hasIndex && hasBase:
		return x86_64.MemSib(base, uint32(disp), index, scale), true, nil

	case hasIndex:
		return x86_64.MemSibNoBase(uint32(disp), index, scale), true, nil

	case hasBase:
		return x86_64.MemRegOffset(base, uint32(disp)), true, nil

	default:
		return x86_64.Mem64{}, true, errorf("memory operand needs a base, index or rip")
	}
}

func parseScale(s string) (byte, error) {
	switch s {
	case "1":
		return 0, nil
	case "2":
		return 1, nil
	case "4":
		return 2, nil
	case "8":
		return 3, nil
	default:
		return 0, errorf("invalid scale %s, want 1, 2, 4 or 8", s)
	}
}
