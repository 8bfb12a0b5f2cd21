package parser

import (
	"strings"

	"github.com/keurnel/machoasm/internal/diag"
)

func errorf(format string, args ...any) error {
	return diag.Newf(format, args...)
}

// Section identifies one of the three object sections.
type Section int

const (
	SectionText Section = iota
	SectionData
	SectionBss
)

// String returns the directive spelling of the section name.
func (s Section) String() string {
	switch s {
	case SectionText:
		return ".text"
	case SectionData:
		return ".data"
	default:
		return ".bss"
	}
}

// ParseSection matches a `section .text|.data|.bss` directive.
func ParseSection(s string) (Section, bool, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || fields[0] != "section" {
		return 0, false, nil
	}

	if len(fields) < 2 {
		return 0, true, errorf("section name is expected")
	}
	if len(fields) > 2 {
		return 0, true, errorf("expected end of line after section declaration")
	}

	switch fields[1] {
	case ".text":
		return SectionText, true, nil
	case ".data":
		return SectionData, true, nil
	case ".bss":
		return SectionBss, true, nil
	default:
		return 0, true, errorf("unrecognized section %s", fields[1])
	}
}

// ParseGlobal matches a `global NAME` directive.
func ParseGlobal(s string) (string, bool, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || fields[0] != "global" {
		return "", false, nil
	}

	if len(fields) < 2 {
		return "", true, errorf("symbol name is expected")
	}
	if len(fields) > 2 {
		return "", true, errorf("expected end of line after global symbol definition")
	}
	if !IsIdentifier(fields[1]) {
		return "", true, errorf("invalid symbol name %s", fields[1])
	}

	return fields[1], true, nil
}
