package macho

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// LoadCommand is a decoded load command of any supported type.
type LoadCommand interface {
	// LoadCmd returns the command type word.
	LoadCmd() uint32
	// LoadCmdSize returns the full command size, including any trailing
	// variable-length records.
	LoadCmdSize() uint32
}

// Segment64 pairs a segment command with its trailing section records.
type Segment64 struct {
	SegmentCommand64
	Sections []Section64
}

// BuildVersion pairs a build version command with its trailing tool
// records.
type BuildVersion struct {
	BuildVersionCommand
	Tools []BuildToolVersion
}

func (s Segment64) LoadCmd() uint32           { return s.Cmd }
func (s Segment64) LoadCmdSize() uint32       { return s.CmdSize }
func (c SymtabCommand) LoadCmd() uint32       { return c.Cmd }
func (c SymtabCommand) LoadCmdSize() uint32   { return c.CmdSize }
func (c DysymtabCommand) LoadCmd() uint32     { return c.Cmd }
func (c DysymtabCommand) LoadCmdSize() uint32 { return c.CmdSize }
func (b BuildVersion) LoadCmd() uint32        { return b.Cmd }
func (b BuildVersion) LoadCmdSize() uint32    { return b.CmdSize }

// WriteTo serializes the segment command followed by its sections.
func (s Segment64) WriteTo(w io.Writer) error {
	if err := s.SegmentCommand64.WriteTo(w); err != nil {
		return err
	}
	for _, sect := range s.Sections {
		if err := sect.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo serializes the build version command followed by its tools.
func (b BuildVersion) WriteTo(w io.Writer) error {
	if err := b.BuildVersionCommand.WriteTo(w); err != nil {
		return err
	}
	for _, tool := range b.Tools {
		if err := tool.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// ReadLoadCommand decodes the next load command, dispatching on its type
// word.
func ReadLoadCommand(r io.Reader) (LoadCommand, error) {
	var cmdBytes [4]byte
	if _, err := io.ReadFull(r, cmdBytes[:]); err != nil {
		return nil, err
	}
	cmd := binary.LittleEndian.Uint32(cmdBytes[:])

	// The record readers consume their own cmd word, so feed it back in
	// front of the remaining stream.
	full := io.MultiReader(bytes.NewReader(cmdBytes[:]), r)

	switch cmd {
	case LCSegment64:
		seg, err := ReadSegmentCommand64(full)
		if err != nil {
			return nil, err
		}
		sections := make([]Section64, 0, seg.NSects)
		for i := uint32(0); i < seg.NSects; i++ {
			sect, err := ReadSection64(full)
			if err != nil {
				return nil, err
			}
			sections = append(sections, sect)
		}
		return Segment64{SegmentCommand64: seg, Sections: sections}, nil

	case LCSymtab:
		return ReadSymtabCommand(full)

	case LCDysymtab:
		return ReadDysymtabCommand(full)

	case LCBuildVersion:
		bv, err := ReadBuildVersionCommand(full)
		if err != nil {
			return nil, err
		}
		tools := make([]BuildToolVersion, 0, bv.NTools)
		for i := uint32(0); i < bv.NTools; i++ {
			tool, err := ReadBuildToolVersion(full)
			if err != nil {
				return nil, err
			}
			tools = append(tools, tool)
		}
		return BuildVersion{BuildVersionCommand: bv, Tools: tools}, nil

	default:
		return nil, fmt.Errorf("macho: unsupported load command %#x", cmd)
	}
}
