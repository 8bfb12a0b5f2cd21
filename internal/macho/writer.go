package macho

// The file layout produced here, offsets growing downwards (schematic:
// the records are not drawn to scale; planLayout computes the real
// offsets):
//
//     00              08             0F
//     _________________________________
//  00 |            Header64           |
//  10 |_______________________________|
//  20 |                               |
//  30 |        SegmentCommand64       |
//  40 |               ________________|
//  50 |_______________|               |
//  60 |     Section64 (per section)   |
//  70 |               ________________|
//  80 |_______________| SymtabCommand |
//  90 |_______________________________|
//  A0 |         SectionData           |
//  B0 |               ________________|
//  C0 |_______________|  (8B padding) |
//  D0 |_________RelocationInfo________|
//  E0 |__________SymbolTable__________|
//  F0 |_________StringTable_______|

import (
	"fmt"
	"io"

	"github.com/keurnel/machoasm/internal/diag"
	"github.com/keurnel/machoasm/internal/obj"
)

// Write serializes the object as an MH_OBJECT Mach-O file.
func Write(o *obj.Object, w io.Writer) error {
	sects := o.Sections()
	ly := planLayout(sects)

	if err := genHeader64(ly).WriteTo(w); err != nil {
		return err
	}

	if err := genSegmentCommand64(ly).WriteTo(w); err != nil {
		return err
	}

	section64s := genSection64s(sects, ly)
	for _, sect := range section64s {
		if err := sect.WriteTo(w); err != nil {
			return err
		}
	}

	if err := genSymtabCommand(sects, ly).WriteTo(w); err != nil {
		return err
	}

	if err := writeSectionData(sects, w); err != nil {
		return err
	}

	stab := NewStringTable()
	nlists, symIdx, err := genNList64s(sects, section64s, stab)
	if err != nil {
		return err
	}

	relocs, err := genRelocationInfos(sects, symIdx)
	if err != nil {
		return err
	}
	for _, reloc := range relocs {
		if err := reloc.WriteTo(w); err != nil {
			return err
		}
	}

	for _, nlist := range nlists {
		if err := nlist.WriteTo(w); err != nil {
			return err
		}
	}

	if _, err := w.Write(stab.Bytes()); err != nil {
		return err
	}

	return nil
}

// layout carries the file-offset arithmetic shared by the load commands.
type layout struct {
	nsects     uint32
	vmSize     uint64
	fileSize   uint32 // raw section bytes, unpadded
	fileSize8  uint32 // raw section bytes, padded to 8
	nrelocs    uint32
	nsyms      uint32
	dataStart  uint32 // first byte of section data
	relocStart uint32 // first relocation entry
	symOff     uint32 // first nlist entry
	strOff     uint32 // string table
	strSize    uint32
}

func planLayout(sects []obj.Section) layout {
	var ly layout
	ly.nsects = uint32(len(sects))

	ly.strSize = 1 // leading NUL
	for _, s := range sects {
		ly.vmSize += s.VMSize()
		ly.fileSize += obj.FileSize(s)
		ly.nrelocs += uint32(len(s.SectionRelocs()))
		ly.nsyms += uint32(len(s.SectionSymbols()))
		for _, sym := range s.SectionSymbols() {
			ly.strSize += uint32(len(sym.Name)) + 1
		}
	}
	ly.fileSize8 = aligned(ly.fileSize, 8)

	ly.dataStart = Header64Size + SegmentCommand64Size + ly.nsects*Section64Size + SymtabCommandSize
	ly.relocStart = ly.dataStart + ly.fileSize8
	ly.symOff = ly.relocStart + ly.nrelocs*RelocationInfoSize
	ly.strOff = ly.symOff + ly.nsyms*NList64Size
	return ly
}

func genHeader64(ly layout) Header64 {
	return Header64{
		Magic:      MagicMachO64,
		CPUType:    CPUTypeX8664,
		CPUSubtype: CPUSubtypeX8664All,
		FileType:   FileTypeObject,
		NCmds:      2,
		SizeOfCmds: SegmentCommand64Size + ly.nsects*Section64Size + SymtabCommandSize,
	}
}

func genSegmentCommand64(ly layout) SegmentCommand64 {
	return SegmentCommand64{
		Cmd:     LCSegment64,
		CmdSize: SegmentCommand64Size + ly.nsects*Section64Size,
		// the segment of an object file is unnamed
		SegName:  "",
		VMAddr:   0,
		VMSize:   ly.vmSize,
		FileOff:  uint64(ly.dataStart),
		FileSize: uint64(ly.fileSize8),
		// object files are mapped rwx
		MaxProt:  7,
		InitProt: 7,
		NSects:   ly.nsects,
		Flags:    0,
	}
}

func genSection64s(sects []obj.Section, ly layout) []Section64 {
	var vmaddr uint64
	offset := ly.dataStart
	reloff := ly.relocStart

	out := make([]Section64, 0, len(sects))
	for _, s := range sects {
		sect := genSection64(s, vmaddr, offset, reloff)
		out = append(out, sect)

		vmaddr += s.VMSize()
		offset += obj.FileSize(s)
		reloff += uint32(len(s.SectionRelocs())) * RelocationInfoSize
	}
	return out
}

func genSection64(s obj.Section, addr uint64, offset, reloff uint32) Section64 {
	switch sect := s.(type) {
	case *obj.TextSection:
		flags := SectionTypeRegular | SectionAttrSomeInstructions | SectionAttrPureInstructions
		if len(sect.Relocs) > 0 {
			flags |= SectionAttrLocReloc | SectionAttrExtReloc
		}
		return Section64{
			SectName: "__text",
			SegName:  "__TEXT",
			Addr:     addr,
			Size:     s.VMSize(),
			Offset:   offset,
			RelOff:   reloff,
			NReloc:   uint32(len(sect.Relocs)),
			Flags:    flags,
		}
	case *obj.DataSection:
		flags := SectionTypeRegular
		if len(sect.Relocs) > 0 {
			flags |= SectionAttrLocReloc | SectionAttrExtReloc
		}
		return Section64{
			SectName: "__data",
			SegName:  "__DATA",
			Addr:     addr,
			Size:     s.VMSize(),
			Offset:   offset,
			RelOff:   reloff,
			NReloc:   uint32(len(sect.Relocs)),
			Flags:    flags,
		}
	case *obj.BssSection:
		return Section64{
			SectName: "__bss",
			SegName:  "__DATA",
			Addr:     addr,
			Size:     s.VMSize(),
			Offset:   0,
			RelOff:   0,
			NReloc:   0,
			Flags:    SectionTypeZerofill,
		}
	default:
		panic(fmt.Sprintf("macho: unknown section type %T", s))
	}
}

func genSymtabCommand(sects []obj.Section, ly layout) SymtabCommand {
	return SymtabCommand{
		Cmd:     LCSymtab,
		CmdSize: SymtabCommandSize,
		SymOff:  ly.symOff,
		NSyms:   ly.nsyms,
		StrOff:  ly.strOff,
		StrSize: ly.strSize,
	}
}

func writeSectionData(sects []obj.Section, w io.Writer) error {
	var written uint32
	for _, s := range sects {
		data := s.FileData()
		if len(data) == 0 {
			continue
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		written += uint32(len(data))
	}

	var pad [7]byte
	if n := padding(written, 8); n > 0 {
		if _, err := w.Write(pad[:n]); err != nil {
			return err
		}
	}
	return nil
}

// genNList64s produces the symbol table in section order, filling the
// string table as it goes. The returned map resolves a symbol name to its
// emission-order index, for relocation entries.
func genNList64s(sects []obj.Section, section64s []Section64, stab *StringTable) ([]NList64, map[string]uint32, error) {
	var nlists []NList64
	symIdx := make(map[string]uint32)

	for i, s := range sects {
		ordinal := uint8(i + 1)
		for _, sym := range s.SectionSymbols() {
			strx, err := stab.Add(sym.Name)
			if err != nil {
				return nil, nil, err
			}

			var nlist NList64
			switch sym.Kind {
			case obj.SymbolUndef:
				nlist = NList64{
					StrX: strx,
					Type: NUndf | NExtMask,
					Sect: NoSect,
				}
			case obj.SymbolAbs:
				nlist = NList64{
					StrX:  strx,
					Type:  NAbs | extBit(sym.Ext),
					Sect:  ordinal,
					Value: sym.Value,
				}
			case obj.SymbolRef:
				nlist = NList64{
					StrX:  strx,
					Type:  NSect | extBit(sym.Ext),
					Sect:  ordinal,
					Value: section64s[i].Addr + sym.Value,
				}
			}

			if _, seen := symIdx[sym.Name]; !seen {
				symIdx[sym.Name] = uint32(len(nlists))
			}
			nlists = append(nlists, nlist)
		}
	}
	return nlists, symIdx, nil
}

func extBit(ext bool) uint8 {
	if ext {
		return NExtMask
	}
	return 0
}

func genRelocationInfos(sects []obj.Section, symIdx map[string]uint32) ([]RelocationInfo, error) {
	var out []RelocationInfo
	for _, s := range sects {
		for _, reloc := range s.SectionRelocs() {
			idx, ok := symIdx[reloc.Symbol]
			if !ok {
				return nil, diag.Newf("undefined symbol %q in relocation", reloc.Symbol)
			}
			out = append(out, RelocationInfo{
				Addr:      reloc.Addr,
				SymbolNum: idx,
				PCRel:     reloc.PCRel,
				Length:    reloc.Len,
				Extern:    true,
				Type:      X8664RelocUnsigned,
			})
		}
	}
	return out, nil
}
