// Package assembler drives the pipeline: it feeds source lines through
// the parser, accumulates bytes, symbols and relocations in the object
// model, and hands the finished object to the Mach-O writer.
package assembler

import (
	"bufio"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/keurnel/machoasm/internal/diag"
	"github.com/keurnel/machoasm/internal/macho"
	"github.com/keurnel/machoasm/internal/obj"
	"github.com/keurnel/machoasm/internal/parser"
)

// Assembler assembles one translation unit. The zero section is .text,
// matching the behavior of starting a file without a section directive.
type Assembler struct {
	cur     parser.Section
	line    int
	obj     *obj.Object
	globals []string
	defined map[string]bool
}

// New returns an Assembler with an empty object.
func New() *Assembler {
	return &Assembler{
		cur:     parser.SectionText,
		obj:     obj.New(),
		defined: make(map[string]bool),
	}
}

// Object exposes the object model, for inspection after ReadFrom.
func (a *Assembler) Object() *obj.Object {
	return a.obj
}

// ReadFrom consumes the whole source, building up the object model. The
// first error aborts the run; no output has been produced at that point.
func (a *Assembler) ReadFrom(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		a.line++
		if err := a.processLine(scanner.Text()); err != nil {
			return diag.At(a.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return diag.Newf("failed to read source: %v", err)
	}

	a.finish()

	log.WithFields(log.Fields{
		"lines":  a.line,
		"text":   len(a.obj.Text.Bytes),
		"data":   len(a.obj.Data.Bytes),
		"bss":    a.obj.Bss.Size,
		"relocs": len(a.obj.Text.Relocs) + len(a.obj.Data.Relocs),
	}).Debug("source consumed")

	return nil
}

func (a *Assembler) processLine(text string) error {
	line, err := parser.ParseLine(text)
	if err != nil {
		return err
	}

	switch line.Kind {
	case parser.LineEmpty:
		return nil

	case parser.LineSection:
		a.cur = line.Section
		log.WithField("section", line.Section.String()).Debug("section switch")
		return nil

	case parser.LineGlobal:
		a.globals = append(a.globals, line.Name)
		return nil

	case parser.LineLabel:
		return a.defineSymbol(line.Name)

	case parser.LineData:
		if line.Data.Label != "" {
			if err := a.defineSymbol(line.Data.Label); err != nil {
				return err
			}
		}
		return a.appendBytes(line.Data.Bytes)

	case parser.LineInstruction:
		if line.Instr.Reloc != nil {
			if err := a.recordReloc(line.Instr.Reloc); err != nil {
				return err
			}
		}
		return a.appendBytes(line.Instr.Bytes)

	default:
		return diag.Newf("unhandled line kind %d", line.Kind)
	}
}

// defineSymbol records a label at the current section offset.
func (a *Assembler) defineSymbol(name string) error {
	if a.defined[name] {
		return diag.Newf("duplicate symbol %s", name)
	}
	a.defined[name] = true

	sym := obj.Ref(name, a.sectionSize(), false)
	switch a.cur {
	case parser.SectionText:
		a.obj.Text.Symbols = append(a.obj.Text.Symbols, sym)
	case parser.SectionData:
		a.obj.Data.Symbols = append(a.obj.Data.Symbols, sym)
	case parser.SectionBss:
		a.obj.Bss.Symbols = append(a.obj.Bss.Symbols, sym)
	}
	return nil
}

// recordReloc rebases an instruction-local relocation onto the current
// section.
func (a *Assembler) recordReloc(reloc *parser.LocalReloc) error {
	addr := a.sectionSize() + uint64(reloc.Offset)
	if addr > obj.MaxSectionSize {
		return diag.Newf("section %s exceeds the maximum object size", a.cur)
	}

	entry := obj.Reloc{
		Addr:   int32(addr),
		Symbol: reloc.Symbol,
		PCRel:  reloc.PCRel,
		Len:    reloc.Len,
	}
	switch a.cur {
	case parser.SectionText:
		a.obj.Text.Relocs = append(a.obj.Text.Relocs, entry)
	case parser.SectionData:
		a.obj.Data.Relocs = append(a.obj.Data.Relocs, entry)
	case parser.SectionBss:
		return diag.New("can't write data to .bss section")
	}
	return nil
}

// appendBytes extends the current section.
func (a *Assembler) appendBytes(b []byte) error {
	if a.sectionSize()+uint64(len(b)) > obj.MaxSectionSize {
		return diag.Newf("section %s exceeds the maximum object size", a.cur)
	}

	switch a.cur {
	case parser.SectionText:
		a.obj.Text.Append(b)
	case parser.SectionData:
		a.obj.Data.Append(b)
	case parser.SectionBss:
		return diag.New("can't write data to .bss section")
	}
	return nil
}

func (a *Assembler) sectionSize() uint64 {
	switch a.cur {
	case parser.SectionText:
		return uint64(len(a.obj.Text.Bytes))
	case parser.SectionData:
		return uint64(len(a.obj.Data.Bytes))
	default:
		return a.obj.Bss.Size
	}
}

// finish applies the global markers and materializes undefined symbols
// for relocations whose target was never defined.
func (a *Assembler) finish() {
	for _, name := range a.globals {
		a.obj.MarkGlobal(name)
	}

	materialized := make(map[string]bool)
	materialize := func(relocs []obj.Reloc, syms *[]obj.Symbol) {
		for _, reloc := range relocs {
			if !a.obj.FindSymbol(reloc.Symbol) && !materialized[reloc.Symbol] {
				materialized[reloc.Symbol] = true
				log.WithField("symbol", reloc.Symbol).Debug("undefined symbol, emitting N_UNDF entry")
				*syms = append(*syms, obj.Undef(reloc.Symbol))
			}
		}
	}
	materialize(a.obj.Text.Relocs, &a.obj.Text.Symbols)
	materialize(a.obj.Data.Relocs, &a.obj.Data.Symbols)
}

// WriteTo serializes the object as a Mach-O file.
func (a *Assembler) WriteTo(w io.Writer) error {
	return macho.Write(a.obj, w)
}

// Listing renders a per-section hex dump of the assembled bytes, one row
// of 16 per line.
func (a *Assembler) Listing(w io.Writer) {
	dump := func(name string, data []byte) {
		if len(data) == 0 {
			return
		}
		fmt.Fprintf(w, "%s (%d bytes)\n", name, len(data))
		for off := 0; off < len(data); off += 16 {
			end := off + 16
			if end > len(data) {
				end = len(data)
			}
			fmt.Fprintf(w, "%04x: % x\n", off, data[off:end])
		}
	}
	dump("__text", a.obj.Text.Bytes)
	dump("__data", a.obj.Data.Bytes)
}
