// Package loader reads SM213 programs from disk.
//
// Files ending in .s are assembled; anything else is a raw memory image.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/sm213/asm"
	"github.com/sarchlab/sm213/emu"
)

// Segment is a contiguous block of bytes placed at Addr.
type Segment struct {
	Addr uint32
	Data []byte
}

// End returns the address just past the segment.
func (s Segment) End() uint64 {
	return uint64(s.Addr) + uint64(len(s.Data))
}

// Program is a loaded program ready to be placed in memory.
type Program struct {
	// EntryPoint is where execution should begin.
	EntryPoint uint32
	// Segments holds every block of the image.
	Segments []Segment
	// Labels is set for assembled programs.
	Labels map[string]uint32
}

// Size returns the smallest memory capacity that holds every segment.
func (p *Program) Size() uint64 {
	var size uint64
	for _, seg := range p.Segments {
		size = max(size, seg.End())
	}
	return size
}

// LoadInto copies every segment into mem.
func (p *Program) LoadInto(mem emu.MemoryBackend) error {
	for _, seg := range p.Segments {
		if err := mem.Write(int(seg.Addr), seg.Data); err != nil {
			return fmt.Errorf("failed to place segment at 0x%x: %w", seg.Addr, err)
		}
	}
	return nil
}

// Load reads a program file. Raw images are placed at base and entered
// there; assembly sources carry their own addresses and ignore base.
func Load(path string, base uint32) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".s") {
		prog, err := Assemble(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return prog, nil
	}

	return Raw(data, base), nil
}

// Raw wraps a memory image placed at base.
func Raw(data []byte, base uint32) *Program {
	return &Program{
		EntryPoint: base,
		Segments:   []Segment{{Addr: base, Data: data}},
	}
}

// Assemble assembles SM213 source into a Program.
func Assemble(src []byte) (*Program, error) {
	a := &asm.Assembler{}
	out, err := a.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	prog := &Program{
		EntryPoint: out.Entry,
		Labels:     out.Labels,
	}
	if len(out.Image) > 0 {
		prog.Segments = []Segment{{Addr: out.Origin, Data: out.Image}}
	}
	return prog, nil
}
