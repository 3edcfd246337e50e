// Package asm implements a two pass assembler for SM213 assembly language.
//
// Syntax, one statement per line:
//
//	# comment
//	label:  ld $value, r0        # load immediate
//	        ld 8(r1), r2         # base + offset
//	        ld (r1, r2, 4), r3   # base + index*4
//	        st r0, 8(r1)
//	        st r0, (r1, r2, 4)
//	        mov r1, r2 / add / and
//	        inc r1 / inca / dec / deca / not
//	        gpc $6, r6
//	        shl $2, r1 / shr $2, r1
//	        br label / beq r1, label / bgt r1, label
//	        j label / j 8(r1)
//	        halt / nop
//	        .pos 0x100
//	        .long 1, label
//	        .equ NAME value
//
// Numeric operands are Starlark expressions over labels and equates.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/sarchlab/sm213/insts"
)

// Program is an assembled memory image.
type Program struct {
	// Origin is the address of Image[0].
	Origin uint32
	// Image holds every emitted byte; gaps between .pos blocks are zero.
	Image []byte
	// Entry is the `start` label, or the first instruction.
	Entry uint32
	// Labels maps every label to its address.
	Labels map[string]uint32
}

// End returns the address just past the image.
func (p *Program) End() uint32 {
	return p.Origin + uint32(len(p.Image))
}

// Assembler is a two pass assembler for SM213.
type Assembler struct {
	Verbose bool      // If set, writes a listing to Log.
	Log     io.Writer // Listing output.

	Equate map[string]int64  // Map of equates.
	Labels map[string]uint32 // Map of labels to addresses.

	stmts []statement
}

type statement struct {
	lineNo   int
	line     string
	mnemonic string
	operands []string
	address  uint32
	size     int
}

type chunk struct {
	address uint32
	data    []byte
}

var (
	reLabel   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):`)
	reIdent   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reReg     = regexp.MustCompile(`^r([0-9]+)$`)
	reBaseOff = regexp.MustCompile(`^(.*)\(\s*(r[0-9]+)\s*\)$`)
	reIndexed = regexp.MustCompile(`^\(\s*(r[0-9]+)\s*,\s*(r[0-9]+)\s*,\s*(.+)\)$`)
)

// Assemble assembles source text.
func Assemble(src string) (*Program, error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(src))
}

// Parse reads assembly source and returns the assembled program.
func (asm *Assembler) Parse(r io.Reader) (prog *Program, err error) {
	asm.Equate = map[string]int64{}
	asm.Labels = map[string]uint32{}
	asm.stmts = nil

	if err = asm.layout(r); err != nil {
		return
	}

	var chunks []chunk
	for _, st := range asm.stmts {
		var data []byte
		data, err = asm.encode(&st)
		if err != nil {
			err = ErrSyntax{LineNo: st.lineNo, Line: st.line, Err: err}
			return
		}
		if asm.Verbose && asm.Log != nil {
			fmt.Fprintf(asm.Log, "%08x: %-12x %v\n", st.address, data, st.line)
		}
		chunks = append(chunks, chunk{address: st.address, data: data})
	}

	return asm.link(chunks)
}

// layout is the first pass: it assigns addresses, labels and equates.
func (asm *Assembler) layout(r io.Reader) error {
	var loc uint32

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if n := strings.IndexByte(line, '#'); n >= 0 {
			line = line[:n]
		}
		line = strings.TrimSpace(line)

		fail := func(err error) error {
			return ErrSyntax{LineNo: lineNo, Line: line, Err: err}
		}

		for {
			m := reLabel.FindStringSubmatch(line)
			if m == nil {
				break
			}
			if _, dup := asm.Labels[m[1]]; dup {
				return fail(ErrLabelDuplicate)
			}
			asm.Labels[m[1]] = loc
			line = strings.TrimSpace(line[len(m[0]):])
		}

		if len(line) == 0 {
			continue
		}

		mnemonic, rest := line, ""
		if n := strings.IndexFunc(line, unicode.IsSpace); n >= 0 {
			mnemonic, rest = line[:n], line[n+1:]
		}
		mnemonic = strings.ToLower(mnemonic)
		operands := splitOperands(rest)

		switch mnemonic {
		case ".pos":
			if len(operands) != 1 {
				return fail(ErrOperandCount)
			}
			v, err := asm.eval(operands[0])
			if err != nil {
				return fail(err)
			}
			if v < 0 {
				return fail(ErrAddressNegative)
			}
			if v > 1<<32-1 {
				return fail(ErrRange{Value: v, Min: 0, Max: 1<<32 - 1})
			}
			loc = uint32(v)
			continue
		case ".equ":
			if err := asm.equate(rest); err != nil {
				return fail(err)
			}
			continue
		}

		size, err := statementSize(mnemonic, operands)
		if err != nil {
			return fail(err)
		}

		asm.stmts = append(asm.stmts, statement{
			lineNo:   lineNo,
			line:     line,
			mnemonic: mnemonic,
			operands: operands,
			address:  loc,
			size:     size,
		})
		loc += uint32(size)
	}

	return scanner.Err()
}

// equate handles `.equ NAME value` and `.equ NAME, value`.
func (asm *Assembler) equate(rest string) error {
	fields := strings.Fields(strings.Replace(rest, ",", " ", 1))
	if len(fields) < 2 || !reIdent.MatchString(fields[0]) {
		return ErrEquateSyntax
	}
	name := fields[0]
	if _, dup := asm.Equate[name]; dup {
		return ErrEquateDuplicate
	}
	v, err := asm.eval(strings.Join(fields[1:], " "))
	if err != nil {
		return err
	}
	asm.Equate[name] = v
	return nil
}

// link places every chunk into a single image.
func (asm *Assembler) link(chunks []chunk) (*Program, error) {
	prog := &Program{Labels: asm.Labels}

	var nonEmpty []chunk
	for _, c := range chunks {
		if len(c.data) > 0 {
			nonEmpty = append(nonEmpty, c)
		}
	}
	sort.SliceStable(nonEmpty, func(i, j int) bool {
		return nonEmpty[i].address < nonEmpty[j].address
	})

	if len(nonEmpty) > 0 {
		prog.Origin = nonEmpty[0].address
		var end uint64
		for _, c := range nonEmpty {
			if e := uint64(c.address) + uint64(len(c.data)); e > end {
				end = e
			}
		}
		if end > 1<<32 {
			return nil, ErrValueOutOfRange
		}
		prog.Image = make([]byte, end-uint64(prog.Origin))

		var high uint32
		for n, c := range nonEmpty {
			if n > 0 && c.address < high {
				return nil, ErrOverlap
			}
			copy(prog.Image[c.address-prog.Origin:], c.data)
			high = max(high, c.address+uint32(len(c.data)))
		}
	}

	prog.Entry = prog.Origin
	if start, ok := asm.Labels["start"]; ok {
		prog.Entry = start
	} else {
		for _, st := range asm.stmts {
			if st.mnemonic != ".long" {
				prog.Entry = st.address
				break
			}
		}
	}

	return prog, nil
}

// splitOperands splits on commas outside parentheses.
func splitOperands(s string) (ops []string) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil
	}

	depth, start := 0, 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				ops = append(ops, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(ops, strings.TrimSpace(s[start:]))
}

// statementSize returns the encoded size, which never depends on label values.
func statementSize(mnemonic string, operands []string) (int, error) {
	switch mnemonic {
	case ".long":
		if len(operands) == 0 {
			return 0, ErrOperandCount
		}
		return 4 * len(operands), nil
	case "ld":
		if len(operands) > 0 && strings.HasPrefix(operands[0], "$") {
			return 6, nil
		}
		return 2, nil
	case "j":
		if len(operands) > 0 && !strings.Contains(operands[0], "(") {
			return 6, nil
		}
		return 2, nil
	}

	if _, ok := simple[mnemonic]; ok {
		return 2, nil
	}
	if strings.HasPrefix(mnemonic, ".") {
		return 0, ErrDirectiveInvalid
	}
	return 0, ErrOpcodeInvalid
}

// simple lists every mnemonic that is always two bytes.
var simple = map[string]struct{}{
	"st": {}, "mov": {}, "add": {}, "and": {},
	"inc": {}, "inca": {}, "dec": {}, "deca": {}, "not": {},
	"gpc": {}, "shl": {}, "shr": {},
	"br": {}, "beq": {}, "bgt": {},
	"halt": {}, "nop": {},
}

var aluFuncs = map[string]uint8{
	"mov":  insts.FuncMov,
	"add":  insts.FuncAdd,
	"and":  insts.FuncAnd,
	"inc":  insts.FuncInc,
	"inca": insts.FuncIncA,
	"dec":  insts.FuncDec,
	"deca": insts.FuncDecA,
	"not":  insts.FuncNot,
}

func parseReg(s string) (uint8, error) {
	m := reReg.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || len(m[1]) != 1 || m[1][0] > '7' {
		return 0, ErrRegisterInvalid
	}
	return m[1][0] - '0', nil
}
