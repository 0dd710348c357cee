package vasmpp

import (
	"vasmpp/internal/atom"
	"vasmpp/internal/expr"
	"vasmpp/internal/symtab"
)

// StructureField is one declared slot inside a Structure, mirroring
// spec.md section 3.
type StructureField struct {
	Name     string
	Bitsize  int
	IsArray  bool
	DefVal   int64
	DefArray []byte
}

// Structure is a Macro plus its compiled field list and cached length,
// mirroring spec.md section 3's Structure data model.
type Structure struct {
	Macro
	Fields     []StructureField
	LengthBits int
}

func structKey(cfg *Config, name string) string {
	if cfg.NoCaseStructure {
		return lower(name)
	}
	return name
}

func (p *Preprocessor) lookupStructure(name string) *Structure {
	return p.structs[structKey(&p.cfg, name)]
}

// addStructure parses the captured body [bodyStart, bodyEnd) into an
// ordered field list and registers the structure, mirroring add_structure
// and the whole of section 4.5.
func (p *Preprocessor) addStructure(bodyEnd int) {
	st := p.curStruct
	body := p.cur.text[p.capture.bodyStart:bodyEnd]
	names := map[string]bool{}

	pos := 0
	for pos < len(body) {
		lineEnd := pos
		for lineEnd < len(body) && body[lineEnd] != '\n' {
			lineEnd++
		}
		line := body[pos:lineEnd]
		pos = lineEnd
		if pos < len(body) {
			pos++
		}

		lp := 0
		for lp < len(line) && isSpaceOrTab(line[lp]) {
			lp++
		}
		if lp == len(line) {
			continue // blank line
		}
		if lp > 0 {
			p.reportSyntax(10, "leading whitespace before structure field identifier")
		}

		fieldName, after := parseIdentifier(line, lp, &p.cfg)
		if fieldName == "" {
			continue
		}
		if names[fieldName] {
			p.reportSyntax(ErrMissingENDM, "duplicate structure field %q", fieldName)
			continue
		}
		names[fieldName] = true
		lp = skipSpaceTab(line, after)

		typeName, after2 := parseIdentifier(line, lp, &p.cfg)
		lp = after2
		isArray := false
		var bitsize int
		if bl, ok := p.cfg.lookupType(typeName); !ok {
			p.reportSyntax(ErrBadOperand, "unknown structure field type %q", typeName)
			continue
		} else if bl == 0 {
			isArray = true
			rest := string(line[lp:])
			n, err := expr.ParseConstexpr(&rest)
			if err != nil {
				p.reportSyntax(ErrBadOperand, "bad array size: %v", err)
				continue
			}
			lp = len(line) - len(rest)
			bitsize = int(8 * n)
		} else {
			bitsize = bl
		}

		lp = skipSpaceTab(line, lp)
		var field StructureField
		field.Name = fieldName
		field.Bitsize = bitsize
		field.IsArray = isArray

		if lp < len(line) && line[lp] == '=' {
			lp = skipSpaceTab(line, lp+1)
			if isArray {
				field.DefArray = make([]byte, bitsize/8)
				n := 0
				for lp < len(line) {
					if line[lp] == '"' || line[lp] == '\'' {
						data, next := parseString(line, lp, line[lp], 8, p)
						lp = next
						if data != nil {
							if n+len(data) > len(field.DefArray) {
								p.reportSyntax(ErrSizeMismatch, "structure array default overflows field %q", fieldName)
								data = data[:len(field.DefArray)-n]
							}
							copy(field.DefArray[n:], data)
							n += len(data)
						}
					} else if line[lp] >= '0' && line[lp] <= '9' {
						rest := string(line[lp:])
						v, err := expr.ParseConstexpr(&rest)
						consumed := len(line[lp:]) - len(rest)
						lp += consumed
						if err != nil {
							p.reportSyntax(ErrBadOperand, "bad byte constant: %v", err)
							break
						}
						if n >= len(field.DefArray) {
							p.reportSyntax(ErrSizeMismatch, "structure array default overflows field %q", fieldName)
						} else {
							field.DefArray[n] = byte(v)
						}
						n++
					} else {
						p.reportSyntax(ErrExpectedStringDefault, "expected string or byte constant")
						break
					}
					lp = skipSpaceTab(line, lp)
					if lp < len(line) && line[lp] == ',' {
						lp = skipSpaceTab(line, lp+1)
						continue
					}
					break
				}
			} else {
				rest := string(line[lp:])
				v, err := expr.ParseConstexpr(&rest)
				if err != nil {
					field.DefVal = 0
				} else {
					field.DefVal = v
				}
			}
		} else if isArray {
			field.DefArray = make([]byte, bitsize/8)
		}

		st.Fields = append(st.Fields, field)
		st.LengthBits += bitsize
	}

	p.structs[st.Name] = st
	p.curStruct = nil
	p.capture = nil

	if p.symtab != nil {
		p.symtab.NewAbs(st.Name, expr.NumberExpr(int64(st.LengthBits/8)))
		offset := int64(0)
		for _, f := range st.Fields {
			label := symtab.MakeLocalLabel(st.Name, "."+f.Name)
			p.symtab.NewAbs(label, expr.NumberExpr(offset))
			offset += int64(f.Bitsize / 8)
		}
	}
}

// ExecuteStruct instantiates a structure, consuming one comma-separated
// operand per field and emitting the corresponding atom, mirroring
// execute_struct (section 4.7). Returns false only on a lookup miss.
func (p *Preprocessor) ExecuteStruct(name string, s []byte, pos int) bool {
	st := p.lookupStructure(name)
	if st == nil {
		return false
	}
	for _, f := range st.Fields {
		pos = skipSpaceTab(s, pos)
		start := pos
		for pos < len(s) && s[pos] != ',' && s[pos] != '\n' {
			pos++
		}
		valText := trimRight(s[start:pos])

		if f.IsArray {
			if len(valText) == 0 {
				p.atoms.AddAtom(atom.NewDataAtom(&atom.DBlock{Data: append([]byte(nil), f.DefArray...)}, 1))
			} else if valText[0] == '"' || valText[0] == '\'' {
				data, _ := parseString(valText, 0, valText[0], 8, p)
				if len(data) != len(f.DefArray) {
					p.reportSyntax(ErrSizeMismatch, "structure field %q expects %d bytes", f.Name, len(f.DefArray))
				} else {
					p.atoms.AddAtom(atom.NewDataAtom(&atom.DBlock{Data: data}, 1))
				}
			} else {
				p.reportSyntax(ErrExpectedStringDefault, "structure field %q expects a string", f.Name)
			}
		} else {
			if len(valText) == 0 {
				p.atoms.AddAtom(atom.NewSpaceAtom(1, f.Bitsize/8, f.DefVal))
			} else {
				op := atom.NewOperand()
				kind := atom.DataOperand(f.Bitsize)
				if !p.operandParser.ParseOperand(string(valText), op, kind) {
					p.reportSyntax(ErrBadOperand, "bad operand for structure field %q", f.Name)
				} else {
					p.atoms.AddAtom(atom.NewDatadefAtom(f.Bitsize, op))
				}
			}
		}

		if pos < len(s) && s[pos] == ',' {
			pos++
		}
	}
	return true
}

func trimRight(b []byte) []byte {
	i := len(b)
	for i > 0 && isSpaceOrTab(b[i-1]) {
		i--
	}
	return b[:i]
}
