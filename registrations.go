package vasmpp

import "vasmpp/internal/expr"

// This file is the Go analogue of init_parse and the rest of the
// "Registrations" component (section 2): the small dispatch table a
// syntax module installs to recognize macro/structure/repeat directives
// and route them to the definition-capture and invocation operations
// above. A real CPU/syntax module would own a much larger directive table
// (instruction mnemonics, conditional assembly, section directives); this
// one recognizes only the directives spec.md's component design actually
// describes, so cmd/vasmpp and the test suite have a runnable default
// without pretending to implement a full assembler syntax.
var coreDirectives = []string{"macro", "rept", "struct", "structure", "exitm", "mexit", "incbin"}

// Dispatch inspects one line already produced by ReadNextLine (i.e. one
// that was not part of an active capture) for a recognized directive or a
// registered macro/structure invocation, mirroring the role init_parse's
// directive table plays in routing lines to new_macro/new_structure/
// execute_macro/execute_struct/leave_macro/include_binary_file.
//
// It returns the line that should be emitted downstream (nil if the line
// was fully consumed by a directive) and whether anything was recognized.
func (p *Preprocessor) Dispatch(line []byte) (out []byte, recognized bool) {
	trimmed := line
	for len(trimmed) > 0 && (trimmed[len(trimmed)-1] == 0 || trimmed[len(trimmed)-1] == '\n') {
		trimmed = trimmed[:len(trimmed)-1]
	}

	pos := skipSpaceTab(trimmed, 0)
	name, next := parseIdentifier(trimmed, pos, &p.cfg)
	if name == "" {
		return line, false
	}
	rest := skipSpaceTab(trimmed, next)

	switch lower(name) {
	case "macro":
		argName, after := parseIdentifier(trimmed, rest, &p.cfg)
		p.newMacro(argName, trimmed, after)
		return nil, true

	case "rept":
		exprText := string(trimmed[rest:])
		n, err := expr.ParseConstexpr(&exprText)
		if err != nil {
			p.reportSyntax(ErrBadOperand, "bad repeat count: %v", err)
			return nil, true
		}
		p.newRepeat(int(n))
		return nil, true

	case "struct", "structure":
		structName, _ := parseIdentifier(trimmed, rest, &p.cfg)
		p.newStructure(structName)
		return nil, true

	case "exitm", "mexit":
		p.LeaveMacro()
		return nil, true

	case "incbin":
		fname, after := parseName(trimmed, rest, &p.cfg)
		skip, keep := int64(0), int64(0)
		after = skipSpaceTab(trimmed, after)
		if after < len(trimmed) && trimmed[after] == ',' {
			rest := string(trimmed[after+1:])
			if v, err := expr.ParseConstexpr(&rest); err == nil {
				skip = v
				consumed := len(trimmed[after+1:]) - len(rest)
				after = after + 1 + consumed
				after = skipSpaceTab(trimmed, after)
				if after < len(trimmed) && trimmed[after] == ',' {
					rest2 := string(trimmed[after+1:])
					if v2, err2 := expr.ParseConstexpr(&rest2); err2 == nil {
						keep = v2
					}
				}
			}
		}
		p.IncludeBinaryFile(fname, skip, keep)
		return nil, true

	default:
		if ok, next := p.ExecuteMacro(name, nil, trimmed, rest, p.cur.condLevel); ok {
			_ = next
			return nil, true
		}
		if p.ExecuteStruct(name, trimmed, rest) {
			return nil, true
		}
	}

	return line, false
}

// nextEmittedLine drives ReadNextLine and Dispatch until either a line
// survives dispatch unrecognized (the one that should reach a caller) or
// input is exhausted, cleaning the survivor via cleanLine. It is the single
// driver step ExpandAll and Run both build on, so every consumer of this
// preprocessor's output - batch or streaming - sees the same directive
// handling and the same NUL-stripped, newline-terminated line shape.
func (p *Preprocessor) nextEmittedLine() (line []byte, ok bool) {
	for {
		raw := p.ReadNextLine()
		if raw == nil {
			return nil, false
		}
		out, recognized := p.Dispatch(raw)
		if recognized {
			continue
		}
		return cleanLine(out), true
	}
}

// ExpandAll drives ReadNextLine and Dispatch to exhaustion, returning every
// emitted (non-directive, non-capture) line in order. It is the small
// driver loop cmd/vasmpp and the end-to-end tests use in place of a full
// assembler's main parse loop.
func (p *Preprocessor) ExpandAll() [][]byte {
	var lines [][]byte
	for {
		line, ok := p.nextEmittedLine()
		if !ok {
			return lines
		}
		lines = append(lines, line)
	}
}
