/*
Package vasmpp implements the source-preprocessor core of an assembler front
end: the stage that turns a raw assembly source stream into a sequence of
expanded logical lines suitable for downstream lexing and operand parsing.

Three responsibilities are bundled together here, because they share state
too tightly to separate cleanly:

  - A source-context stack (Frame, in frame.go): nested input contexts for
    the top-level file, a macro expansion, or a repeat block, each with its
    own line counter and unique id used for \@ substitution.

  - Definition capture (capture.go, macro.go, structure.go, repeat.go):
    collecting the body of a macro, structure, or repeat block by scanning
    forward for a balanced end directive, while still respecting quoted
    strings, comments, and nested repeats.

  - Line materialization (line.go): ReadNextLine, the single pump that
    drives both of the above and emits one expanded line at a time -
    decoding backslash escapes, substituting macro parameters, and
    normalizing line endings.

A C implementation of this pump leans on a handful of process-wide globals:
the current source frame, the macro or structure being defined, the active
end-directive list, and the macro/structure hash tables. This package
threads all of that through a single *Preprocessor value instead (see
api.go), so that more than one preprocessing pass can run without
interfering with another.

The CPU/syntax-specific instruction and operand parser, expression
evaluator, symbol table, and atom/data-block layer are all out of scope for
this core. The symbol table, atom layer and operand parser are reached
through small collaborator interfaces (SymbolTable and AtomSink in api.go,
atom.OperandParser in internal/atom), with internal/symtab and
internal/atom supplying the defaults used when nothing else is injected.
The expression evaluator is the minimal internal/expr package, called
directly rather than through an interface.

See cmd/vasmpp for a command-line driver that expands a source file, prints
a listing, or drives an interactive REPL.
*/
package vasmpp

