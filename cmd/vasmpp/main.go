// Command vasmpp drives the vasmpp preprocessor core from the command
// line, expanding a source file (or an interactive session) to its
// materialized logical lines. It replaces the teacher's raw flag.FlagSet
// main.go with a small cobra command tree, and its stdin "type a program
// in, see it echoed" loop with a real line editor via peterh/liner.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"vasmpp"
	"vasmpp/internal/fileinput"
	"vasmpp/internal/flushio"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vasmpp",
		Short: "Expand assembler source through the vasmpp preprocessor core",
	}
	root.AddCommand(newExpandCmd(), newDumpCmd())
	return root
}

func newExpandCmd() *cobra.Command {
	var interactive bool
	var noCaseMacros bool
	var namedParams bool

	cmd := &cobra.Command{
		Use:   "expand [file]",
		Short: "Print the expanded logical lines of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []vasmpp.PreOption{
				vasmpp.WithNoCaseMacros(noCaseMacros),
				vasmpp.WithNamedMacParams(namedParams),
			}
			p := vasmpp.New(opts...)

			if interactive || len(args) == 0 && isTTY() {
				return runREPL(p)
			}

			var name string
			var data []byte
			var err error
			if len(args) == 1 {
				name = args[0]
				data, err = fileinput.LoadFile(name)
			} else {
				name = "<stdin>"
				data, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}
			p.PushSource(name, data)
			return runExpand(p, os.Stdout)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read source interactively via a line editor")
	cmd.Flags().BoolVar(&noCaseMacros, "nocase-macros", false, "case-insensitive macro name lookup")
	cmd.Flags().BoolVar(&namedParams, "named-params", false, "enable \\name macro parameter substitution")
	return cmd
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Expand a source file and print its listing records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := vasmpp.New(vasmpp.WithListing(true))
			name := "<stdin>"
			var data []byte
			var err error
			if len(args) == 1 {
				name = args[0]
				data, err = fileinput.LoadFile(name)
			} else {
				data, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}
			p.PushSource(name, data)
			for _, line := range p.ExpandAll() {
				os.Stdout.Write(line)
			}
			return p.DumpListing(os.Stdout)
		},
	}
	return cmd
}

// runExpand drives the preprocessor to exhaustion through a flush-able
// writer, mirroring the teacher's use of internal/flushio to wrap whatever
// output stream its caller passed in rather than assuming it is bufio-backed
// already.
func runExpand(p *vasmpp.Preprocessor, w io.Writer) error {
	wf := flushio.NewWriteFlusher(w)
	for _, line := range p.ExpandAll() {
		if _, err := wf.Write(line); err != nil {
			return err
		}
	}
	return wf.Flush()
}

// runREPL drives an interactive session: each entered line is pushed as a
// one-line source chunk, and any lines it expands to (e.g. an invoked
// macro's body) are printed before prompting for the next one. This
// upgrades the teacher's bare stdin loop to a real line editor, grounded
// on the ozanh-ugo interpreter's use of peterh/liner for its own shell.
func runREPL(p *vasmpp.Preprocessor) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		text, err := line.Prompt("vasmpp> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return err
		}
		line.AppendHistory(text)
		p.PushSource("<repl>", []byte(text+"\n"))
		for _, out := range p.ExpandAll() {
			os.Stdout.Write(out)
		}
	}
}

func isTTY() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
