// Command pcse interprets a single pseudocode source file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/virchau13/pcse/interp"
	"github.com/virchau13/pcse/lexer"
	"github.com/virchau13/pcse/parser"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [--print-tokens] [--print-tree] <file.pcse>\n", os.Args[0])
}

func main() {
	printTokens := flag.Bool("print-tokens", false, "dump the scanned token stream to stderr")
	printTree := flag.Bool("print-tree", false, "dump the parsed AST to stderr")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *printTokens, *printTree); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", errorKind(err), err.Error())
		os.Exit(1)
	}
}

func run(path string, printTokens, printTree bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	toks, ids, idCount, err := lexer.New(src).Scan()
	if err != nil {
		return err
	}
	if printTokens {
		for _, t := range toks {
			fmt.Fprintln(os.Stderr, t.String())
		}
	}

	prog, err := parser.New(toks).ParseProgram()
	if err != nil {
		return err
	}
	if printTree {
		fmt.Fprintln(os.Stderr, prog.String())
	}

	it := interp.New(idCount, ids, os.Stdout, os.Stdin)
	return it.Run(prog)
}

func errorKind(err error) string {
	switch err.(type) {
	case *lexer.LexError:
		return "LexError"
	case *parser.ParseError:
		return "ParseError"
	case *interp.TypeError:
		return "TypeError"
	case *interp.RuntimeError:
		return "RuntimeError"
	default:
		return "Error"
	}
}
