// Command psi is a thin wrapper around the postscript package: it
// reads a source file (or standard input), runs it through an
// Interpreter, and exits nonzero on any interpreter error.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	postscript "github.com/AMVezz/PostScriptInterpreter"
)

type cli struct {
	File    string `arg:"" optional:"" help:"Source file to run; standard input is read if omitted."`
	Lexical bool   `short:"l" help:"Use lexical scoping instead of the default dynamic scoping."`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("psi"),
		kong.Description("run a program in the postscript-family stack language"),
	)

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	source, err := readSource(args.File)
	if err != nil {
		log.Error("reading source", "error", err)
		os.Exit(1)
	}

	intp := postscript.NewInterpreter(args.Lexical, os.Stdout)
	if err := intp.Run(source); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func readSource(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
