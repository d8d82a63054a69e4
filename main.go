package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/fo-lang/foc/compiler"
)

var version = "v0.1.0"

func main() {
	cmd := &cli.Command{
		Name:                   "foc",
		Usage:                  "Compiles Fo source to C against the tagged-GC runtime",
		Version:                version,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Compile a .fo file to a C source file",
				ArgsUsage: "<file.fo>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output C file path (default: <file>.c)",
					},
				},
				Action: buildAction,
			},
			{
				Name:      "emit",
				Usage:     "Print the generated C source to stdout",
				ArgsUsage: "<file.fo>",
				Action:    emitAction,
			},
			{
				Name:      "ast",
				Usage:     "Dump the per-function free/captured variable sets after lowering",
				ArgsUsage: "<file.fo>",
				Action:    astAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", diagnostic(err))
		os.Exit(1)
	}
}

// diagnostic formats a single-line error message, coloured red when
// stderr is a terminal, matching the teacher's testAction use of
// term.IsTerminal to decide whether ANSI escapes are safe to emit.
func diagnostic(err error) string {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return fmt.Sprintf("error: %v", err)
	}
	return fmt.Sprintf("\033[31merror:\033[0m %v", err)
}

func readSource(cmd *cli.Command) (string, string, error) {
	if cmd.NArg() < 1 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	path := cmd.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), path, nil
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	src, path, err := readSource(cmd)
	if err != nil {
		return err
	}

	comp := &compiler.Compiler{}
	result, err := comp.Compile(src)
	if err != nil {
		return err
	}

	out := cmd.String("output")
	if out == "" {
		out = path + ".c"
	}
	return os.WriteFile(out, []byte(result.CSource), 0o644)
}

func emitAction(ctx context.Context, cmd *cli.Command) error {
	src, _, err := readSource(cmd)
	if err != nil {
		return err
	}

	comp := &compiler.Compiler{}
	out, err := comp.Emit(src)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func astAction(ctx context.Context, cmd *cli.Command) error {
	src, _, err := readSource(cmd)
	if err != nil {
		return err
	}

	comp := &compiler.Compiler{}
	result, err := comp.Compile(src)
	if err != nil {
		return err
	}

	for name, fn := range result.Context.Functions {
		fmt.Printf("%s, #free %d, #captured %d\n", name, len(fn.Varset().FreeVars()), len(fn.Varset().CapturedVars()))
		for _, v := range fn.Varset().FreeVars() {
			fmt.Printf("  free: %s\n", v)
		}
		for _, v := range fn.Varset().CapturedVars() {
			fmt.Printf("  captured: %s\n", v)
		}
	}
	return nil
}
