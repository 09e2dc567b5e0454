package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/funvibe/lambda/internal/ast"
	"github.com/funvibe/lambda/internal/config"
	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/globals"
	lambda "github.com/funvibe/lambda/pkg/embed"
	"github.com/mattn/go-isatty"
)

const usage = `Usage: lambda [flags] <command> [args]

Commands:
  type <tree.yaml>             print the static type of a tree
  eval <tree.yaml>             type-check and evaluate a tree
  free <tree.yaml>             list the free variables of a tree
  globals list                 list the configured globals
  globals import <file.yaml>   copy a YAML globals file into globals_db

A tree path of "-" reads from stdin.

Flags:
`

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	json   bool
	color  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lambda", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "print eval results as JSON")
	configPath := fs.String("config", "", "path to lambda.yaml (default: search upwards from the working directory)")
	debug := fs.Bool("debug", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	level := cfg.Level()
	if *debug {
		level = slog.LevelDebug
	}

	a := &app{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		json:   *jsonOut,
		color:  isTerminal(stderr),
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "type", "eval", "free":
		if len(rest) != 1 {
			fmt.Fprintf(stderr, "Usage: lambda %s <tree.yaml>\n", cmd)
			return 2
		}
		err = a.runTree(cmd, rest[0])
	case "globals":
		err = a.runGlobals(rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	if err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.Default(), nil
		}
		path = found
	}
	return config.LoadConfig(path)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) readTree(path string) (ast.Expression, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return ast.Decode(data)
	}
	return ast.ReadFile(path)
}

func (a *app) newVM(ctx context.Context) (*lambda.VM, error) {
	reg, err := globals.Load(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	vm := lambda.NewWithConfig(a.cfg, reg)
	vm.SetLogger(a.logger)
	return vm, nil
}

func (a *app) runTree(cmd, path string) error {
	node, err := a.readTree(path)
	if err != nil {
		return err
	}
	if cmd == "free" {
		for _, name := range ast.FreeVariables(node) {
			fmt.Fprintln(a.stdout, name)
		}
		return nil
	}

	vm, err := a.newVM(context.Background())
	if err != nil {
		return err
	}
	t, err := vm.TypeOf(node)
	if err != nil {
		return err
	}
	if cmd == "type" {
		fmt.Fprintln(a.stdout, t)
		return nil
	}

	v, err := vm.EvalValue(node)
	if err != nil {
		return err
	}
	if !a.json {
		fmt.Fprintln(a.stdout, v.Inspect())
		return nil
	}
	result, err := vm.Marshal(v)
	if err != nil {
		return err
	}
	out, err := lambda.ToJSON(result)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}

func (a *app) runGlobals(args []string) error {
	ctx := context.Background()
	switch {
	case len(args) == 1 && args[0] == "list":
		reg, err := globals.Load(ctx, a.cfg, a.logger)
		if err != nil {
			return err
		}
		for _, name := range reg.Names() {
			fmt.Fprintln(a.stdout, name)
		}
		return nil
	case len(args) == 2 && args[0] == "import":
		if a.cfg.GlobalsDB == "" {
			return errors.New("globals import: no globals_db configured")
		}
		reg, err := globals.LoadYAML(args[1])
		if err != nil {
			return err
		}
		values := make(map[string]interface{}, reg.Len())
		for _, name := range reg.Names() {
			values[name], _ = reg.Global(name)
		}
		db := a.cfg.Resolve(a.cfg.GlobalsDB)
		if err := globals.StoreSQLite(ctx, db, a.cfg.GlobalsTable, values); err != nil {
			return err
		}
		a.logger.Info("imported globals", "count", len(values), "db", db)
		return nil
	}
	return errors.New("usage: lambda globals list | lambda globals import <file.yaml>")
}

var kindColors = map[diagnostics.Kind]string{
	diagnostics.KindSyntax:   "\x1b[35m",
	diagnostics.KindType:     "\x1b[33m",
	diagnostics.KindRuntime:  "\x1b[31m",
	diagnostics.KindUser:     "\x1b[36m",
	diagnostics.KindInternal: "\x1b[1;31m",
	diagnostics.KindResource: "\x1b[1;33m",
}

// report prints err, coloured by kind on a terminal.
func (a *app) report(err error) {
	msg := err.Error()
	if a.color {
		if c, ok := kindColors[diagnostics.KindOf(err)]; ok {
			msg = c + msg + "\x1b[0m"
		}
	}
	fmt.Fprintln(a.stderr, msg)
}
