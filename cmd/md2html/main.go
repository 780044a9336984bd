package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-md2html/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(maxprocsLogger(env.Stderr, wantsVerbose(os.Args[1:]))))

	os.Exit(runMain(os.Args, env))
}

// maxprocsLogger prints GOMAXPROCS adjustments in verbose mode only.
func maxprocsLogger(w io.Writer, verbose bool) func(string, ...interface{}) {
	if !verbose {
		return func(string, ...interface{}) {}
	}
	return func(format string, args ...interface{}) {
		fmt.Fprintf(w, format+"\n", args...)
	}
}

// runMain dispatches to a command and returns the process exit code.
// A first argument that is not a command is treated as convert input.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "go-md2html %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	case "completion":
		return exitWith(runCompletion(rest, env), env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "convert":
	default:
		if !looksLikeInput(cmd) {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
		rest = args[1:]
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return exitWith(runConvert(ctx, rest, env), env)
}

// exitWith prints err and maps it to an exit code.
func exitWith(err error, env *Environment) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(env.Stderr, err)
	return exitCodeFor(err)
}

// looksLikeInput reports whether arg can start an implicit convert:
// a flag, a markdown file name, or an existing path.
func looksLikeInput(arg string) bool {
	if arg == "" {
		return false
	}
	if arg[0] == '-' {
		return true
	}
	if fileutil.IsMarkdown(arg) {
		return true
	}
	_, err := os.Stat(filepath.Clean(arg))
	return err == nil
}
