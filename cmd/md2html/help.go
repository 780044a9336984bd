package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html <command> [flags] [args]")
	fmt.Fprintln(w, "       md2html <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert      Convert markdown files to HTML")
	fmt.Fprintln(w, "  doctor       Check the environment for PDF export")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to self-contained HTML pages.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>          Output file or directory (mirrors the input tree)")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>            Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -r, --recursive              Descend into subdirectories (default true)")
	fmt.Fprintln(w, "      --pattern <glob>         File name pattern, repeatable (default *.md)")
	fmt.Fprintln(w, "      --env-file <path>        Load MD2HTML_* variables from a dotenv file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -t, --theme <name>           Theme: default, minimal, professional")
	fmt.Fprintln(w, "      --no-images              Keep image references instead of embedding")
	fmt.Fprintln(w, "      --no-mermaid             Leave mermaid code blocks as code")
	fmt.Fprintln(w, "      --locale <tag>           Interface language: en, zh-CN")
	fmt.Fprintln(w, "      --highlight-style <s>    Code highlighting style (default github)")
	fmt.Fprintln(w, "      --asset-path <dir>       Directory overriding embedded assets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer-text <s>        Footer note")
	fmt.Fprintln(w, "      --footer-date <s>        Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                               Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                               Presets: iso, european, us, long, chinese")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf                    Also print each page to PDF (needs Chrome)")
	fmt.Fprintln(w, "      --pdf-timeout <d>        Page load timeout (default 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modes:")
	fmt.Fprintln(w, "      --watch                  Reconvert files when they change")
	fmt.Fprintln(w, "      --stats                  Print batch statistics")
	fmt.Fprintln(w, "      --list-themes            List themes and exit")
	fmt.Fprintln(w, "      --extract-diagrams       Print mermaid sources and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Show timing and debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2HTML_CONFIG, MD2HTML_THEME, MD2HTML_EMBED_IMAGES,")
	fmt.Fprintln(w, "  MD2HTML_PROCESS_MERMAID, MD2HTML_LOCALE, MD2HTML_WORKERS, LOG_LEVEL")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: md2html doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, sandbox settings and assets used by --pdf.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
