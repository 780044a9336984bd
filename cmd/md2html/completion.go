package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2html/internal/theme"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob []string // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name       string
	Desc       string
	Flags      []flagDef
	TakesFiles bool // accepts markdown file arguments
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob []string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"theme":    {Values: theme.Names()},
	"locale":   {Values: []string{"en", "zh-CN"}},
	"config":   {FileGlob: []string{"*.yaml", "*.yml"}},
	"env-file": {FileGlob: []string{"*.env", ".env"}},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// markdownGlobs lists the patterns offered for input arguments.
var markdownGlobs = []string{"*.md", "*.markdown", "*.mdown", "*.mkd"}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case len(meta.FileGlob) > 0:
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet.
func getCommands() []commandDef {
	flags := extractFlagsFromFlagSet(buildConvertFlagSet(&convertFlags{}))

	return []commandDef{
		{Name: "convert", Desc: "Convert markdown files to HTML", Flags: flags, TakesFiles: true},
		{Name: "doctor", Desc: "Check the environment for PDF export", Flags: []flagDef{
			{Long: "json", Type: flagBool, Desc: "print the report as JSON"},
			{Long: "asset-path", Type: flagDir, Desc: "custom asset directory to check"},
		}},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	case ShellPowerShell:
		script = generatePowerShell(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

func generateBash(cmds []commandDef) string {
	var b strings.Builder
	convert := cmds[0]

	b.WriteString("# bash completion for md2html\n")
	b.WriteString("_md2html() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	fmt.Fprintf(&b, "    if [[ $COMP_CWORD -eq 1 && \"$cur\" != -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$prev\" in\n")
	for _, f := range convert.Flags {
		names := "--" + f.Long
		if f.Short != "" {
			names += "|-" + f.Short
		}
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return ;;\n", names, strings.Join(f.Values, " "))
		case flagDir:
			fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -d -- \"$cur\") ); return ;;\n", names)
		case flagFile:
			fmt.Fprintf(&b, "        %s) COMPREPLY=( $(compgen -f -- \"$cur\") ); return ;;\n", names)
		case flagString, flagInt:
			fmt.Fprintf(&b, "        %s) COMPREPLY=(); return ;;\n", names)
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(flagWords(convert.Flags), " "))
	b.WriteString("        return\n    fi\n")
	b.WriteString("    COMPREPLY=( $(compgen -f -- \"$cur\") )\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _md2html md2html\n")
	return b.String()
}

// zshEscape escapes characters special inside an _arguments spec.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func generateZsh(cmds []commandDef) string {
	var b strings.Builder
	convert := cmds[0]

	b.WriteString("#compdef md2html\n\n")
	b.WriteString("_md2html() {\n")
	b.WriteString("    _arguments -s \\\n")
	for _, f := range convert.Flags {
		desc := zshEscape(f.Desc)
		spec := "--" + f.Long
		if f.Short != "" {
			spec = "{-" + f.Short + ",--" + f.Long + "}"
		}
		var action string
		switch f.Type {
		case flagBool:
			action = ""
		case flagEnum:
			action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
		case flagDir:
			action = ":directory:_files -/"
		case flagFile:
			action = ":file:_files -g \"" + strings.Join(f.FileGlob, " ") + "\""
		default:
			action = ":" + f.Long + ":"
		}
		if f.Short != "" {
			fmt.Fprintf(&b, "        %s'[%s]%s' \\\n", spec, desc, action)
		} else {
			fmt.Fprintf(&b, "        '%s[%s]%s' \\\n", spec, desc, action)
		}
	}
	fmt.Fprintf(&b, "        '1:command or input:(%s)' \\\n", strings.Join(commandNames(cmds), " "))
	fmt.Fprintf(&b, "        '*:input:_files -g \"%s\"'\n", strings.Join(markdownGlobs, " "))
	b.WriteString("}\n\n")
	b.WriteString("compdef _md2html md2html\n")
	return b.String()
}

// fishEscape escapes single quotes for fish strings.
func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func generateFish(cmds []commandDef) string {
	var b strings.Builder
	convert := cmds[0]

	b.WriteString("# fish completion for md2html\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2html -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, f := range convert.Flags {
		line := "complete -c md2html -l " + f.Long
		if f.Short != "" {
			line += " -s " + f.Short
		}
		line += " -d '" + fishEscape(f.Desc) + "'"
		switch f.Type {
		case flagEnum:
			line += " -xa '" + strings.Join(f.Values, " ") + "'"
		case flagDir:
			line += " -xa '(__fish_complete_directories)'"
		case flagFile:
			line += " -rF"
		case flagString, flagInt:
			line += " -r"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("complete -c md2html -n '__fish_seen_subcommand_from completion' -xa 'bash zsh fish powershell'\n")
	return b.String()
}

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder
	words := append(commandNames(cmds), flagWords(cmds[0].Flags)...)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = "'" + w + "'"
	}

	b.WriteString("# powershell completion for md2html\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName md2html -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	fmt.Fprintf(&b, "    $words = @(%s)\n", strings.Join(quoted, ", "))
	b.WriteString("    $words | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(md2html completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(md2html completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    md2html completion fish > ~/.config/fish/completions/md2html.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    md2html completion powershell | Out-String | Invoke-Expression")
}
