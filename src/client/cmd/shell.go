package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// shellSupport describes how one shell loads the catalog completions
type shellSupport struct {
	generate func(w io.Writer) error
	// initLine is a format string taking the binary name
	initLine string
}

var shells = map[string]shellSupport{
	"bash": {
		generate: func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
		initLine: "source <(%s shell completions bash)\n",
	},
	"zsh": {
		generate: rootCmd.GenZshCompletion,
		initLine: "source <(%s shell completions zsh)\n",
	},
	"fish": {
		generate: func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
		initLine: "%s shell completions fish | source\n",
	},
	"powershell": {
		generate: rootCmd.GenPowerShellCompletionWithDesc,
		initLine: "Invoke-Expression (& %s shell completions powershell)\n",
	},
}

// shellNames lists accepted shell arguments, pwsh included
func shellNames() []string {
	names := make([]string, 0, len(shells)+1)
	for name := range shells {
		names = append(names, name)
	}
	names = append(names, "pwsh")
	sort.Strings(names)
	return names
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Completion scripts and rc-file hooks",
}

var completionsCmd = &cobra.Command{
	Use:   "completions [shell]",
	Short: "Print a completion script",
	Long: `Print the completion script for a shell. Without an argument the shell
is taken from $SHELL.

Examples:
  ` + getBinaryName() + ` shell completions bash > ~/.local/share/bash-completion/completions/` + getBinaryName() + `
  ` + getBinaryName() + ` shell completions fish > ~/.config/fish/completions/` + getBinaryName() + `.fish`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: shellNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCompletions(cmd.OutOrStdout(), shellArg(args))
	},
}

var initCmd = &cobra.Command{
	Use:   "init [shell]",
	Short: "Print the line that loads completions",
	Long: `Print a line for your shell rc file that loads the completions:

  eval "$(` + getBinaryName() + ` shell init)"`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: shellNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printInit(cmd.OutOrStdout(), shellArg(args))
	},
}

func init() {
	shellCmd.AddCommand(completionsCmd, initCmd)
	rootCmd.AddCommand(shellCmd)
}

func shellArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return detectShell()
}

// detectShell returns the base name of $SHELL, or bash when unset
func detectShell() string {
	shellPath := os.Getenv("SHELL")
	if shellPath == "" {
		return "bash"
	}
	base := filepath.Base(shellPath)
	// Windows paths survive filepath.Base on unix
	if idx := strings.LastIndex(base, "\\"); idx >= 0 {
		base = base[idx+1:]
	}
	return base
}

func lookupShell(name string) (shellSupport, error) {
	if name == "pwsh" {
		name = "powershell"
	}
	s, ok := shells[name]
	if !ok {
		return shellSupport{}, fmt.Errorf("unsupported shell: %s\nSupported: bash, zsh, fish, powershell", name)
	}
	return s, nil
}

func printCompletions(w io.Writer, shell string) error {
	s, err := lookupShell(shell)
	if err != nil {
		return err
	}
	return s.generate(w)
}

func printInit(w io.Writer, shell string) error {
	s, err := lookupShell(shell)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, s.initLine, getBinaryName())
	return err
}
