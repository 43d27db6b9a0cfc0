package main

import (
	"os"
	"strings"

	"bookclub-cli/internal/cli"
)

func rewriteBareSearchArgs(argv []string, commands []string) []string {
	// Convenience: `bookclub dune messiah` works like `bookclub search dune messiah`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (`bookclub --api-url ... dune`), so we look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	known := make(map[string]bool, len(commands))
	for _, c := range commands {
		known[c] = true
	}
	valueFlags := map[string]bool{
		"--api-url":         true,
		"--config-dir":      true,
		"--session-backend": true,
		"--format":          true,
		"--view":            true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Cobra does not look for subcommands past "--".
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		// First positional token.
		if known[a] {
			return argv
		}
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "search")
		return append(out, argv[i:]...)
	}
	return argv
}

func main() {
	os.Exit(cli.Execute(rewriteBareSearchArgs(os.Args, cli.CommandNames())))
}
