package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// editorDoneMsg carries the text back from an external editor session.
type editorDoneMsg struct {
	mountTag
	text    string
	changed bool
	err     error
}

func editorName() string {
	for _, k := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return "vi"
}

// editInEditor suspends the program, opens text in $VISUAL/$EDITOR and reports the result.
// The temp file is removed before the message is delivered.
func editInEditor(tag mountTag, text string) (tea.Cmd, error) {
	argv := shellWords(editorName())
	if len(argv) == 0 {
		argv = []string{"vi"}
	}

	f, err := os.CreateTemp("", "bookclub-note-*.md")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	_ = f.Close()

	c := exec.Command(argv[0], append(argv[1:], path)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()
		if err != nil {
			return editorDoneMsg{mountTag: tag, err: err}
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return editorDoneMsg{mountTag: tag, err: err}
		}
		after := string(b)
		return editorDoneMsg{
			mountTag: tag,
			text:     after,
			changed:  strings.TrimSpace(after) != strings.TrimSpace(text),
		}
	}), nil
}

func editorNotice(msg editorDoneMsg) string {
	switch {
	case msg.err != nil:
		return "Editor failed: " + msg.err.Error()
	case !msg.changed:
		return fmt.Sprintf("No changes from %s", editorName())
	default:
		return fmt.Sprintf("Updated from %s (ctrl+s to save)", editorName())
	}
}

// shellWords splits a command line such as `code --wait` into argv.
// Single quotes are literal; double quotes and backslashes work as in sh.
func shellWords(s string) []string {
	var (
		out     []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote, inWord = r, true
		case r == ' ' || r == '\t' || r == '\n':
			if inWord {
				out = append(out, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		out = append(out, word.String())
	}
	return out
}
