package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ShellDotfile names the per-account shell override in the home
// directory. When it exists, is a regular file, and has an execute bit,
// it is tried before the account's shell.
const ShellDotfile = ".login_shell"

// Invocation is one exec attempt: the file to run and its argv, with
// argv[0] carrying the leading '-' login-shell marker.
type Invocation struct {
	Path string
	Argv []string
}

// Candidates lists the shells to try in order: the account's shell
// dotfile if present, the effective shell, and the default shell as the
// last resort.
func Candidates(home, shell string) []Invocation {
	var out []Invocation
	if p := dotfileShell(home); p != "" {
		out = append(out, invocationFor(p))
	}
	out = append(out, invocationFor(shell))
	if shell != DefaultShell {
		out = append(out, invocationFor(DefaultShell))
	}
	return out
}

// invocationFor builds the login invocation for a shell path. A path
// containing a space cannot be exec'd as one word; the default shell
// runs it behind an exec instead.
func invocationFor(path string) Invocation {
	if strings.ContainsRune(path, ' ') {
		return Invocation{
			Path: DefaultShell,
			Argv: []string{"-sh", "-c", fmt.Sprintf("exec %q", path)},
		}
	}
	return Invocation{
		Path: path,
		Argv: []string{"-" + filepath.Base(path)},
	}
}

func dotfileShell(home string) string {
	if home == "" {
		return ""
	}
	p := filepath.Join(home, ShellDotfile)
	fi, err := os.Stat(p)
	if err != nil || !fi.Mode().IsRegular() || fi.Mode()&0o111 == 0 {
		return ""
	}
	return p
}
