// Package logindefs reads /etc/login.defs-style configuration. The file
// is line oriented: KEY, whitespace, value, with '#' comments. Values may
// be double-quoted. Unknown keys and malformed lines are skipped; a known
// key with a value of the wrong type is a configuration error.
package logindefs

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/legionus/slogin/internal/hostfs"
	"github.com/legionus/slogin/internal/logger"
)

type Config struct {
	// Pause after a failed authentication attempt.
	FailDelay time.Duration
	// Upper bound on credential entry at the prompt.
	LoginTimeout time.Duration
	// Group given ownership of the terminal, by name or numeric gid.
	// Unresolvable names fall back to the account's primary group.
	TTYGroup string
	// Mode installed on the terminal for the session.
	TTYPerm os.FileMode
	// When non-empty, executed in place of the account's shell.
	FakeShell string
	// PATH for ordinary accounts and for root.
	EnvPath   string
	EnvSuPath string
	// Message of the day, shown unless the account is hushed.
	MotdFile string
	// Bare name: a dotfile in the home directory. Absolute: a global
	// list of hushed login names.
	HushloginFile string
}

func Defaults() Config {
	return Config{
		FailDelay:     3 * time.Second,
		LoginTimeout:  60 * time.Second,
		TTYGroup:      "tty",
		TTYPerm:       0o620,
		EnvPath:       "/usr/local/bin:/bin:/usr/bin",
		EnvSuPath:     "/usr/local/sbin:/usr/local/bin:/sbin:/bin:/usr/sbin:/usr/bin",
		MotdFile:      "/etc/motd",
		HushloginFile: ".hushlogin",
	}
}

// Load reads the host configuration file. A missing file yields the
// defaults.
func Load() (Config, error) {
	p, err := hostfs.Path(hostfs.EtcLoginDefsRel)
	if err != nil {
		return Config{}, err
	}
	b, err := hostfs.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Config{}, err
	}
	return Parse(bytes.NewReader(b))
}

func Parse(r io.Reader) (Config, error) {
	cfg := Defaults()
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := splitKV(line)
		if !ok {
			logger.Warn("login.defs: ignoring malformed line %q", line)
			continue
		}
		if err := cfg.set(key, value); err != nil {
			return Config{}, err
		}
	}
	if err := s.Err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func splitKV(line string) (key, value string, ok bool) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return "", "", false
	}
	key = line[:i]
	value = strings.TrimSpace(line[i:])
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

func (c *Config) set(key, value string) error {
	switch key {
	case "FAIL_DELAY":
		return setSeconds(&c.FailDelay, key, value)
	case "LOGIN_TIMEOUT":
		return setSeconds(&c.LoginTimeout, key, value)
	case "TTYGROUP":
		c.TTYGroup = value
	case "TTYPERM":
		n, err := strconv.ParseUint(strings.TrimPrefix(value, "0o"), 8, 32)
		if err != nil {
			return fmt.Errorf("login.defs: %s: not an octal mode: %q", key, value)
		}
		c.TTYPerm = os.FileMode(n)
	case "FAKE_SHELL":
		c.FakeShell = value
	case "ENV_PATH":
		c.EnvPath = value
	case "ENV_SUPATH":
		c.EnvSuPath = value
	case "MOTD_FILE":
		c.MotdFile = value
	case "HUSHLOGIN_FILE":
		c.HushloginFile = value
	default:
		// Other login.defs keys belong to other tools.
	}
	return nil
}

func setSeconds(dst *time.Duration, key, value string) error {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return fmt.Errorf("login.defs: %s: not a number of seconds: %q", key, value)
	}
	*dst = time.Duration(n) * time.Second
	return nil
}
