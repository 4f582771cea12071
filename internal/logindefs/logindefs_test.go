package logindefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/legionus/slogin/internal/hostfs"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.FailDelay != 3*time.Second {
		t.Errorf("FailDelay = %v", cfg.FailDelay)
	}
	if cfg.TTYGroup != "tty" {
		t.Errorf("TTYGroup = %q", cfg.TTYGroup)
	}
	if cfg.TTYPerm != 0o620 {
		t.Errorf("TTYPerm = %o", cfg.TTYPerm)
	}
	if cfg.FakeShell != "" {
		t.Errorf("FakeShell = %q", cfg.FakeShell)
	}
	if cfg.EnvPath == "" || cfg.EnvSuPath == "" {
		t.Error("default PATH values empty")
	}
}

func TestParseSubsetKeepsOtherDefaults(t *testing.T) {
	in := `
# local policy
FAIL_DELAY	10
TTYPERM 0600
FAKE_SHELL "/usr/local/bin/menu shell"
UMASK 022
`
	cfg, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FailDelay != 10*time.Second {
		t.Errorf("FailDelay = %v", cfg.FailDelay)
	}
	if cfg.TTYPerm != 0o600 {
		t.Errorf("TTYPerm = %o", cfg.TTYPerm)
	}
	if cfg.FakeShell != "/usr/local/bin/menu shell" {
		t.Errorf("FakeShell = %q", cfg.FakeShell)
	}
	// Untouched keys keep defaults.
	if cfg.TTYGroup != "tty" || cfg.LoginTimeout != 60*time.Second {
		t.Errorf("defaults disturbed: %+v", cfg)
	}
}

func TestParseIgnoresMalformedLines(t *testing.T) {
	in := "FAIL_DELAY\nTTYGROUP\ngarbage\nTTYGROUP dialout\n"
	cfg, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TTYGroup != "dialout" {
		t.Errorf("TTYGroup = %q", cfg.TTYGroup)
	}
	if cfg.FailDelay != 3*time.Second {
		t.Errorf("FailDelay = %v", cfg.FailDelay)
	}
}

func TestParseRejectsWrongType(t *testing.T) {
	cases := []string{
		"FAIL_DELAY soon",
		"LOGIN_TIMEOUT -1",
		"TTYPERM rw-rw----",
		"TTYPERM 0699",
	}
	for _, in := range cases {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) accepted a mistyped value", in)
		}
	}
}

func TestLoadMissingFileMeansDefaults(t *testing.T) {
	old := hostfs.Root
	hostfs.Root = t.TempDir()
	defer func() { hostfs.Root = old }()

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Defaults() {
		t.Errorf("Load on missing file = %+v", cfg)
	}
}

func TestLoadReadsHostFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "etc"), 0o755); err != nil {
		t.Fatal(err)
	}
	err := os.WriteFile(filepath.Join(dir, "etc", "login.defs"),
		[]byte("ENV_PATH /bin:/usr/bin\nLOGIN_TIMEOUT 0\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	old := hostfs.Root
	hostfs.Root = dir
	defer func() { hostfs.Root = old }()

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.EnvPath != "/bin:/usr/bin" {
		t.Errorf("EnvPath = %q", cfg.EnvPath)
	}
	if cfg.LoginTimeout != 0 {
		t.Errorf("LoginTimeout = %v", cfg.LoginTimeout)
	}
}
