package session

import (
	"path/filepath"
	"sort"

	"github.com/legionus/slogin/internal/hostfs"
	"github.com/legionus/slogin/internal/logindefs"
	"github.com/legionus/slogin/internal/userdb"
)

// DefaultShell is the last-resort login shell.
const DefaultShell = "/bin/sh"

// EffectiveShell is the shell the session runs: the configured fake
// shell when set, else the account's shell, else the default.
func EffectiveShell(acct *userdb.PasswdEntry, cfg logindefs.Config) string {
	if cfg.FakeShell != "" {
		return cfg.FakeShell
	}
	if acct.Shell != "" {
		return acct.Shell
	}
	return DefaultShell
}

// LoginEnv builds the child environment from a clean table: the
// inherited terminal type, the account identity, and the framework's
// exported variables, which win any overlap. The result is sorted, so
// the same inputs always produce the same list.
func LoginEnv(acct *userdb.PasswdEntry, cfg logindefs.Config, shell, term string, framework map[string]string) ([]string, error) {
	if term == "" {
		term = "dumb"
	}
	mailDir, err := hostfs.Path(hostfs.MailDirRel)
	if err != nil {
		return nil, err
	}
	path := cfg.EnvPath
	if acct.UID == 0 {
		path = cfg.EnvSuPath
	}

	vars := map[string]string{
		"TERM":    term,
		"HOME":    acct.Home,
		"USER":    acct.Name,
		"LOGNAME": acct.Name,
		"SHELL":   shell,
		"PATH":    path,
		"MAIL":    filepath.Join(mailDir, acct.Name),
	}
	for k, v := range framework {
		vars[k] = v
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env, nil
}
