package session

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/legionus/slogin/internal/tty"
	"github.com/legionus/slogin/internal/userdb"
)

var ErrPrivilege = errors.New("privilege change failed")

// Apply performs the ordered privilege transition for the authenticated
// account: supplementary groups, real gid, framework session, terminal
// ownership, and last the child environment so it reflects the final
// identity. The uid itself drops later, in the child, once the
// controlling terminal has moved. A failure in any group step aborts
// before the next one runs.
func Apply(ctx *Context) error {
	acct := ctx.Account

	if err := unix.Setgroups(ctx.DB.Groups(acct)); err != nil {
		return fmt.Errorf("%w: set groups for %s: %v", ErrPrivilege, acct.Name, err)
	}
	if err := unix.Setgid(acct.GID); err != nil {
		return fmt.Errorf("%w: setgid %d: %v", ErrPrivilege, acct.GID, err)
	}

	if err := ctx.Auth.OpenSession(); err != nil {
		return err
	}

	gid := ttyGID(ctx.DB, ctx.Config.TTYGroup, acct.GID)
	if err := tty.TransferOwnership(ctx.TtyPath, acct.UID, gid, ctx.Config.TTYPerm); err != nil {
		return err
	}

	framework, err := ctx.Auth.Environ()
	if err != nil {
		return err
	}
	ctx.Shell = EffectiveShell(acct, ctx.Config)
	env, err := LoginEnv(acct, ctx.Config, ctx.Shell, ctx.Term, framework)
	if err != nil {
		return err
	}
	ctx.Env = env
	return nil
}

// ttyGID resolves the configured terminal group, first as a group name,
// then as a numeric gid, falling back to the account's primary group.
func ttyGID(db *userdb.DB, name string, fallback int) int {
	if name == "" {
		return fallback
	}
	if g := db.GroupByName(name); g != nil {
		return g.GID
	}
	if n, err := strconv.Atoi(name); err == nil {
		return n
	}
	return fallback
}
