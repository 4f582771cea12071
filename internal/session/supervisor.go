package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/legionus/slogin/internal/logger"
	"github.com/legionus/slogin/internal/tty"
	"github.com/legionus/slogin/internal/utmp"
)

var (
	ErrControllingTty = errors.New("cannot acquire controlling terminal")
	ErrFork           = errors.New("cannot fork session process")
	ErrExec           = errors.New("cannot execute login shell")
)

// Run hands the terminal to a child process running the account's shell
// and supervises it to completion. The parent keeps nothing privileged
// while it waits; when the child exits, the framework session is
// settled and Run returns nil regardless of the shell's exit status,
// since the login itself succeeded.
func Run(ctx *Context) error {
	acct := ctx.Account
	name := acct.Name
	line := tty.Line(ctx.TtyPath)
	dir := workingDir(acct.Home)
	cred := &syscall.Credential{
		Uid:    uint32(acct.UID),
		Gid:    uint32(acct.GID),
		Groups: gidList(ctx.DB.Groups(acct)),
	}
	candidates := Candidates(acct.Home, ctx.Shell)

	tty.Disconnect()
	f, err := tty.Acquire(ctx.TtyPath)
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	for _, inv := range candidates {
		c := childCommand(inv, f, dir, ctx.Env, cred)
		err := c.Start()
		if err == nil {
			cmd = c
			break
		}
		kind := classifyStart(err)
		if kind != ErrExec {
			_ = f.Close()
			return fmt.Errorf("%w: %s: %v", kind, inv.Path, err)
		}
		logger.Error("cannot execute %s: %v", inv.Path, err)
	}
	if cmd == nil {
		_ = f.Close()
		return fmt.Errorf("%w: no shell could be started for %s", ErrExec, name)
	}

	// From here the child owns the terminal and the identity. The parent
	// sheds everything but the framework handle and goes quiet.
	signal.Ignore(os.Interrupt, syscall.SIGQUIT, syscall.SIGHUP)
	ctx.scrub()
	logger.Quiet()
	_ = f.Close()
	_ = os.Stdin.Close()
	_ = os.Stdout.Close()
	_ = os.Stderr.Close()

	rec := utmp.New(utmp.UserProcess, line, name, "", int32(cmd.Process.Pid), time.Now())
	if err := utmp.WriteLogin(rec); err != nil {
		logger.Warn("utmp: %v", err)
	}

	werr := cmd.Wait()
	switch werr.(type) {
	case nil:
		logger.Info("session for %s on %s ended", name, line)
	case *exec.ExitError:
		logger.Info("session for %s on %s ended: %v", name, line, werr)
	default:
		logger.Error("wait for session process: %v", werr)
	}

	if err := ctx.Auth.Close(); err != nil {
		logger.Error("close authentication session: %v", err)
	}
	return nil
}

// childCommand describes the child declaratively: a new kernel session,
// the terminal on the standard descriptors and as controlling terminal,
// the account's credentials applied between fork and exec.
func childCommand(inv Invocation, f *os.File, dir string, env []string, cred *syscall.Credential) *exec.Cmd {
	return &exec.Cmd{
		Path:   inv.Path,
		Args:   inv.Argv,
		Env:    env,
		Dir:    dir,
		Stdin:  f,
		Stdout: f,
		Stderr: f,
		SysProcAttr: &syscall.SysProcAttr{
			Setsid:     true,
			Setctty:    true,
			Ctty:       0,
			Credential: cred,
		},
	}
}

// classifyStart sorts a start failure: resource exhaustion means the
// fork never happened, a terminal errno means the controlling-terminal
// handoff failed, anything else is an exec failure worth trying the
// next shell over.
func classifyStart(err error) error {
	switch {
	case errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.ENOMEM):
		return ErrFork
	case errors.Is(err, syscall.ENOTTY), errors.Is(err, syscall.ENXIO):
		return ErrControllingTty
	default:
		return ErrExec
	}
}

// workingDir is the child's starting directory: the home directory when
// it exists, else the filesystem root.
func workingDir(home string) string {
	if home != "" {
		if fi, err := os.Stat(home); err == nil && fi.IsDir() {
			return home
		}
		logger.Warn("no home directory %q, starting in /", home)
	}
	return "/"
}

func gidList(gids []int) []uint32 {
	out := make([]uint32, len(gids))
	for i, g := range gids {
		out[i] = uint32(g)
	}
	return out
}
