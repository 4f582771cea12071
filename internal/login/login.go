// Package login runs one complete login transaction on a terminal:
// secure the device, collect credentials, authenticate, transition
// privileges, and hand the session to the account's shell.
package login

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/legionus/slogin/internal/auth"
	"github.com/legionus/slogin/internal/issue"
	"github.com/legionus/slogin/internal/lastlog"
	"github.com/legionus/slogin/internal/logger"
	"github.com/legionus/slogin/internal/logindefs"
	"github.com/legionus/slogin/internal/prompt"
	"github.com/legionus/slogin/internal/session"
	"github.com/legionus/slogin/internal/tty"
	"github.com/legionus/slogin/internal/userdb"
	"github.com/legionus/slogin/internal/utmp"
)

type Options struct {
	// TtyArg is the positional terminal argument; empty means the
	// terminal on standard input.
	TtyArg string
	// Service is the name this program authenticates under.
	Service string
}

// sleep is the fail-delay pause, replaceable in tests.
var sleep = time.Sleep

// Run carries one login attempt end to end and returns the process
// exit code. A refused login sleeps the configured fail delay before
// returning so guessing stays slow.
func Run(opts Options) int {
	setTitle(opts.Service)

	cfg, err := logindefs.Load()
	if err != nil {
		logger.Error("configuration: %v", err)
		return 1
	}

	path, err := tty.Resolve(opts.TtyArg)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	if err := tty.Secure(path); err != nil {
		logger.Error("%v", err)
		return 1
	}
	line := tty.Line(path)
	setTitle(opts.Service + " " + path)

	db, err := userdb.Load()
	if err != nil {
		logger.Error("account database: %v", err)
		return 1
	}

	un, err := issue.Sysinfo()
	if err != nil {
		logger.Warn("uname: %v", err)
	}
	if err := issue.Show(os.Stdout, un, line); err != nil {
		logger.Error("issue: %v", err)
		return 1
	}

	p := prompt.New(os.Stdin, os.Stdout, cfg.LoginTimeout)

	username, err := p.Username()
	if err != nil {
		return promptExit(cfg, line, err)
	}
	password, err := p.Password()
	if err != nil {
		return promptExit(cfg, line, err)
	}
	// The password is collected first either way, so a bad name looks no
	// different from a bad password.
	if !userdb.ValidLoginName(username) {
		logger.Audit("invalid login name on %s", line)
		return denied(p, cfg, line, username)
	}

	conv := &auth.Conversation{Username: username, Password: password, Display: p.Display}
	sess, err := auth.Start(opts.Service, username, path, conv, db)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	err = sess.Authenticate()
	conv.Wipe()
	if err != nil {
		_ = sess.Close()
		logger.Audit("FAILED LOGIN on %s for %s: %v", line, username, err)
		return denied(p, cfg, line, username)
	}
	// Every later exit path releases the handle. On the normal path the
	// supervisor has already done so and this reports ErrClosed, which
	// is the point.
	defer func() { _ = sess.Close() }()

	setTitle(opts.Service + " -- " + sess.Username)
	logger.AuditInfo("LOGIN on %s by %s", line, sess.Username)

	ctx := &session.Context{
		Account: sess.Account,
		DB:      db,
		Config:  cfg,
		Auth:    sess,
		TtyPath: path,
		Term:    os.Getenv("TERM"),
	}
	if err := session.Apply(ctx); err != nil {
		logger.Audit("login %s on %s: %v", sess.Username, line, err)
		if errors.Is(err, auth.ErrSessionOpen) {
			p.Display("\nSession setup failed.")
			sleep(cfg.FailDelay)
		} else {
			p.Display("\nSystem error.")
		}
		return 1
	}

	quiet := hushed(cfg, ctx.Account)
	if !quiet {
		if e, ok, err := lastlog.Read(ctx.Account.UID); err != nil {
			logger.Warn("lastlog: %v", err)
		} else if ok {
			fmt.Fprintln(os.Stdout, lastLoginLine(e))
		}
	}
	if err := lastlog.Write(ctx.Account.UID, lastlog.Entry{Time: time.Now(), Line: line}); err != nil {
		logger.Warn("lastlog: %v", err)
	}
	if !quiet {
		showMotd(os.Stdout, cfg.MotdFile)
		mailNotice(os.Stdout, ctx.Account.Name)
	}

	if err := session.Run(ctx); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

// promptExit maps a failed credential prompt onto an exit code: a user
// abort is a clean exit, everything else is a failure.
func promptExit(cfg logindefs.Config, line string, err error) int {
	switch {
	case errors.Is(err, prompt.ErrAborted):
		return 0
	case errors.Is(err, prompt.ErrTimeout):
		fmt.Fprintf(os.Stderr, "\nLogin timed out after %d seconds.\n", int(cfg.LoginTimeout/time.Second))
		logger.Audit("login timed out on %s", line)
		return 1
	default:
		logger.Error("reading credentials: %v", err)
		return 1
	}
}

// denied finishes a refused login: the attempt is recorded, the fail
// delay runs, and the user sees a message that does not say why.
func denied(p *prompt.Prompter, cfg logindefs.Config, line, username string) int {
	rec := utmp.New(utmp.LoginProcess, line, username, "", int32(os.Getpid()), time.Now())
	if err := utmp.WriteFailure(rec); err != nil {
		logger.Warn("btmp: %v", err)
	}
	sleep(cfg.FailDelay)
	p.Display("\nLogin incorrect")
	return 1
}
