// Package tty prepares the login terminal: secured acquisition, ownership
// handover to the authenticated account, and the controlling-terminal
// moves around process creation.
package tty

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// DevDir is where relative terminal names resolve.
const DevDir = "/dev"

var ErrNotATerminal = errors.New("not a terminal")

// DeviceError is a terminal device operation that failed. Op and Err
// carry enough to audit what was attempted, including numeric ids for
// ownership changes.
type DeviceError struct {
	Op   string
	Path string
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Resolve turns the command-line terminal argument into a device path.
// Relative names are looked up under DevDir; an empty argument means the
// terminal connected to standard input.
func Resolve(arg string) (string, error) {
	if arg != "" {
		if filepath.IsAbs(arg) {
			return filepath.Clean(arg), nil
		}
		return filepath.Join(DevDir, arg), nil
	}
	p, err := os.Readlink("/proc/self/fd/0")
	if err != nil {
		return "", fmt.Errorf("cannot determine controlling terminal: %w", err)
	}
	if !filepath.IsAbs(p) {
		return "", fmt.Errorf("cannot determine controlling terminal: stdin is %q", p)
	}
	return p, nil
}

// Line is the terminal name as the accounting files record it: the
// device path with the DevDir prefix removed.
func Line(path string) string {
	return strings.TrimPrefix(path, DevDir+"/")
}

// Open opens path without blocking, verifies it is a terminal, clears the
// non-blocking flag, and installs it as stdin, stdout and stderr.
func Open(path string) error {
	f, err := openTerminal(path)
	if err != nil {
		return err
	}
	return install(f, path)
}

// Secure takes exclusive possession of the terminal before anything is
// written to it: new session, open, ownership to root with mode 0600,
// hang-up of every other process attached to the device, reopen.
func Secure(path string) error {
	// Best effort; fails when we already lead a session.
	_, _ = unix.Setsid()

	if err := Open(path); err != nil {
		return err
	}
	if err := unix.Fchown(0, 0, 0); err != nil {
		return &DeviceError{Op: "chown to 0:0", Path: path, Err: err}
	}
	if err := unix.Fchmod(0, 0o600); err != nil {
		return &DeviceError{Op: "chmod 0600", Path: path, Err: err}
	}

	// vhangup severs every descriptor on the device, ours included. The
	// hang-up signal it raises against us is ignored for just this window.
	g := ignore(syscall.SIGHUP)
	err := vhangup()
	g.Restore()
	if err != nil {
		return &DeviceError{Op: "vhangup", Path: path, Err: err}
	}

	return Open(path)
}

// vhangup invokes vhangup(2); x/sys/unix exposes only the syscall number.
func vhangup() error {
	if _, _, errno := unix.Syscall(unix.SYS_VHANGUP, 0, 0, 0); errno != 0 {
		return errno
	}
	return nil
}

// TransferOwnership hands the terminal at descriptor 0 to the account.
func TransferOwnership(path string, uid, gid int, perm os.FileMode) error {
	if err := unix.Fchown(0, uid, gid); err != nil {
		return &DeviceError{
			Op:   fmt.Sprintf("chown to %d:%d", uid, gid),
			Path: path,
			Err:  err,
		}
	}
	if err := unix.Fchmod(0, uint32(perm&os.ModePerm)); err != nil {
		return &DeviceError{
			Op:   fmt.Sprintf("chmod %#o", uint32(perm&os.ModePerm)),
			Path: path,
			Err:  err,
		}
	}
	return nil
}

// Disconnect detaches this process from its controlling terminal so a
// child session can claim the device afresh. Failure is fine; there may
// be nothing to detach from.
func Disconnect() {
	g := ignore(syscall.SIGHUP)
	defer g.Restore()
	_ = unix.IoctlSetInt(0, unix.TIOCNOTTY, 0)
}

// Acquire opens a fresh descriptor on the terminal for handing to a child
// process. The open does not bind the device as our controlling terminal.
func Acquire(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, &DeviceError{Op: "open", Path: path, Err: err}
	}
	return f, nil
}

func openTerminal(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, &DeviceError{Op: "open", Path: path, Err: err}
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotATerminal)
	}
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err == nil {
		_, err = unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags&^unix.O_NONBLOCK)
	}
	if err != nil {
		_ = f.Close()
		return nil, &DeviceError{Op: "clear O_NONBLOCK", Path: path, Err: err}
	}
	return f, nil
}

// held pins a File occupying a std descriptor slot; letting it be
// finalized would close that descriptor under us.
var held *os.File

// install points descriptors 0, 1 and 2 at f. The extra descriptor is
// closed afterwards; no descriptor above stderr survives.
func install(f *os.File, path string) error {
	fd := int(f.Fd())
	for _, std := range []int{0, 1, 2} {
		if fd == std {
			continue
		}
		if err := unix.Dup2(fd, std); err != nil {
			_ = f.Close()
			return &DeviceError{Op: fmt.Sprintf("dup onto %d", std), Path: path, Err: err}
		}
	}
	if fd > 2 {
		_ = f.Close()
	} else {
		held = f
	}
	return nil
}
