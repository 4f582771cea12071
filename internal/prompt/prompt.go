// Package prompt is the terminal side of credential entry: the login
// name prompt, the hidden password prompt, and message display for the
// authentication conversation. One deadline covers the whole entry; the
// clock starts at the first prompt.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

var (
	// ErrTimeout means credential entry exceeded the configured limit.
	ErrTimeout = errors.New("login timed out")
	// ErrAborted means the user ended input at a prompt.
	ErrAborted = errors.New("login aborted")
)

type Prompter struct {
	in      *os.File
	out     io.Writer
	timeout time.Duration

	deadline time.Time
}

// New builds a Prompter on the given terminal. A timeout of zero means
// credential entry is unbounded.
func New(in *os.File, out io.Writer, timeout time.Duration) *Prompter {
	return &Prompter{in: in, out: out, timeout: timeout}
}

// Username prompts until a non-empty login name arrives. End of input
// is ErrAborted, a missed deadline ErrTimeout.
func (p *Prompter) Username() (string, error) {
	type result struct {
		name string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		for {
			fmt.Fprint(p.out, "login: ")
			line, err := readLine(p.in)
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = ErrAborted
				}
				ch <- result{"", err}
				return
			}
			if name := strings.TrimSpace(line); name != "" {
				ch <- result{name, nil}
				return
			}
		}
	}()

	timer, c := p.deadlineTimer()
	if timer != nil {
		defer timer.Stop()
	}
	select {
	case r := <-ch:
		return r.name, r.err
	case <-c:
		return "", ErrTimeout
	}
}

// Password reads one line with echo disabled. The terminating newline
// is not echoed either, so one is written afterwards.
func (p *Prompter) Password() ([]byte, error) {
	type result struct {
		pw  []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		fmt.Fprint(p.out, "Password: ")
		pw, err := term.ReadPassword(int(p.in.Fd()))
		fmt.Fprintln(p.out)
		if err != nil && errors.Is(err, io.EOF) {
			err = ErrAborted
		}
		ch <- result{pw, err}
	}()

	timer, c := p.deadlineTimer()
	if timer != nil {
		defer timer.Stop()
	}
	select {
	case r := <-ch:
		return r.pw, r.err
	case <-c:
		return nil, ErrTimeout
	}
}

// Display shows one message line, the conversation's window to the
// user.
func (p *Prompter) Display(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p *Prompter) deadlineTimer() (*time.Timer, <-chan time.Time) {
	if p.timeout <= 0 {
		return nil, nil
	}
	if p.deadline.IsZero() {
		p.deadline = time.Now().Add(p.timeout)
	}
	t := time.NewTimer(time.Until(p.deadline))
	return t, t.C
}

// readLine collects bytes up to a newline. A final line without one
// still counts; end of input with nothing read surfaces as io.EOF.
func readLine(f *os.File) (string, error) {
	var b [1]byte
	var line []byte
	for {
		n, err := f.Read(b[:])
		if n > 0 {
			if b[0] == '\n' {
				return string(line), nil
			}
			line = append(line, b[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return string(line), nil
			}
			return "", err
		}
	}
}
