// Package issue prints the pre-login banner (/etc/issue) with the classic
// substitution escapes filled from the running system.
package issue

import (
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/legionus/slogin/internal/hostfs"
)

// Uname carries the machine identity fields used by banner escapes.
// Filled once at startup and read-only afterwards.
type Uname struct {
	Sysname  string
	Nodename string
	Release  string
	Version  string
	Machine  string
}

func Sysinfo() (Uname, error) {
	var buf unix.Utsname
	if err := unix.Uname(&buf); err != nil {
		return Uname{}, err
	}
	return Uname{
		Sysname:  ztString(buf.Sysname[:]),
		Nodename: ztString(buf.Nodename[:]),
		Release:  ztString(buf.Release[:]),
		Version:  ztString(buf.Version[:]),
		Machine:  ztString(buf.Machine[:]),
	}, nil
}

func ztString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// Expand substitutes the banner escapes:
//
//	\s system name   \n node name   \r release
//	\v version       \m machine     \l terminal base name
//
// Any other escaped character is kept literally.
func Expand(text string, u Uname, ttyBase string) string {
	var out strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			out.WriteByte(c)
			continue
		}
		i++
		switch text[i] {
		case 's':
			out.WriteString(u.Sysname)
		case 'n':
			out.WriteString(u.Nodename)
		case 'r':
			out.WriteString(u.Release)
		case 'v':
			out.WriteString(u.Version)
		case 'm':
			out.WriteString(u.Machine)
		case 'l':
			out.WriteString(ttyBase)
		default:
			out.WriteByte(text[i])
		}
	}
	return out.String()
}

// Show writes the expanded banner to w. No banner file, no output.
func Show(w io.Writer, u Uname, ttyBase string) error {
	p, err := hostfs.Path(hostfs.EtcIssueRel)
	if err != nil {
		return err
	}
	b, err := hostfs.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	_, err = io.WriteString(w, Expand(string(b), u, ttyBase))
	return err
}
