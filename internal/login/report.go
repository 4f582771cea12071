package login

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/legionus/slogin/internal/hostfs"
	"github.com/legionus/slogin/internal/lastlog"
	"github.com/legionus/slogin/internal/logindefs"
	"github.com/legionus/slogin/internal/userdb"
)

// hushed reports whether the account asked for a quiet login. A bare
// configured name is a dotfile in the home directory whose existence
// hushes; an absolute path is a global file listing hushed login names
// and shells.
func hushed(cfg logindefs.Config, acct *userdb.PasswdEntry) bool {
	name := cfg.HushloginFile
	if name == "" {
		return false
	}
	if !filepath.IsAbs(name) {
		_, err := os.Stat(filepath.Join(acct.Home, name))
		return err == nil
	}
	p, err := hostfs.Abs(name)
	if err != nil {
		return false
	}
	b, err := hostfs.ReadFile(p)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == acct.Name || line == acct.Shell {
			return true
		}
	}
	return false
}

func lastLoginLine(e lastlog.Entry) string {
	t := e.Time.Format(time.UnixDate)
	if e.Host != "" {
		return fmt.Sprintf("Last login: %s from %s", t, e.Host)
	}
	return fmt.Sprintf("Last login: %s on %s", t, e.Line)
}

// showMotd prints the message of the day verbatim. Missing files are
// silent.
func showMotd(w io.Writer, file string) {
	if file == "" {
		return
	}
	p, err := hostfs.Abs(file)
	if err != nil {
		return
	}
	b, err := hostfs.ReadFile(p)
	if err != nil {
		return
	}
	_, _ = w.Write(b)
}

// mailNotice prints the classic mailbox hint. A mailbox modified since
// it was last read holds new mail.
func mailNotice(w io.Writer, name string) {
	dir, err := hostfs.Path(hostfs.MailDirRel)
	if err != nil {
		return
	}
	var st unix.Stat_t
	if err := unix.Stat(filepath.Join(dir, name), &st); err != nil || st.Size == 0 {
		return
	}
	if st.Mtim.Sec > st.Atim.Sec || (st.Mtim.Sec == st.Atim.Sec && st.Mtim.Nsec > st.Atim.Nsec) {
		fmt.Fprintln(w, "You have new mail.")
	} else {
		fmt.Fprintln(w, "You have mail.")
	}
}
