package session

import (
	"github.com/legionus/slogin/internal/logindefs"
	"github.com/legionus/slogin/internal/userdb"
)

// Framework is the slice of the authentication session this package
// drives: opening the framework session during the privilege
// transition, exporting its environment, and settling it once the child
// has exited.
type Framework interface {
	OpenSession() error
	Environ() (map[string]string, error)
	Close() error
}

// Context carries one login through the privilege transition and the
// handoff to the child session. Apply fills Shell and Env; Run consumes
// the rest.
type Context struct {
	Account *userdb.PasswdEntry
	DB      *userdb.DB
	Config  logindefs.Config
	Auth    Framework

	// TtyPath is the secured terminal, already installed on the
	// standard descriptors.
	TtyPath string
	// Term is the inherited TERM value, possibly empty.
	Term string

	// Shell is the effective login shell, set by Apply.
	Shell string
	// Env is the finished child environment, set by Apply.
	Env []string
}

// scrub drops the privilege-bearing state from the parent's copy of the
// context once the child owns the session. Only the framework handle
// stays, for the final close.
func (c *Context) scrub() {
	c.Account = nil
	c.DB = nil
	c.Config = logindefs.Config{}
	c.Shell = ""
	c.Env = nil
}
