package auth

import (
	"github.com/legionus/slogin/internal/userdb"
)

type credAction int

const (
	credEstablish credAction = iota + 1
	credDelete
	credReinitialize
)

// transaction is the slice of the framework API a login consumes. The
// cgo build backs it with PAM; plain builds with a shadow verifier.
// Tests script it with a fake.
type transaction interface {
	SetTty(path string) error
	Authenticate() error
	AcctMgmt() error
	// User reports the name the framework settled on, which modules may
	// have remapped during authentication.
	User() (string, error)
	SetCred(a credAction) error
	OpenSession() error
	CloseSession() error
	EnvList() (map[string]string, error)
	End() error
}

// startBackend opens a framework transaction. The active backend's init
// assigns it; exactly one backend is compiled in.
var startBackend func(service, user string, conv *Conversation, db *userdb.DB) (transaction, error)
