//go:build cgo

package auth

import (
	"fmt"
	"runtime"

	"github.com/msteinert/pam/v2"

	"github.com/legionus/slogin/internal/userdb"
)

// PAM module state can be thread-affine (pam_loginuid, audit hooks), so
// the goroutine that starts the transaction stays locked to the startup
// thread for the life of the process.
func init() {
	runtime.LockOSThread()
	startBackend = startPAM
}

type pamTransaction struct {
	tx *pam.Transaction
}

func startPAM(service, user string, conv *Conversation, _ *userdb.DB) (transaction, error) {
	tx, err := pam.StartFunc(service, user, func(style pam.Style, msg string) (string, error) {
		return conv.Respond(mapStyle(style), msg)
	})
	if err != nil {
		return nil, err
	}
	return &pamTransaction{tx: tx}, nil
}

func mapStyle(s pam.Style) MsgStyle {
	switch s {
	case pam.PromptEchoOn:
		return EchoOn
	case pam.PromptEchoOff:
		return EchoOff
	case pam.ErrorMsg:
		return ErrorMsg
	case pam.TextInfo:
		return TextInfo
	default:
		return MsgStyle(0)
	}
}

func (p *pamTransaction) SetTty(path string) error { return p.tx.SetItem(pam.Tty, path) }

func (p *pamTransaction) Authenticate() error { return p.tx.Authenticate(0) }

func (p *pamTransaction) AcctMgmt() error { return p.tx.AcctMgmt(0) }

func (p *pamTransaction) User() (string, error) { return p.tx.GetItem(pam.User) }

func (p *pamTransaction) SetCred(a credAction) error {
	switch a {
	case credEstablish:
		return p.tx.SetCred(pam.EstablishCred)
	case credDelete:
		return p.tx.SetCred(pam.DeleteCred)
	case credReinitialize:
		return p.tx.SetCred(pam.ReinitializeCred)
	}
	return fmt.Errorf("unknown credential action %d", a)
}

func (p *pamTransaction) OpenSession() error { return p.tx.OpenSession(0) }

func (p *pamTransaction) CloseSession() error { return p.tx.CloseSession(0) }

func (p *pamTransaction) EnvList() (map[string]string, error) { return p.tx.GetEnvList() }

func (p *pamTransaction) End() error { return p.tx.End() }
