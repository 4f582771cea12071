package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/legionus/slogin/internal/userdb"
)

// shadowTransaction authenticates against the shadow database while
// speaking the same conversation protocol and lifecycle as the PAM
// backend. Plain builds register it as the framework.
type shadowTransaction struct {
	conv *Conversation
	user string
	db   *userdb.DB

	nowDays func() int64
}

func startShadow(_, user string, conv *Conversation, db *userdb.DB) (transaction, error) {
	return &shadowTransaction{
		conv: conv,
		user: user,
		db:   db,
		nowDays: func() int64 {
			return time.Now().Unix() / 86400
		},
	}, nil
}

func (t *shadowTransaction) SetTty(string) error { return nil }

func (t *shadowTransaction) Authenticate() error {
	if t.user == "" {
		u, err := t.conv.Respond(EchoOn, "login: ")
		if err != nil {
			return err
		}
		t.user = u
	}
	password, err := t.conv.Respond(EchoOff, "Password: ")
	if err != nil {
		return err
	}
	se, err := t.db.Shadow(t.user)
	if err != nil {
		return err
	}
	if se == nil {
		// Same refusal as a bad password; the caller's message must not
		// say which it was.
		return errBadPassword
	}
	return verifyHash(se.Hash, password)
}

func (t *shadowTransaction) AcctMgmt() error {
	se, err := t.db.Shadow(t.user)
	if err != nil {
		return err
	}
	if se == nil {
		return errBadPassword
	}
	if se.Expire != "" {
		days, err := strconv.ParseInt(se.Expire, 10, 64)
		if err == nil && days > 0 && t.nowDays() > days {
			return errors.New("account expired")
		}
	}
	return nil
}

func (t *shadowTransaction) User() (string, error) { return t.user, nil }

func (t *shadowTransaction) SetCred(credAction) error { return nil }

func (t *shadowTransaction) OpenSession() error { return nil }

func (t *shadowTransaction) CloseSession() error { return nil }

func (t *shadowTransaction) EnvList() (map[string]string, error) {
	return map[string]string{}, nil
}

func (t *shadowTransaction) End() error { return nil }
