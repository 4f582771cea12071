package auth

import (
	"errors"
	"fmt"

	"github.com/legionus/slogin/internal/userdb"
)

var (
	ErrInit           = errors.New("authentication service unavailable")
	ErrUnknownAccount = errors.New("unknown account")
	ErrRejected       = errors.New("authentication failed")
	ErrSessionOpen    = errors.New("cannot open session")
	ErrClosed         = errors.New("authentication handle already released")
	ErrState          = errors.New("authentication operation out of order")
)

type sessionState int

const (
	stateStarted sessionState = iota + 1
	stateAuthenticated
	stateOpen
	stateClosed
	stateFailed
)

// Session drives one framework transaction through its fixed order:
// authenticate, open, close. Calls out of order are refused instead of
// being passed to the framework.
type Session struct {
	tx      transaction
	db      *userdb.DB
	state   sessionState
	credSet bool
	opened  bool

	// Account is the system record behind the authenticated user, set by
	// a successful Authenticate.
	Account *userdb.PasswdEntry
	// Username is the framework's final login name, which may differ
	// from the one prompted.
	Username string
}

// Start opens a framework transaction for the service and prompted user.
func Start(service, username, ttyPath string, conv *Conversation, db *userdb.DB) (*Session, error) {
	tx, err := startBackend(service, username, conv, db)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	if ttyPath != "" {
		if err := tx.SetTty(ttyPath); err != nil {
			_ = tx.End()
			return nil, fmt.Errorf("%w: %v", ErrInit, err)
		}
	}
	return newSession(tx, db, username), nil
}

func newSession(tx transaction, db *userdb.DB, username string) *Session {
	return &Session{tx: tx, db: db, state: stateStarted, Username: username}
}

// Authenticate runs the credential check and the account validity stage,
// then resolves the framework's final username against the account
// database.
func (s *Session) Authenticate() error {
	if err := s.guard(stateStarted); err != nil {
		return err
	}
	if err := s.tx.Authenticate(); err != nil {
		s.state = stateFailed
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if err := s.tx.AcctMgmt(); err != nil {
		s.state = stateFailed
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if u, err := s.tx.User(); err == nil && u != "" {
		s.Username = u
	}
	acct := s.db.User(s.Username)
	if acct == nil {
		s.state = stateFailed
		return fmt.Errorf("%w: %s", ErrUnknownAccount, s.Username)
	}
	s.Account = acct
	s.state = stateAuthenticated
	return nil
}

// OpenSession establishes credentials, opens the framework session, then
// refreshes the credentials. Each failure unwinds the step before it:
// an open failure deletes the just-established credentials, a refresh
// failure closes the just-opened session.
func (s *Session) OpenSession() error {
	if err := s.guard(stateAuthenticated); err != nil {
		return err
	}
	if err := s.tx.SetCred(credEstablish); err != nil {
		s.state = stateFailed
		return fmt.Errorf("%w: establish credentials: %v", ErrSessionOpen, err)
	}
	s.credSet = true
	if err := s.tx.OpenSession(); err != nil {
		_ = s.tx.SetCred(credDelete)
		s.credSet = false
		s.state = stateFailed
		return fmt.Errorf("%w: %v", ErrSessionOpen, err)
	}
	s.opened = true
	if err := s.tx.SetCred(credReinitialize); err != nil {
		_ = s.tx.CloseSession()
		s.opened = false
		s.state = stateFailed
		return fmt.Errorf("%w: refresh credentials: %v", ErrSessionOpen, err)
	}
	s.state = stateOpen
	return nil
}

// Environ returns the framework's exported environment.
func (s *Session) Environ() (map[string]string, error) {
	if s.tx == nil {
		return nil, ErrClosed
	}
	if s.state != stateAuthenticated && s.state != stateOpen {
		return nil, fmt.Errorf("%w: environment before authentication", ErrState)
	}
	return s.tx.EnvList()
}

// Close unwinds whatever the session still holds: credentials if
// established, the session if opened, then the framework handle itself.
// The handle is consumed here; every later use of the Session, including
// another Close, reports ErrClosed.
func (s *Session) Close() error {
	if s.tx == nil {
		return ErrClosed
	}
	tx := s.tx
	s.tx = nil
	s.state = stateClosed

	var errs []error
	if s.credSet {
		if err := tx.SetCred(credDelete); err != nil {
			errs = append(errs, fmt.Errorf("delete credentials: %w", err))
		}
		s.credSet = false
	}
	if s.opened {
		if err := tx.CloseSession(); err != nil {
			errs = append(errs, fmt.Errorf("close session: %w", err))
		}
		s.opened = false
	}
	if err := tx.End(); err != nil {
		errs = append(errs, fmt.Errorf("end transaction: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Session) guard(want sessionState) error {
	if s.tx == nil || s.state == stateClosed {
		return ErrClosed
	}
	if s.state == stateFailed {
		return fmt.Errorf("%w: session already failed", ErrState)
	}
	if s.state != want {
		return fmt.Errorf("%w: state %d", ErrState, s.state)
	}
	return nil
}
