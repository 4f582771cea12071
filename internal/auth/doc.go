package auth

// Package auth drives one authentication transaction from start to
// release: conversation, credential check, account validity, session
// opening, and the paired unwinding on every failure path.
//
// The framework behind the transaction is PAM when built with cgo. Plain
// builds fall back to the shadow database with the same lifecycle, so the
// calling code never branches on the backend.
