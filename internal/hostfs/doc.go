package hostfs

// Package hostfs provides access helpers for the host files slogin reads
// and writes.
//
// All lookups go through Root so the whole tree can be pointed at a
// fixture directory in tests:
//   /etc/login.defs -> <Root>/etc/login.defs
//   /etc/passwd     -> <Root>/etc/passwd
//   /var/run/utmp   -> <Root>/var/run/utmp
