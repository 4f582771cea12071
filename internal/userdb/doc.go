package userdb

// Package userdb reads the system account databases:
//   /etc/passwd
//   /etc/shadow
//   /etc/group
//
// Access is strictly read-only. Lookups resolve the account record a
// login needs (uid, gid, home, shell) and the supplementary group set.
