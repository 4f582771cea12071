// Package session turns an authenticated login into a running shell: it
// applies the ordered privilege transition, builds the child
// environment, resolves the shell to invoke, and supervises the child
// process that takes over the terminal.
package session
