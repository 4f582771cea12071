//go:build !cgo

package auth

func init() {
	startBackend = startShadow
}
