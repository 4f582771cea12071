package login

import "os"

// setTitle updates the kernel's short process name through the login's
// stages: program, program plus terminal, program plus account. The
// kernel truncates at 15 bytes.
func setTitle(title string) {
	f, err := os.OpenFile("/proc/self/comm", os.O_WRONLY, 0)
	if err != nil {
		return
	}
	_, _ = f.WriteString(title)
	_ = f.Close()
}
