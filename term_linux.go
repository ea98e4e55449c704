// +build linux

package main

import "golang.org/x/sys/unix"

// isTerminal reports whether fd is attached to an interactive terminal.
// main only runs stdin through the REPL (with its "> " prompt and printed
// results) when this is true; otherwise stdin is run silently, the way a
// file is -- the same "only touch the terminal when it's actually a
// terminal" role this ioctl plays for other CLIs.
func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}
