//go:build debug

package debug

// Enabled reports whether assertions are compiled in.
const Enabled = true

func Assert(b bool, message string) {
	if !b {
		panic(message)
	}
}
