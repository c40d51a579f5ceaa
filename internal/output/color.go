package output

import (
	"io"
	"os"
)

// ResolveColorMode decides whether styled output is wanted, given the --color
// flag value and whether the writer is a terminal:
//   - "never":  plain output
//   - "always": styled output even when piped
//   - "auto" (or anything else): styled only on a terminal, and only when
//     NO_COLOR is unset
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return isTTY
	}
}

// IsTTY checks if a writer is a terminal.
// Returns true only for an *os.File attached to a character device.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
