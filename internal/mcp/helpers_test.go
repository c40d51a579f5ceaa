package mcp

import "os"

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x\n"), 0o600)
}
