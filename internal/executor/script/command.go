package script

import (
	"path/filepath"
	"strings"
)

// resolveCommand is a pure, extension-based data transform: given a
// script path, it returns the command and argument prefix the host OS
// should launch to run it.
func resolveCommand(scriptPath string) (string, []string) {
	switch strings.ToLower(filepath.Ext(scriptPath)) {
	case ".ps1":
		return "powershell", []string{"-NoProfile", "-File", scriptPath}
	case ".cmd", ".bat":
		return "cmd", []string{"/C", scriptPath}
	case ".py":
		return "python3", []string{scriptPath}
	case ".rb":
		return "ruby", []string{scriptPath}
	case ".js", ".mjs", ".cjs":
		return "node", []string{scriptPath}
	case ".sh":
		return "bash", []string{scriptPath}
	default:
		return scriptPath, nil
	}
}
