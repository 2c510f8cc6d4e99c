package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/salgue441/jobrunner/pkg/errors"
)

// scriptExtensionErrorExtensions names the script-type extensions that
// indicate a misconfigured job (it should be type=script, not session).
var scriptExtensionErrorExtensions = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".ps1": true, ".cmd": true, ".bat": true,
}

// resolvePrompt is a pure, extension-based data transform: .md/.txt read
// the file's contents; script-shaped extensions are rejected with a
// ConfigError because the job should be script-type; anything else is
// treated as the prompt text verbatim.
func resolvePrompt(script string) (string, error) {
	ext := strings.ToLower(filepath.Ext(script))

	if scriptExtensionErrorExtensions[ext] {
		return "", errors.Newf(
			"script %q has a script-type extension; this job should be type=script", script).
			WithCode(errors.CodeValidation)
	}

	if ext == ".md" || ext == ".txt" {
		data, err := os.ReadFile(script)
		if err != nil {
			return "", errors.Wrap(err, "failed to read prompt file").
				WithCode(errors.CodeValidation)
		}

		return string(data), nil
	}

	return script, nil
}
