package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoTarget is returned when no URL could be found from any source.
var ErrNoTarget = errors.New("no URL given: pass it as an argument, with -url, in the config file, or via " + URLEnvVar)

// ResolveTarget picks the URL to audit. A positional argument wins over the
// configured URL; when both are empty and stdin is piped, the first
// non-blank line of stdin is used.
func ResolveTarget(args []string, configured string, stdin io.Reader, interactive bool) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("expected a single URL, got %d arguments", len(args))
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if configured != "" {
		return configured, nil
	}
	if stdin == nil || interactive {
		return "", ErrNoTarget
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading URL from stdin: %w", err)
	}
	return "", ErrNoTarget
}
