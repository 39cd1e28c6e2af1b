package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	// MinRate is the minimum allowed rate (requests per second).
	MinRate = 0.1
	// WarnRate is the warning threshold for low rates.
	WarnRate = 1.0
)

// ValidateRateLimit enforces a sane outbound request rate.
// It modifies the rate pointer if the rate is below minimum.
func ValidateRateLimit(w io.Writer, rate *float64) error {
	// Rate of 0 means no rate limiting; an audit issues only a handful of requests.
	if *rate == 0 {
		return nil
	}

	if *rate < 0 {
		return fmt.Errorf("rate must not be negative, got %g", *rate)
	}

	if *rate < MinRate {
		fmt.Fprintf(w, "\nWARNING: Rate %.2f req/s is below minimum %.2f req/s\n", *rate, MinRate)
		fmt.Fprintf(w, "Adjusting to minimum rate of %.2f req/s\n\n", MinRate)
		*rate = MinRate
		return nil
	}

	if *rate < WarnRate {
		fmt.Fprintf(w, "\nWARNING: Low rate limit detected (%.2f req/s)\n", *rate)
		fmt.Fprintf(w, "The six audit requests will take about %.0f seconds.\n\n", 6 / *rate)
	}

	return nil
}

// IsInteractiveTerminal checks if stdin is attached to a terminal rather
// than a pipe or file.
func IsInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
