package cli

import (
	"os"
	"strings"
)

// Mode selects between the CLI's two front ends: an interactive
// prompt-driven session, or a single non-interactive round driven by
// environment variables and reporting JSON on stdout.
type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeDashboard   Mode = "dashboard"
)

// DetectMode reads BSMS_MODE and defaults to interactive for anything
// other than the literal (case-insensitive) value "dashboard".
func DetectMode() Mode {
	modeEnv := strings.ToLower(strings.TrimSpace(os.Getenv("BSMS_MODE")))
	if modeEnv == "dashboard" {
		return ModeDashboard
	}
	return ModeInteractive
}

func IsInteractive() bool { return DetectMode() == ModeInteractive }
func IsDashboard() bool   { return DetectMode() == ModeDashboard }
