// Package disabledeadlock turns off go-deadlock detection when imported by a binary.
package disabledeadlock

import (
	"os"

	"github.com/algorand/go-deadlock"
)

// EnvVar keeps detection on when set, for debugging lock ordering.
const EnvVar = "EVMQUERY_DEADLOCK_DETECTION"

func init() {
	deadlock.Opts.Disable = os.Getenv(EnvVar) == ""
}
