// Package exitcode defines named exit codes for the prompt-eval CLI.
//
// Each code maps a specific termination condition to a numeric value
// recognized by shell scripts and CI pipelines.
package exitcode

// Exit code constants.
const (
	Success     = 0   // Every prompt evaluated and written
	Error       = 1   // Invalid args, unreadable config, misconfiguration
	EvalFailed  = 2   // A prompt failed permanently or exhausted its retries
	Interrupted = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case EvalFailed:
		return "EvalFailed"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
