package info

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type probePayload struct {
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
}

func (ih *InfoHandler) respondProbe(w http.ResponseWriter, r *http.Request, statusCode int, state string, details ...string) {
	payload := probePayload{Status: state}
	if len(details) > 0 {
		payload.Details = append(payload.Details, details...)
	}
	ih.RespondWithJSON(w, r, statusCode, payload)
}

// probeDeadline is the per-request budget shared by all checks of one probe.
func (ih *InfoHandler) probeDeadline() time.Duration {
	if ih.probeTimeout > 0 {
		return ih.probeTimeout
	}
	return defaultProbeTimeout
}

// runChecks executes the checks in order and stops at the first failure.
// All checks share one deadline, so a probe answers within probeDeadline no
// matter how many checks are registered.
func (ih *InfoHandler) runChecks(ctx context.Context, checks []ProbeFunc) error {
	if len(checks) == 0 {
		return nil
	}

	deadline := ih.probeDeadline()
	probeCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	for idx, check := range checks {
		if check == nil {
			continue
		}
		if err := check(probeCtx); err != nil {
			return checkError(idx+1, len(checks), deadline, err)
		}
	}

	return nil
}

// checkError identifies the failing check by position so probe logs point at
// the right dependency.
func checkError(n, total int, deadline time.Duration, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("check %d of %d timed out after %s", n, total, deadline)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("check %d of %d was cancelled", n, total)
	default:
		return fmt.Errorf("check %d of %d failed: %w", n, total, err)
	}
}

func filterProbes(checks []ProbeFunc) []ProbeFunc {
	var filtered []ProbeFunc
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return filtered
}
