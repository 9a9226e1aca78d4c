package enums

import "fmt"

// FetchPhase tracks the lifecycle of a cart view: the first fetch is still
// outstanding, a cart has been loaded, or the latest fetch failed.
type FetchPhase string

const (
	FetchPhaseLoading FetchPhase = "loading"
	FetchPhaseReady   FetchPhase = "ready"
	FetchPhaseFailed  FetchPhase = "failed"
)

var validFetchPhases = []FetchPhase{
	FetchPhaseLoading,
	FetchPhaseReady,
	FetchPhaseFailed,
}

// String implements fmt.Stringer.
func (p FetchPhase) String() string {
	return string(p)
}

// IsValid reports whether the value is a known FetchPhase.
func (p FetchPhase) IsValid() bool {
	for _, candidate := range validFetchPhases {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseFetchPhase converts raw input into a FetchPhase.
func ParseFetchPhase(value string) (FetchPhase, error) {
	for _, candidate := range validFetchPhases {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fetch phase %q", value)
}
