package akamai

import (
	"fmt"

	"github.com/mesosphere/akamai-assert/pkg/header"
)

// Staging asserts that the response was served by the Akamai staging
// network, i.e. it carries the x-akamai-staging header with any value
func Staging(subject interface{}) Result {
	value, ok := header.Get(Resolve(subject).Header, HeaderStaging)
	return Result{
		Pass:           ok,
		Message:        fmt.Sprintf("expected header '%s' to exist", HeaderStaging),
		NegatedMessage: fmt.Sprintf("expected header '%s' to not exist", HeaderStaging),
		Actual:         optional(value, ok),
	}
}
