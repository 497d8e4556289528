package drilldown

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every setup-time error.
var ErrConfiguration = errors.New("drilldown configuration error")

type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "drilldown: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// RegistryGapError reports masters that were not registered contiguously
// from level 0, or a level registered more than once.
type RegistryGapError struct {
	Level     int
	Expected  int
	Duplicate bool
}

func (e *RegistryGapError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("drilldown: master level %d registered twice", e.Level)
	}
	return fmt.Sprintf("drilldown: master level %d registered before level %d", e.Level, e.Expected)
}

func (e *RegistryGapError) Unwrap() error { return ErrConfiguration }
