package order

import (
	"fmt"
	"time"

	"github.com/nanorand/nanorand"
)

// GenerateOrderNumber builds a human-readable order number of the form
// ORD-<unix millis>-<3 digit suffix>. The random suffix keeps numbers
// unique when two orders land in the same millisecond; the database
// unique index is the final arbiter.
func GenerateOrderNumber() (string, error) {
	suffix, err := nanorand.Gen(3)
	if err != nil {
		return "", fmt.Errorf("failed to generate order number suffix: %w", err)
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix), nil
}
