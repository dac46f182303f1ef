package errors

import (
	"fmt"
	"testing"
)

// GenerateError Syntactic sugar to display errors
func GenerateError(t *testing.T, text string) {
	t.Errorf("An error occurred : %s", text)
}

// InstallAbortedError is returned when one of the precache manifest assets
// cannot be retrieved. The whole install step fails, nothing is kept.
type InstallAbortedError struct {
	Path string
}

func (i *InstallAbortedError) Error() string {
	return fmt.Sprintf("The install was aborted, the asset %s cannot be precached", i.Path)
}

// CanceledRequestContextError is the error to handle request cancellation
type CanceledRequestContextError struct{}

func (c *CanceledRequestContextError) Error() string {
	return "The user canceled the request"
}
