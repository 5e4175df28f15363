// Package synth defines the image synthesis gateway: the boundary to the
// external generative image service. The orchestrator only ever sees this
// interface; the Gemini implementation lives alongside it.
package synth

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/look-builder/models"
)

// Gateway is the external generation boundary. Image references are S3
// object keys or plain URLs; implementations must accept either.
type Gateway interface {
	// Synthesize applies one product onto the base image. subject is the
	// model's attribute descriptor; prior lists the products already
	// applied in this run, passed as style/consistency context.
	Synthesize(ctx context.Context, baseImage string, subject string, product models.ProductRef, prior []models.ProductRef) (string, error)

	// Edit applies a free-form instruction to the base image, optionally
	// guided by a second image. guideImage may be empty.
	Edit(ctx context.Context, baseImage string, instruction string, guideImage string) (string, error)
}

// GenerationError carries the human-readable reason a generation call failed.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }
