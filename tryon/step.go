// Package tryon drives the ordered chain of generation steps that turns a
// model image plus an ordered product list into a look. Runs are in-memory
// only; nothing is persisted until a fully completed run is condensed into a
// look by the caller.
package tryon

import (
	"fmt"

	"github.com/raushankrgupta/look-builder/models"
)

// StepStatus is the lifecycle state of one try-on step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepGenerating StepStatus = "generating"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// Step records one product application in a run: the image it consumed, the
// image it produced, and where it is in the pending -> generating ->
// completed|failed lifecycle. Steps only exist for the lifetime of a run.
type Step struct {
	Product     models.ProductRef `json:"product"`
	InputImage  string            `json:"input_image,omitempty"`
	OutputImage string            `json:"output_image,omitempty"`
	Status      StepStatus        `json:"status"`
	Reason      string            `json:"reason,omitempty"` // failure reason, set when Status is failed
}

// NewSteps initializes one pending step per product, preserving order.
func NewSteps(products []models.ProductRef) []Step {
	steps := make([]Step, len(products))
	for i, p := range products {
		steps[i] = Step{Product: p, Status: StepPending}
	}
	return steps
}

// ResetFrom returns steps k..N-1 to pending with their images cleared,
// leaving steps 0..k-1 untouched. The product order never changes;
// regeneration replaces images, it does not reorder.
func ResetFrom(steps []Step, k int) error {
	if k < 0 || k >= len(steps) {
		return fmt.Errorf("reset index %d out of range for %d steps", k, len(steps))
	}
	for i := k; i < len(steps); i++ {
		steps[i].InputImage = ""
		steps[i].OutputImage = ""
		steps[i].Reason = ""
		steps[i].Status = StepPending
	}
	return nil
}

// Completed reports whether every step reached completed.
func Completed(steps []Step) bool {
	for _, s := range steps {
		if s.Status != StepCompleted {
			return false
		}
	}
	return len(steps) > 0
}
