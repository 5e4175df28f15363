package tryon

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raushankrgupta/look-builder/catalog"
	"github.com/raushankrgupta/look-builder/models"
	"github.com/raushankrgupta/look-builder/synth"
)

// ErrRunIncomplete is returned when a look is requested from a run whose
// steps have not all completed.
var ErrRunIncomplete = errors.New("tryon: run has incomplete steps")

// SKUNotFoundError reports every SKU that failed to resolve. Resolution is
// all-or-nothing: one unknown SKU aborts the run before any generation.
type SKUNotFoundError struct {
	SKUs []string
}

func (e *SKUNotFoundError) Error() string {
	return fmt.Sprintf("tryon: unknown skus: %s", strings.Join(e.SKUs, ", "))
}

// Run is one look-assembly attempt. The starting image and the subject
// descriptor are snapshotted at creation; editing or deleting the model
// afterwards does not affect the run.
type Run struct {
	ModelID    int64  `json:"model_id"`
	Subject    string `json:"subject"`
	StartImage string `json:"start_image"`
	Steps      []Step `json:"steps"`
}

// NewRun snapshots the model and lays out one pending step per product.
func NewRun(m models.Model, products []models.ProductRef) *Run {
	return &Run{
		ModelID:    m.ID,
		Subject:    m.Descriptor(),
		StartImage: m.ImageKey,
		Steps:      NewSteps(products),
	}
}

// Savable reports whether the run can be condensed into a look.
func (r *Run) Savable() bool {
	return Completed(r.Steps)
}

// BuildLook condenses a fully completed run into a look draft: the last
// step's output becomes the primary image, the full resolved product list
// becomes the look's products in application order.
func (r *Run) BuildLook(userID int64) (models.Look, error) {
	if !r.Savable() {
		return models.Look{}, ErrRunIncomplete
	}
	products := make([]models.ProductRef, len(r.Steps))
	for i, s := range r.Steps {
		products[i] = s.Product
	}
	return models.Look{
		UserID:     userID,
		ModelID:    r.ModelID,
		ModelImage: r.StartImage,
		Products:   products,
		FinalImage: r.Steps[len(r.Steps)-1].OutputImage,
		CreatedAt:  time.Now(),
	}, nil
}

// Runner executes runs against the catalog and the synthesis gateway. It
// never writes to a store; a run that fails midway leaves no record.
type Runner struct {
	Catalog catalog.Catalog
	Gateway synth.Gateway
}

// Resolve fetches every SKU concurrently and joins the results before any
// generation starts. Unknown SKUs are collected and reported together; any
// other catalog error aborts resolution as-is.
func (r *Runner) Resolve(ctx context.Context, skus []string) ([]models.ProductRef, error) {
	products := make([]models.ProductRef, len(skus))

	var mu sync.Mutex
	var missing []string

	g, gctx := errgroup.WithContext(ctx)
	for i, sku := range skus {
		g.Go(func() error {
			p, err := r.Catalog.FetchProduct(gctx, sku)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					mu.Lock()
					missing = append(missing, sku)
					mu.Unlock()
					return nil
				}
				return err
			}
			products[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SKUNotFoundError{SKUs: missing}
	}
	return products, nil
}

// Execute runs the pending steps in strict order. Each step's input is the
// previous step's output (or the run's starting image for step 0), so steps
// are awaited sequentially, never in parallel. On the first failure the run
// halts: the failing step is marked failed and later steps stay pending.
func (r *Runner) Execute(ctx context.Context, run *Run) error {
	for i := range run.Steps {
		step := &run.Steps[i]
		switch step.Status {
		case StepCompleted:
			continue
		case StepPending:
			// fall through to generation
		default:
			return fmt.Errorf("tryon: step %d is %s; reset it before executing", i, step.Status)
		}

		input := run.StartImage
		if i > 0 {
			prev := run.Steps[i-1]
			if prev.Status != StepCompleted {
				return fmt.Errorf("tryon: step %d has no completed predecessor", i)
			}
			input = prev.OutputImage
		}

		step.Status = StepGenerating
		step.InputImage = input

		prior := make([]models.ProductRef, i)
		for j := 0; j < i; j++ {
			prior[j] = run.Steps[j].Product
		}

		output, err := r.Gateway.Synthesize(ctx, input, run.Subject, step.Product, prior)
		if err != nil {
			step.Status = StepFailed
			step.Reason = err.Error()
			return fmt.Errorf("tryon: step %d (%s): %w", i, step.Product.SKU, err)
		}

		step.OutputImage = output
		step.Status = StepCompleted
	}
	return nil
}

// RegenerateFrom resets steps k..N-1 and re-runs the chain from k, feeding
// step k with step k-1's untouched output (or the snapshotted starting image
// for k = 0). This is the only recovery path; nothing is retried
// automatically.
func (r *Runner) RegenerateFrom(ctx context.Context, run *Run, k int) error {
	if err := ResetFrom(run.Steps, k); err != nil {
		return err
	}
	return r.Execute(ctx, run)
}
