package tryon

import (
	"testing"

	"github.com/raushankrgupta/look-builder/models"
)

func TestNewStepsPreservesOrder(t *testing.T) {
	products := []models.ProductRef{{SKU: "shirt-1"}, {SKU: "jeans-2"}, {SKU: "shoes-3"}}
	steps := NewSteps(products)

	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	for i, s := range steps {
		if s.Product.SKU != products[i].SKU {
			t.Fatalf("step %d: expected sku %s, got %s", i, products[i].SKU, s.Product.SKU)
		}
		if s.Status != StepPending {
			t.Fatalf("step %d: expected pending, got %s", i, s.Status)
		}
		if s.InputImage != "" || s.OutputImage != "" {
			t.Fatalf("step %d: new step must have no images", i)
		}
	}
}

func TestResetFromClearsTail(t *testing.T) {
	steps := []Step{
		{Product: models.ProductRef{SKU: "a"}, InputImage: "img0", OutputImage: "imgA", Status: StepCompleted},
		{Product: models.ProductRef{SKU: "b"}, InputImage: "imgA", OutputImage: "imgB", Status: StepCompleted},
		{Product: models.ProductRef{SKU: "c"}, InputImage: "imgB", Status: StepFailed, Reason: "boom"},
	}

	if err := ResetFrom(steps, 1); err != nil {
		t.Fatalf("ResetFrom: %v", err)
	}

	if steps[0].Status != StepCompleted || steps[0].OutputImage != "imgA" {
		t.Fatalf("step 0 must be untouched, got %+v", steps[0])
	}
	for i := 1; i < 3; i++ {
		if steps[i].Status != StepPending {
			t.Fatalf("step %d: expected pending, got %s", i, steps[i].Status)
		}
		if steps[i].InputImage != "" || steps[i].OutputImage != "" || steps[i].Reason != "" {
			t.Fatalf("step %d: images and reason must be cleared, got %+v", i, steps[i])
		}
		if steps[i].Product.SKU == "" {
			t.Fatalf("step %d: product must survive a reset", i)
		}
	}
}

func TestResetFromRejectsOutOfRange(t *testing.T) {
	steps := NewSteps([]models.ProductRef{{SKU: "a"}, {SKU: "b"}})
	for _, k := range []int{-1, 2, 10} {
		if err := ResetFrom(steps, k); err == nil {
			t.Fatalf("ResetFrom(%d) on 2 steps: expected error", k)
		}
	}
}

func TestCompleted(t *testing.T) {
	if Completed(nil) {
		t.Fatal("empty step list must not count as completed")
	}
	steps := NewSteps([]models.ProductRef{{SKU: "a"}, {SKU: "b"}})
	if Completed(steps) {
		t.Fatal("pending steps must not count as completed")
	}
	steps[0].Status = StepCompleted
	steps[1].Status = StepCompleted
	if !Completed(steps) {
		t.Fatal("all-completed steps must count as completed")
	}
	steps[1].Status = StepFailed
	if Completed(steps) {
		t.Fatal("a failed step must not count as completed")
	}
}
