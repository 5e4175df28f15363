package tryon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/raushankrgupta/look-builder/catalog"
	"github.com/raushankrgupta/look-builder/models"
)

type fakeCatalog struct {
	products map[string]models.ProductRef
}

func (f *fakeCatalog) FetchProduct(ctx context.Context, sku string) (*models.ProductRef, error) {
	p, ok := f.products[sku]
	if !ok {
		return nil, fmt.Errorf("sku %s: %w", sku, catalog.ErrNotFound)
	}
	return &p, nil
}

// fakeGateway derives each output deterministically from its input so chain
// order is observable, and fails on a designated sku.
type fakeGateway struct {
	failSKU string
	calls   []string
}

func (f *fakeGateway) Synthesize(ctx context.Context, baseImage, subject string, product models.ProductRef, prior []models.ProductRef) (string, error) {
	f.calls = append(f.calls, product.SKU)
	if product.SKU == f.failSKU {
		return "", errors.New("render failed")
	}
	return baseImage + "+" + product.SKU, nil
}

func (f *fakeGateway) Edit(ctx context.Context, baseImage, instruction, guideImage string) (string, error) {
	return baseImage + "~edited", nil
}

func testRunner(failSKU string, skus ...string) (*Runner, *fakeGateway) {
	products := map[string]models.ProductRef{}
	for _, sku := range skus {
		products[sku] = models.ProductRef{SKU: sku, Name: "item " + sku}
	}
	gw := &fakeGateway{failSKU: failSKU}
	return &Runner{Catalog: &fakeCatalog{products: products}, Gateway: gw}, gw
}

func testModel() models.Model {
	return models.Model{ID: 7, Name: "Asha", ImageKey: "img0"}
}

func TestResolveReportsAllMissingSKUs(t *testing.T) {
	r, _ := testRunner("", "a", "b")

	_, err := r.Resolve(context.Background(), []string{"a", "zz", "b", "yy"})
	if err == nil {
		t.Fatal("expected resolution error")
	}
	var nf *SKUNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected SKUNotFoundError, got %T: %v", err, err)
	}
	if len(nf.SKUs) != 2 || nf.SKUs[0] != "yy" || nf.SKUs[1] != "zz" {
		t.Fatalf("expected both missing skus reported sorted, got %v", nf.SKUs)
	}
}

func TestResolvePreservesRequestOrder(t *testing.T) {
	r, _ := testRunner("", "a", "b", "c")

	products, err := r.Resolve(context.Background(), []string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got := []string{products[0].SKU, products[1].SKU, products[2].SKU}
	if strings.Join(got, ",") != "c,a,b" {
		t.Fatalf("expected request order c,a,b, got %v", got)
	}
}

func TestExecuteChainsOutputsIntoInputs(t *testing.T) {
	r, gw := testRunner("", "shirt", "jeans", "shoes")
	products, err := r.Resolve(context.Background(), []string{"shirt", "jeans", "shoes"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	run := NewRun(testModel(), products)
	if err := r.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if run.Steps[0].InputImage != "img0" {
		t.Fatalf("step 0 must start from the model image, got %q", run.Steps[0].InputImage)
	}
	for i := 1; i < len(run.Steps); i++ {
		if run.Steps[i].InputImage != run.Steps[i-1].OutputImage {
			t.Fatalf("step %d input %q != step %d output %q",
				i, run.Steps[i].InputImage, i-1, run.Steps[i-1].OutputImage)
		}
	}
	if got := run.Steps[2].OutputImage; got != "img0+shirt+jeans+shoes" {
		t.Fatalf("unexpected final image %q", got)
	}
	if strings.Join(gw.calls, ",") != "shirt,jeans,shoes" {
		t.Fatalf("generation order wrong: %v", gw.calls)
	}
	if !run.Savable() {
		t.Fatal("completed run must be savable")
	}
}

func TestExecuteHaltsOnFailure(t *testing.T) {
	r, gw := testRunner("jeans", "shirt", "jeans", "shoes")
	products, _ := r.Resolve(context.Background(), []string{"shirt", "jeans", "shoes"})

	run := NewRun(testModel(), products)
	err := r.Execute(context.Background(), run)
	if err == nil {
		t.Fatal("expected execution to halt")
	}

	if run.Steps[0].Status != StepCompleted {
		t.Fatalf("step 0: expected completed, got %s", run.Steps[0].Status)
	}
	if run.Steps[1].Status != StepFailed || run.Steps[1].Reason == "" {
		t.Fatalf("step 1: expected failed with reason, got %+v", run.Steps[1])
	}
	if run.Steps[2].Status != StepPending {
		t.Fatalf("step 2: expected pending after halt, got %s", run.Steps[2].Status)
	}
	if len(gw.calls) != 2 {
		t.Fatalf("steps after the failure must not run, got calls %v", gw.calls)
	}
	if run.Savable() {
		t.Fatal("halted run must not be savable")
	}
	if _, err := run.BuildLook(1); !errors.Is(err, ErrRunIncomplete) {
		t.Fatalf("expected ErrRunIncomplete, got %v", err)
	}
}

func TestRegenerateFromPreservesPrefix(t *testing.T) {
	r, gw := testRunner("jeans", "shirt", "jeans", "shoes")
	products, _ := r.Resolve(context.Background(), []string{"shirt", "jeans", "shoes"})

	run := NewRun(testModel(), products)
	if err := r.Execute(context.Background(), run); err == nil {
		t.Fatal("expected first execution to halt")
	}
	prefixOutput := run.Steps[0].OutputImage

	gw.failSKU = ""
	gw.calls = nil
	if err := r.RegenerateFrom(context.Background(), run, 1); err != nil {
		t.Fatalf("RegenerateFrom: %v", err)
	}

	if run.Steps[0].OutputImage != prefixOutput {
		t.Fatalf("step 0 output changed across regeneration: %q -> %q", prefixOutput, run.Steps[0].OutputImage)
	}
	if strings.Join(gw.calls, ",") != "jeans,shoes" {
		t.Fatalf("regeneration must only rerun the tail, got %v", gw.calls)
	}
	if run.Steps[1].InputImage != prefixOutput {
		t.Fatalf("regenerated step must consume the retained prefix output, got %q", run.Steps[1].InputImage)
	}
	if !run.Savable() {
		t.Fatal("run must be savable after successful regeneration")
	}
}

func TestRegenerateFromZeroRestartsFromModelImage(t *testing.T) {
	r, gw := testRunner("", "shirt", "jeans")
	products, _ := r.Resolve(context.Background(), []string{"shirt", "jeans"})

	run := NewRun(testModel(), products)
	if err := r.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	gw.calls = nil
	if err := r.RegenerateFrom(context.Background(), run, 0); err != nil {
		t.Fatalf("RegenerateFrom: %v", err)
	}
	if run.Steps[0].InputImage != "img0" {
		t.Fatalf("full regeneration must restart from the snapshotted image, got %q", run.Steps[0].InputImage)
	}
	if len(gw.calls) != 2 {
		t.Fatalf("full regeneration must rerun every step, got %v", gw.calls)
	}
}

func TestBuildLookCondensesRun(t *testing.T) {
	r, _ := testRunner("", "shirt", "jeans")
	products, _ := r.Resolve(context.Background(), []string{"shirt", "jeans"})

	run := NewRun(testModel(), products)
	if err := r.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	look, err := run.BuildLook(42)
	if err != nil {
		t.Fatalf("BuildLook: %v", err)
	}
	if look.UserID != 42 || look.ModelID != 7 {
		t.Fatalf("unexpected ownership: %+v", look)
	}
	if look.ModelImage != "img0" {
		t.Fatalf("expected snapshotted model image, got %q", look.ModelImage)
	}
	if look.FinalImage != run.Steps[1].OutputImage {
		t.Fatalf("primary image must be the last output, got %q", look.FinalImage)
	}
	if len(look.Products) != 2 || look.Products[0].SKU != "shirt" || look.Products[1].SKU != "jeans" {
		t.Fatalf("products must keep application order, got %+v", look.Products)
	}
	if look.ID != 0 {
		t.Fatalf("a draft look must not carry an id, got %d", look.ID)
	}
}
