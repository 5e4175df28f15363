package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raushankrgupta/look-builder/models"
)

type stubSource struct {
	products map[string]models.ProductRef
	err      error
	calls    int
}

func (s *stubSource) FetchProduct(ctx context.Context, sku string) (*models.ProductRef, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[sku]
	if !ok {
		return nil, fmt.Errorf("sku %q: %w", sku, ErrNotFound)
	}
	return &p, nil
}

func TestMultiReturnsFirstHit(t *testing.T) {
	first := &stubSource{products: map[string]models.ProductRef{"a": {SKU: "a", Name: "from first"}}}
	second := &stubSource{products: map[string]models.ProductRef{"a": {SKU: "a", Name: "from second"}}}
	chain := Multi{first, second}

	p, err := chain.FetchProduct(context.Background(), "a")
	if err != nil {
		t.Fatalf("FetchProduct: %v", err)
	}
	if p.Name != "from first" {
		t.Fatalf("expected first source to win, got %q", p.Name)
	}
	if second.calls != 0 {
		t.Fatal("later sources must not be consulted after a hit")
	}
}

func TestMultiFallsThroughOnNotFound(t *testing.T) {
	first := &stubSource{}
	second := &stubSource{products: map[string]models.ProductRef{"a": {SKU: "a", Name: "fallback"}}}
	chain := Multi{first, second}

	p, err := chain.FetchProduct(context.Background(), "a")
	if err != nil {
		t.Fatalf("FetchProduct: %v", err)
	}
	if p.Name != "fallback" {
		t.Fatalf("expected fallback source, got %q", p.Name)
	}

	if _, err := chain.FetchProduct(context.Background(), "zz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when no source knows the sku, got %v", err)
	}
}

func TestMultiStopsOnRealError(t *testing.T) {
	boom := errors.New("upstream down")
	first := &stubSource{err: boom}
	second := &stubSource{products: map[string]models.ProductRef{"a": {SKU: "a"}}}
	chain := Multi{first, second}

	_, err := chain.FetchProduct(context.Background(), "a")
	if !errors.Is(err, boom) {
		t.Fatalf("expected the source error surfaced, got %v", err)
	}
	if second.calls != 0 {
		t.Fatal("a non-notfound error must stop the chain")
	}
}

func TestAPIClientFetchProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/SKU123":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"brand":"Acme","name":"Denim Jacket","mrp":"2999","discounted_price":"1999"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL)

	p, err := c.FetchProduct(context.Background(), "SKU123")
	if err != nil {
		t.Fatalf("FetchProduct: %v", err)
	}
	if p.Name != "Denim Jacket" || p.Brand != "Acme" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.SKU != "SKU123" {
		t.Fatalf("client must backfill the sku, got %q", p.SKU)
	}

	if _, err := c.FetchProduct(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("404 must map to ErrNotFound, got %v", err)
	}
}
