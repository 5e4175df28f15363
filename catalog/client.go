package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/raushankrgupta/look-builder/models"
)

// APIClient resolves SKUs against the house catalog service's JSON API.
type APIClient struct {
	BaseURL string
	Client  *http.Client
}

// NewAPIClient creates a client for the catalog API at baseURL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *APIClient) FetchProduct(ctx context.Context, sku string) (*models.ProductRef, error) {
	endpoint := fmt.Sprintf("%s/products/%s", c.BaseURL, url.PathEscape(sku))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request for %s: %w", sku, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("sku %q: %w", sku, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d for sku %s", resp.StatusCode, sku)
	}

	var product models.ProductRef
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decoding catalog response for %s: %w", sku, err)
	}
	if product.SKU == "" {
		product.SKU = sku
	}
	return &product, nil
}
