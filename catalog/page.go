package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raushankrgupta/look-builder/models"
)

// PageSource resolves SKUs by scraping the public catalog product page.
// It is the fallback for products not yet served by the catalog API.
type PageSource struct {
	BaseURL string
	Fetcher *Fetcher
}

// NewPageSource creates a page-scraping source rooted at baseURL.
func NewPageSource(baseURL string) *PageSource {
	return &PageSource{
		BaseURL: baseURL,
		Fetcher: NewFetcher(),
	}
}

func (s *PageSource) FetchProduct(ctx context.Context, sku string) (*models.ProductRef, error) {
	url := fmt.Sprintf("%s/p/%s", s.BaseURL, sku)

	doc, err := s.Fetcher.FetchDocument(url, func(doc *goquery.Document) bool {
		return IsValidDocument(doc) && doc.Find("h1").Length() > 0
	})
	if err != nil {
		return nil, fmt.Errorf("fetching product page for %s: %w", sku, err)
	}

	product := &models.ProductRef{SKU: sku, URLKey: sku}

	// Prefer Open Graph metadata; most catalog pages carry it even when the
	// markup differs per template.
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		product.Name = strings.TrimSpace(title)
	}
	if product.Name == "" {
		product.Name = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	if brand, ok := doc.Find(`meta[property="product:brand"]`).Attr("content"); ok {
		product.Brand = strings.TrimSpace(brand)
	}
	if product.Brand == "" {
		product.Brand = strings.TrimSpace(doc.Find(".brand-name, [itemprop=brand]").First().Text())
	}

	if price, ok := doc.Find(`meta[property="product:price:amount"]`).Attr("content"); ok {
		product.DiscountedPrice = strings.TrimSpace(price)
	}
	if product.DiscountedPrice == "" {
		product.DiscountedPrice = strings.TrimSpace(doc.Find(".price, [itemprop=price]").First().Text())
	}

	doc.Find(`meta[property="og:image"]`).Each(func(i int, sel *goquery.Selection) {
		if img, ok := sel.Attr("content"); ok && img != "" {
			product.Images = append(product.Images, img)
		}
	})
	doc.Find(".product-gallery img, .pdp-image img").Each(func(i int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		for _, existing := range product.Images {
			if existing == src {
				return
			}
		}
		product.Images = append(product.Images, src)
	})

	// A page with neither a name nor an image is a miss, not a product.
	if product.Name == "" && len(product.Images) == 0 {
		return nil, fmt.Errorf("sku %q: page had no product data: %w", sku, ErrNotFound)
	}

	return product, nil
}
