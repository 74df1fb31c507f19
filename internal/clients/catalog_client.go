package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// catalogEnvelope is the wrapped form of GET /api/products when ?raw=1 is
// not honoured by the remote instance.
type catalogEnvelope struct {
	Status  string          `json:"Status"`
	Message string          `json:"Message"`
	Data    json.RawMessage `json:"Data"`
}

// CatalogClient reads the product list of another catalog instance. The first
// successful response is kept for the life of the client; a failed fetch is
// not retried and the next call starts over.
type CatalogClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger

	mu     sync.Mutex
	cached []domain.Product
}

func NewCatalogHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *CatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached == nil {
		products, err := c.fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		c.cached = products
	}

	out := make([]domain.Product, len(c.cached))
	for i, p := range c.cached {
		out[i] = p.Clone()
	}
	return out, nil
}

// Invalidate drops the cached list so the next read fetches again.
func (c *CatalogClient) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

func (c *CatalogClient) fetch(ctx context.Context) ([]domain.Product, error) {
	url := fmt.Sprintf("%s/api/products?raw=1", c.baseURL)
	c.log.Infof("CatalogClient: Requesting products from URL: %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Errorf("CatalogClient: Failed to create request: %v", err)
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("CatalogClient: Failed to execute request: %v", err)
		return nil, fmt.Errorf("failed to communicate with catalog backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Errorf("CatalogClient: Request failed with status %d", resp.StatusCode)
		return nil, fmt.Errorf("catalog backend returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorf("CatalogClient: Failed to read response body: %v", err)
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	raw := bytes.TrimSpace(body)
	if len(raw) > 0 && raw[0] == '{' {
		var envelope catalogEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode catalog response: %w", err)
		}
		raw = envelope.Data
	}

	var decoded []domain.Product
	if err := json.Unmarshal(raw, &decoded); err != nil {
		c.log.Errorf("CatalogClient: Failed to decode products: %v", err)
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	products := make([]domain.Product, 0, len(decoded))
	for _, p := range decoded {
		if err := p.Validate(); err != nil {
			c.log.Warnf("CatalogClient: Dropping invalid product %q: %v", p.ID, err)
			continue
		}
		p.Availability, _ = domain.ParseAvailability(string(p.Availability))
		products = append(products, p)
	}

	c.log.Infof("CatalogClient: Received %d products (%d dropped)", len(products), len(decoded)-len(products))
	return products, nil
}
