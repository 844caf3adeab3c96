// Package catalog implements the HTTP client for the catalog system of
// record. Circulation only reads item-level facts from it, never writes.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/pkg/errs"
)

const defaultTimeout = 10 * time.Second

// Client talks to the catalog's REST API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type eligibilityResponse struct {
	Eligible bool `json:"eligible"`
}

// ObsoleteEligible asks the catalog whether the item may be retired. The
// catalog answers 404 for items it does not know, which surfaces as an
// ObjectNotFoundError so callers can distinguish it from transport faults.
func (c *Client) ObsoleteEligible(ctx context.Context, itemID kernel.UUID) (bool, error) {
	url := fmt.Sprintf("%s/items/%s/obsolete-eligibility", c.baseURL, itemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, errs.NewObjectNotFoundError("catalog item", itemID.String())
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var body eligibilityResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}

	return body.Eligible, nil
}
