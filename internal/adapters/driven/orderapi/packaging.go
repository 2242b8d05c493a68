package orderapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// DefaultMaterialsEndpoint is joined to the base URL when packaging.url is not set.
const DefaultMaterialsEndpoint = "materials/get"

const defaultLookupTimeout = 30 * time.Second

// Ensure PackagingClient implements the interface.
var _ driven.PackagingLookup = (*PackagingClient)(nil)

// PackagingClient looks up material packagings through the order API.
// Each lookup is a single attempt; callers degrade to a default code on error.
type PackagingClient struct {
	api     driven.OrderAPI
	url     string
	timeout time.Duration
}

// NewPackagingClient creates a lookup client for the materials endpoint.
func NewPackagingClient(api driven.OrderAPI, settings domain.PackagingLookupSettings, baseURL string) *PackagingClient {
	url := settings.URL
	if url == "" {
		endpoint := settings.Endpoint
		if endpoint == "" {
			endpoint = DefaultMaterialsEndpoint
		}
		url = domain.APISettings{Endpoint: endpoint}.ResolveURL(baseURL)
	}
	timeout := defaultLookupTimeout
	if settings.TimeoutSeconds > 0 {
		timeout = time.Duration(settings.TimeoutSeconds) * time.Second
	}
	return &PackagingClient{api: api, url: url, timeout: timeout}
}

type lookupRequest struct {
	Filters lookupFilters `json:"filters"`
}

type lookupFilters struct {
	Owner   []string `json:"owner"`
	Project []string `json:"project"`
	Lookup  []string `json:"lookup"`
}

type lookupResponse struct {
	Materials []struct {
		Packagings []struct {
			Packaging             any `json:"packaging"`
			BasePackagingQuantity any `json:"base_packaging_quantity"`
		} `json:"packagings"`
	} `json:"materials"`
}

// Lookup returns the packagings of the first material matching the code.
func (c *PackagingClient) Lookup(ctx context.Context, owner, project, material string) ([]domain.PackagingCandidate, error) {
	body, err := json.Marshal(lookupRequest{Filters: lookupFilters{
		Owner:   []string{owner},
		Project: []string{project},
		Lookup:  []string{material},
	}})
	if err != nil {
		return nil, err
	}

	resp, err := c.api.Send(ctx, driven.APIRequest{
		Method:  "POST",
		URL:     c.url,
		Body:    body,
		Timeout: c.timeout,
		Retry:   domain.RetryPolicy{MaxAttempts: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("material lookup %s: %w", material, err)
	}
	if strings.TrimSpace(resp.Body) == "" {
		return nil, nil
	}

	var decoded lookupResponse
	if err := json.Unmarshal([]byte(resp.Body), &decoded); err != nil {
		return nil, fmt.Errorf("%w: material lookup %s: %v", domain.ErrInvalidInput, material, err)
	}
	if len(decoded.Materials) == 0 {
		return nil, nil
	}

	var out []domain.PackagingCandidate
	for _, p := range decoded.Materials[0].Packagings {
		out = append(out, domain.PackagingCandidate{
			Packaging:    text(p.Packaging),
			BaseQuantity: quantity(p.BasePackagingQuantity),
		})
	}
	return out, nil
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// quantity accepts numbers and numeric strings; anything else is unusable.
func quantity(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}
