// Package weblookup implements the web lookup collaborator client
// (`lookup(LookupRequest) -> LookupResult[]`): a hand-written
// net/http client wrapping an external search API,
// authenticated via OAuth2 client credentials, with a circuit breaker
// around the call.
package weblookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
)

// LookupRequest is the collaborator's input shape.
type LookupRequest struct {
	Term            string
	Sources         []string
	Context         []string
	MaxResults      int
	IncludeExamples bool
	Timeout         time.Duration
}

// LookupResult is one raw search hit, pre-ranking, in the provenance
// format, minus the orchestrator-assigned UsedInPrompt flag which is
// decided later, not by this client.
type LookupResult struct {
	Provider    string    `json:"provider"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Snippet     string    `json:"snippet"`
	Score       float64   `json:"score"`
	RetrievedAt time.Time `json:"retrieved_at,omitempty"`
	DocID       string    `json:"doc_id,omitempty"`
	SourceLabel string    `json:"source_label,omitempty"`
}

// searchResponse is the search API's response envelope: a plain DTO
// decoded straight off the wire, with no accessor methods.
type searchResponse struct {
	Results []LookupResult `json:"results"`
}

// Client calls the external web lookup service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
}

// New constructs a Client. When oauthCfg is nil, oauth2
// client-credentials auth is skipped and the plain http.Client is used
// (local/test deployments pointing at an unauthenticated stub).
func New(cfg config.WebLookupConfig, baseURL string, oauthCfg *clientcredentials.Config) *Client {
	httpClient := http.DefaultClient
	if oauthCfg != nil {
		httpClient = oauthCfg.Client(context.Background())
	}

	settings := gobreaker.Settings{
		Name:     "weblookup",
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		breaker:    gobreaker.NewCircuitBreaker(settings),
	}
}

// Lookup performs the search and returns raw, unranked results. A
// timeout or transport error degrades to an empty slice plus an error
// the orchestrator is expected to record and continue past
// ("transient I/O error: always degraded, never
// propagated").
func (c *Client) Lookup(ctx context.Context, req LookupRequest) ([]LookupResult, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doLookup(ctx, req)
	})
	if err != nil {
		return nil, errors.Wrap(err, "web lookup")
	}
	return result.([]LookupResult), nil
}

func (c *Client) doLookup(ctx context.Context, req LookupRequest) ([]LookupResult, error) {
	body, err := json.Marshal(map[string]any{
		"term":             req.Term,
		"sources":          req.Sources,
		"context":          req.Context,
		"max_results":      req.MaxResults,
		"include_examples": req.IncludeExamples,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding lookup request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "building lookup request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "calling web lookup service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web lookup service returned status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "decoding lookup response")
	}

	if req.MaxResults > 0 && len(decoded.Results) > req.MaxResults {
		decoded.Results = decoded.Results[:req.MaxResults]
	}
	return decoded.Results, nil
}
