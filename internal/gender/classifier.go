// Package gender classifies a person's given name into a probabilistic
// gender label using a remote name-to-gender HTTP API, with an in-process
// cache in front of it.
package gender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/usermgmt/internal/common"
	"github.com/dmitrijs2005/usermgmt/internal/models"
)

// Result is an accepted classification: gender with the confidence the
// remote service attached to it.
type Result struct {
	Gender     models.Gender
	Confidence float64
}

// apiResponse mirrors the classifier's JSON payload. A missing gender field
// means the service could not classify the name.
type apiResponse struct {
	Gender      string  `json:"gender"`
	Probability float64 `json:"probability"`
}

// Classifier looks up gender by given name.
//
// The cache is keyed by lowercase given name, populated lazily, and never
// evicted for the lifetime of the process; a hit short-circuits the network
// entirely. Only results meeting the confidence threshold are cached, so a
// low-confidence answer can be retried on a later call.
type Classifier struct {
	endpoint      string
	minConfidence float64
	client        *http.Client

	mu    sync.Mutex
	cache map[string]*Result
}

// NewClassifier builds a Classifier for the given endpoint. Every remote call
// is bounded by timeout; expiry is treated like any other lookup failure.
func NewClassifier(endpoint string, minConfidence float64, timeout time.Duration) *Classifier {
	return &Classifier{
		endpoint:      endpoint,
		minConfidence: minConfidence,
		client:        &http.Client{Timeout: timeout},
		cache:         make(map[string]*Result),
	}
}

// Classify resolves the gender of the first whitespace-delimited token of
// fullName.
//
// It returns (nil, nil) when the service answered but the result is unusable
// (no gender, or confidence below the threshold), and ErrorClassifierUnavailable
// when the lookup itself failed. Callers are expected to fall back to manual
// input in both cases.
func (c *Classifier) Classify(ctx context.Context, fullName string) (*Result, error) {
	givenName := strings.ToLower(models.GivenName(fullName))
	if givenName == "" {
		return nil, nil
	}

	if r := c.lookupCache(givenName); r != nil {
		return r, nil
	}

	resp, err := c.fetch(ctx, givenName)
	if err != nil {
		return nil, err
	}

	if resp.Gender == "" || resp.Probability < c.minConfidence {
		return nil, nil
	}

	result := &Result{Gender: models.Gender(resp.Gender), Confidence: resp.Probability}
	c.storeCache(givenName, result)
	return result, nil
}

func (c *Classifier) lookupCache(givenName string) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache[givenName]
}

func (c *Classifier) storeCache(givenName string, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[givenName] = r
}

func (c *Classifier) fetch(ctx context.Context, givenName string) (*apiResponse, error) {
	reqURL := c.endpoint + "?name=" + url.QueryEscape(givenName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorClassifierUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %s", common.ErrorClassifierUnavailable, resp.Status)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorClassifierUnavailable, err)
	}

	return &payload, nil
}
