package inaturalist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	errs "inatexport/pkg/errors"
	"inatexport/pkg/logger"
)

// Client is an iNaturalist API client
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a new iNaturalist API client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": "inatexport/1.0",
			"Accept":     "application/json",
		},
		baseURL: BaseURL,
		logger:  log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBaseURL overrides the API base URL, mainly for tests
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

//BaseURL returns the API base URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Newf(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Newf(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errs.Newf(errs.ErrorTypeParsing, resp.StatusCode, "failed to parse JSON: %v", err)
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.New(errs.ErrorTypeNotFound, "resource not found", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.New(errs.ErrorTypeRateLimit, "rate limit exceeded", resp.StatusCode)
	case resp.StatusCode >= 500:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.New(errs.ErrorTypeServerError, "server error", resp.StatusCode)
	case resp.StatusCode >= 400:
		c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.Newf(errs.ErrorTypeUnknown, resp.StatusCode, "unexpected status code: %d", resp.StatusCode)
	default:
		return nil
	}
}

// SearchTaxa searches for species-rank taxa matching the given name
func (c *Client) SearchTaxa(ctx context.Context, query string) (*TaxaResponse, error) {
	url := TaxaSearchURL(c.baseURL, query)

	c.logger.DebugWithFields("searching taxa", map[string]interface{}{
		"query": query,
		"url":   url,
	})

	var response TaxaResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		c.logger.ErrorWithFields("failed to search taxa", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil, err
	}

	return &response, nil
}

// SearchPlaces looks up places matching the given name
func (c *Client) SearchPlaces(ctx context.Context, query string) (*PlacesResponse, error) {
	url := PlacesSearchURL(c.baseURL, query)

	c.logger.DebugWithFields("searching places", map[string]interface{}{
		"query": query,
		"url":   url,
	})

	var response PlacesResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		c.logger.ErrorWithFields("failed to search places", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil, err
	}

	return &response, nil
}

// FetchObservations fetches one page of observation search results
func (c *Client) FetchObservations(ctx context.Context, q ObservationsQuery) (*ObservationsResponse, error) {
	url := ObservationsURL(c.baseURL, q)

	c.logger.DebugWithFields("fetching observations", map[string]interface{}{
		"taxon_id": q.TaxonID,
		"page":     q.Page,
		"url":      url,
	})

	var response ObservationsResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch observations", map[string]interface{}{
			"taxon_id": q.TaxonID,
			"page":     q.Page,
			"error":    err.Error(),
		})
		return nil, err
	}

	return &response, nil
}

// DownloadPhoto downloads a photo from the given URL
func (c *Client) DownloadPhoto(ctx context.Context, photoURL string) ([]byte, error) {
	c.logger.DebugWithFields("downloading photo", map[string]interface{}{
		"url": photoURL,
	})

	resp, err := c.Get(ctx, photoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeNetwork, 0, "failed to download photo: %v", err)
	}

	c.logger.DebugWithFields("downloaded photo", map[string]interface{}{
		"url":  photoURL,
		"size": len(data),
	})

	return data, nil
}
