// Package gateway is the HTTP/JSON client for the external scraping
// backend: entity/source catalogs, the mapping store, and the preview
// endpoints. The backend's responses are ground truth; the gateway never
// retries and never reconciles beyond reporting what the backend said.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/AyeshaZahid477412/leadgen-admin/internal/errors"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/logging"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/mapping"
)

// Package-level logger specific to the gateway service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	serviceLevelVar.Set(slog.LevelDebug)
	logger, closeLogger = logging.ForService("gateway", serviceLevelVar)
}

const (
	entitiesCacheKey = "catalog:entities"
	sourcesCacheKey  = "catalog:sources"
)

// Config holds gateway construction parameters. BaseURL is the single
// injected backend address; no call site carries its own.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// DefaultConfig returns gateway defaults for everything but the base URL.
func DefaultConfig() Config {
	return Config{
		Timeout:  30 * time.Second,
		CacheTTL: 5 * time.Minute,
	}
}

// Client talks to the scraping backend.
type Client struct {
	config     Config
	httpClient *http.Client
	catalog    *cache.Cache // wholesale entity/source list cache
}

// NewClient creates a backend gateway client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.Newf("backend base URL is required").
			Category(errors.CategoryConfiguration).
			Component("gateway").
			Build()
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultConfig().CacheTTL
	}

	client := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		catalog:    cache.New(config.CacheTTL, config.CacheTTL*2),
	}

	logger.Info("gateway client initialized",
		"base_url", config.BaseURL,
		"timeout", config.Timeout,
		"cache_ttl", config.CacheTTL)

	return client, nil
}

// CloseLogger closes the gateway's file logger. The logger is shared by
// every client in the process, so it is closed once at shutdown, never
// per client. Safe to call more than once.
func CloseLogger() {
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			slog.Warn("error closing gateway logger", "error", err)
		}
		closeLogger = nil
	}
}

// statusEnvelope is the backend's generic success/failure wrapper.
type statusEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}

// failureMessage picks the best available message out of a failure
// payload, falling back to a generic description.
func (e *statusEnvelope) failureMessage(statusCode int) string {
	for _, msg := range []string{e.Detail, e.Message, e.Error} {
		if msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("request failed with status %d", statusCode)
}

// Entities returns the entity schema list, cached wholesale.
func (c *Client) Entities(ctx context.Context) ([]mapping.EntitySchema, error) {
	if cached, found := c.catalog.Get(entitiesCacheKey); found {
		if entities, ok := cached.([]mapping.EntitySchema); ok {
			logger.Debug("entity catalog cache hit", "entities", len(entities))
			return entities, nil
		}
	}

	var payload struct {
		Entities []mapping.EntitySchema `json:"entities"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/entity/entities", nil, &payload); err != nil {
		return nil, err
	}

	c.catalog.Set(entitiesCacheKey, payload.Entities, cache.DefaultExpiration)
	return payload.Entities, nil
}

// Sources returns the source list, cached wholesale.
func (c *Client) Sources(ctx context.Context) ([]mapping.Source, error) {
	if cached, found := c.catalog.Get(sourcesCacheKey); found {
		if sources, ok := cached.([]mapping.Source); ok {
			logger.Debug("source catalog cache hit", "sources", len(sources))
			return sources, nil
		}
	}

	var payload struct {
		Sources []mapping.Source `json:"sources"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/source/sources", nil, &payload); err != nil {
		return nil, err
	}

	c.catalog.Set(sourcesCacheKey, payload.Sources, cache.DefaultExpiration)
	return payload.Sources, nil
}

// InvalidateCatalog drops the cached entity and source lists so the next
// read refreshes them wholesale.
func (c *Client) InvalidateCatalog() {
	c.catalog.Flush()
	logger.Debug("catalog cache invalidated")
}

// Mappings returns the full mapping record list. The list is never
// paginated server-side; filtering happens client-side over this result.
func (c *Client) Mappings(ctx context.Context) ([]mapping.MappingRecord, error) {
	var payload struct {
		Mappings []mapping.MappingRecord `json:"mappings"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/mapping/mappings", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Mappings, nil
}

// SaveMappings persists the selected entity drafts as mapping records and
// returns the backend's confirmation message.
func (c *Client) SaveMappings(ctx context.Context, req *mapping.SaveRequest) (string, error) {
	var envelope statusEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/mapping/save-entity-mapping", req, &envelope); err != nil {
		return "", err
	}
	if envelope.Success != nil && !*envelope.Success {
		return "", errors.Newf("save failed: %s", envelope.failureMessage(http.StatusOK)).
			Category(errors.CategoryNetwork).
			Component("gateway").
			Context("source", req.Source).
			Build()
	}
	logger.Info("mappings saved", "source", req.Source, "entities", len(req.EntityMappings))
	return envelope.Message, nil
}

// EditMapping replaces one record's mutable fields, keyed by its current
// mapping name.
func (c *Client) EditMapping(ctx context.Context, mappingName string, req *mapping.EditRequest) error {
	path := "/mapping/edit-mapping/" + url.PathEscape(mappingName)
	if err := c.doRequest(ctx, http.MethodPut, path, req, nil); err != nil {
		return err
	}
	logger.Info("mapping edited", "mapping_name", mappingName)
	return nil
}

// DeleteMapping removes a record permanently. Interactive confirmation is
// the caller's responsibility; the gateway only issues the request.
func (c *Client) DeleteMapping(ctx context.Context, mappingName string) error {
	path := "/mapping/delete-mapping/" + url.PathEscape(mappingName)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	logger.Info("mapping deleted", "mapping_name", mappingName)
	return nil
}

// ToggleMapping flips one record's enabled flag server-side and returns
// the value the store actually persisted. Callers must adopt this value
// rather than flipping locally.
func (c *Client) ToggleMapping(ctx context.Context, mappingName string) (bool, error) {
	path := "/mapping/toggle-mapping-status/" + url.PathEscape(mappingName)
	var payload struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.doRequest(ctx, http.MethodPut, path, nil, &payload); err != nil {
		return false, err
	}
	logger.Info("mapping toggled", "mapping_name", mappingName, "enabled", payload.Enabled)
	return payload.Enabled, nil
}

// PreviewMapping runs a sample extraction for an in-progress mapping.
func (c *Client) PreviewMapping(ctx context.Context, req *mapping.PreviewRequest) (*mapping.PreviewResult, error) {
	var payload struct {
		statusEnvelope
		mapping.PreviewResult
	}
	if err := c.doRequest(ctx, http.MethodPost, "/task/preview-mapping", req, &payload); err != nil {
		return nil, err
	}
	if payload.Success != nil && !*payload.Success {
		return nil, errors.Newf("preview failed: %s", payload.failureMessage(http.StatusOK)).
			Category(errors.CategoryNetwork).
			Component("gateway").
			Context("entity_name", req.EntityName).
			Build()
	}
	return &payload.PreviewResult, nil
}

// FetchPageContent fetches the raw content of a page through the backend.
func (c *Client) FetchPageContent(ctx context.Context, pageURL string) (string, error) {
	body := map[string]string{"url": pageURL}
	var payload struct {
		statusEnvelope
		Content string `json:"content"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/utils/fetch-url-content", body, &payload); err != nil {
		return "", err
	}
	if payload.Success != nil && !*payload.Success {
		return "", errors.Newf("page fetch failed: %s", payload.failureMessage(http.StatusOK)).
			Category(errors.CategoryNetwork).
			Component("gateway").
			Context("url", pageURL).
			Build()
	}
	return payload.Content, nil
}

// doRequest performs one HTTP round trip against the backend. body is
// marshaled as JSON when non-nil; the response is unmarshaled into result
// when non-nil. There is no retry path: every failure is terminal for the
// attempt and requires a new operator action.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	requestURL := c.config.BaseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Newf("failed to encode request body: %w", err).
				Category(errors.CategoryValidation).
				Context("method", method).
				Context("url", requestURL).
				Component("gateway").
				Build()
		}
		reqBody = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, requestURL, reqBody)
	if err != nil {
		return errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Context("method", method).
			Context("url", requestURL).
			Component("gateway").
			Build()
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("backend request failed",
			"method", method,
			"url", requestURL,
			"error", err)
		return errors.Newf("HTTP request failed: %w", err).
			Category(errors.CategoryNetwork).
			Context("method", method).
			Context("url", requestURL).
			Component("gateway").
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Newf("failed to read response body: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", requestURL).
			Context("status_code", resp.StatusCode).
			Component("gateway").
			Build()
	}

	if resp.StatusCode >= 400 {
		var envelope statusEnvelope
		_ = json.Unmarshal(bodyBytes, &envelope)
		message := envelope.failureMessage(resp.StatusCode)

		logger.Warn("backend error response",
			"method", method,
			"url", requestURL,
			"status_code", resp.StatusCode,
			"message", message)

		return errors.Newf("%s", message).
			Category(categoryForStatus(resp.StatusCode)).
			Context("method", method).
			Context("url", requestURL).
			Context("status_code", resp.StatusCode).
			Component("gateway").
			Build()
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			preview := string(bodyBytes)
			if len(preview) > 500 {
				preview = preview[:500] + "..."
			}
			logger.Error("failed to parse backend response",
				"url", requestURL,
				"response_preview", preview,
				"error", err)
			return errors.Newf("failed to parse response: %w", err).
				Category(errors.CategoryFileParsing).
				Context("url", requestURL).
				Context("response_size", len(bodyBytes)).
				Component("gateway").
				Build()
		}
	}

	logger.Debug("backend request successful",
		"method", method,
		"url", requestURL,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

// categoryForStatus maps an HTTP status code to an error category.
func categoryForStatus(statusCode int) errors.ErrorCategory {
	switch statusCode {
	case http.StatusNotFound:
		return errors.CategoryNotFound
	case http.StatusConflict:
		return errors.CategoryConflict
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return errors.CategoryTimeout
	default:
		return errors.CategoryNetwork
	}
}
