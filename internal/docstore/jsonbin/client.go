// Package jsonbin is a client for a hosted JSON document API addressed as
// {base}/b/{id}.
package jsonbin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resto-catalog/internal/docstore"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.jsonbin.io/v3"

	// HeaderAccessKey carries a scoped access key.
	HeaderAccessKey = "X-Access-Key"
	// HeaderMasterKey carries the account master key.
	HeaderMasterKey = "X-Master-Key"

	maxErrorBody = 512
)

// Config configures the client.
type Config struct {
	BaseURL    string
	AccessKey  string
	MasterKey  string
	Attempts   int
	RetryDelay time.Duration
	Timeout    time.Duration
	// Headers are sent with every request. A credential header set here
	// takes precedence over AccessKey and MasterKey.
	Headers http.Header
}

// Client implements docstore.Store over HTTP.
type Client struct {
	baseURL    string
	accessKey  string
	masterKey  string
	attempts   int
	retryDelay time.Duration
	headers    http.Header
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a client. Zero values fall back to three attempts one second apart.
func New(cfg Config, logger zerolog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 3
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}

	return &Client{
		baseURL:    baseURL,
		accessKey:  cfg.AccessKey,
		masterKey:  cfg.MasterKey,
		attempts:   attempts,
		retryDelay: delay,
		headers:    cfg.Headers.Clone(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "jsonbin").Logger(),
	}
}

type readResponse struct {
	Record json.RawMessage `json:"record"`
}

type createResponse struct {
	Metadata struct {
		ID string `json:"id"`
	} `json:"metadata"`
}

// Get fetches the document. A missing document is created with the empty
// seed and returned with Provisioned set.
func (c *Client) Get(ctx context.Context, docID string) (*docstore.Document, error) {
	if docID == "" || !c.hasCredential() {
		return nil, docstore.ErrNotConfigured
	}
	return c.do(ctx, http.MethodGet, docID, nil)
}

// Put replaces the whole document with doc.Record.
func (c *Client) Put(ctx context.Context, docID string, doc *docstore.Document) error {
	if docID == "" || !c.hasCredential() {
		return docstore.ErrNotConfigured
	}
	body, err := docstore.EncodeRecord(doc.Record)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	result, err := c.do(ctx, http.MethodPut, docID, body)
	if err != nil {
		return err
	}
	if result != nil && result.Provisioned {
		// The replacement has a new id, so this write did not land anywhere
		// the configured id can reach.
		c.logger.Warn().
			Str("document", docstore.MaskID(docID)).
			Msg("write target was missing; update the configured document id")
	}
	return nil
}

// do runs one logical operation with the retry budget. Credential and
// decode failures stop the loop immediately.
func (c *Client) do(ctx context.Context, method, docID string, body []byte) (*docstore.Document, error) {
	var doc *docstore.Document
	attempt := 0

	operation := func() error {
		attempt++
		var err error
		doc, err = c.once(ctx, method, docID, body)
		return err
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).
			Str("method", method).
			Str("document", docstore.MaskID(docID)).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("document store request failed, retrying")
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), uint64(c.attempts-1)),
		ctx,
	)

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("document", docstore.MaskID(docID)).
			Int("attempts", attempt).
			Msg("document store request failed")
		if isPermanent(err) || ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", docstore.ErrUnavailable, err)
	}
	return doc, nil
}

func isPermanent(err error) bool {
	return errors.Is(err, docstore.ErrUnauthorized) ||
		errors.Is(err, docstore.ErrForbidden) ||
		errors.Is(err, docstore.ErrDecode)
}

func (c *Client) once(ctx context.Context, method, docID string, body []byte) (*docstore.Document, error) {
	resp, err := c.send(ctx, method, c.baseURL+"/b/"+docID, body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, backoff.Permanent(docstore.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		return nil, backoff.Permanent(docstore.ErrForbidden)
	case resp.StatusCode == http.StatusNotFound:
		return c.provision(ctx, docID)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &docstore.HTTPError{StatusCode: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed readResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %w", docstore.ErrDecode, err))
	}

	return &docstore.Document{Record: docstore.DecodeRecord(parsed.Record)}, nil
}

// provision creates a replacement document seeded with an empty photo list.
// The new identifier is only logged: the configured id keeps pointing at the
// missing document until an operator updates it.
func (c *Client) provision(ctx context.Context, docID string) (*docstore.Document, error) {
	seed := docstore.SeedRecord()
	body, err := docstore.EncodeRecord(seed)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to encode seed document: %w", err))
	}

	resp, err := c.send(ctx, http.MethodPost, c.baseURL+"/b", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create missing document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Str("document", docstore.MaskID(docID)).
			Int("status", resp.StatusCode).
			Msg("failed to create missing document")
		return nil, &docstore.HTTPError{StatusCode: http.StatusNotFound, Body: "document not found"}
	}

	var created createResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		c.logger.Debug().Err(err).Msg("could not read created document metadata")
	}

	c.logger.Warn().
		Str("document", docstore.MaskID(docID)).
		Str("created", docstore.MaskID(created.Metadata.ID)).
		Msg("document not found, provisioned an empty replacement")

	return &docstore.Document{Record: seed, Provisioned: true}, nil
}

func (c *Client) send(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// authorize attaches a credential unless one is already present.
// hasCredential reports whether requests can carry a key. Without one the
// store rejects every call, so nothing is sent.
func (c *Client) hasCredential() bool {
	return c.accessKey != "" || c.masterKey != "" ||
		c.headers.Get(HeaderAccessKey) != "" || c.headers.Get(HeaderMasterKey) != ""
}

func (c *Client) authorize(req *http.Request) {
	if req.Header.Get(HeaderAccessKey) != "" || req.Header.Get(HeaderMasterKey) != "" {
		return
	}
	switch {
	case c.accessKey != "":
		req.Header.Set(HeaderAccessKey, c.accessKey)
	case c.masterKey != "":
		req.Header.Set(HeaderMasterKey, c.masterKey)
	}
}

func readErrorBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}
