package seoapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

// Config configures the REST client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
	HTTPClient *http.Client
}

// Client talks to a remote backend exposing one REST collection per entity:
//
//	GET    /{entity}
//	GET    /{entity}/{id}
//	POST   /{entity}
//	PUT    /{entity}/{id}
//	DELETE /{entity}/{id}
type Client struct {
	http *resty.Client
}

type errorBody struct {
	Error string `json:"error"`
}

// NewClient builds a client for cfg.BaseURL. Server errors and transport
// failures are retried RetryCount times.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("seoapi: base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryCondition)
	if cfg.APIKey != "" {
		rc.SetAuthToken(cfg.APIKey)
	}
	return &Client{http: rc}, nil
}

// retryCondition replays idempotent requests on transport errors and 5xx.
// A create may already be committed when either happens, so POST is retried
// only on 429.
func retryCondition(r *resty.Response, err error) bool {
	idempotent := r != nil && r.Request != nil && idempotentMethod(r.Request.Method)
	if err != nil {
		return idempotent
	}
	if r == nil {
		return false
	}
	if r.StatusCode() == http.StatusTooManyRequests {
		return true
	}
	return idempotent && r.StatusCode() >= http.StatusInternalServerError
}

func idempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

// List returns every record of entity.
func (c *Client) List(ctx context.Context, entity string) ([]datatable.Record, error) {
	var records []datatable.Record
	resp, err := c.request(ctx).SetResult(&records).Get(collectionPath(entity))
	if err := check(ctx, entity, 0, resp, err); err != nil {
		return nil, err
	}
	return records, nil
}

// Get returns a single record.
func (c *Client) Get(ctx context.Context, entity string, id int) (datatable.Record, error) {
	var record datatable.Record
	resp, err := c.request(ctx).SetResult(&record).Get(itemPath(entity, id))
	if err := check(ctx, entity, id, resp, err); err != nil {
		return nil, err
	}
	return record, nil
}

// Create posts a new record and returns the stored version.
func (c *Client) Create(ctx context.Context, entity string, data datatable.Record) (datatable.Record, error) {
	var record datatable.Record
	resp, err := c.request(ctx).SetBody(data).SetResult(&record).Post(collectionPath(entity))
	if err := check(ctx, entity, 0, resp, err); err != nil {
		return nil, err
	}
	return record, nil
}

// Update merges data into the record and returns the stored version.
func (c *Client) Update(ctx context.Context, entity string, id int, data datatable.Record) (datatable.Record, error) {
	var record datatable.Record
	resp, err := c.request(ctx).SetBody(data).SetResult(&record).Put(itemPath(entity, id))
	if err := check(ctx, entity, id, resp, err); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, entity string, id int) (bool, error) {
	resp, err := c.request(ctx).Delete(itemPath(entity, id))
	if err := check(ctx, entity, id, resp, err); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&errorBody{})
}

// check maps transport failures and error statuses onto the store taxonomy.
func check(ctx context.Context, entity string, id int, resp *resty.Response, err error) error {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return store.Failure(entity, fmt.Errorf("seoapi: request: %w", err))
	}
	if !resp.IsError() {
		return nil
	}
	message := resp.Status()
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		message = body.Error
	}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return &store.Error{Kind: store.ErrNotFound, Entity: entity, ID: id, Message: message}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &store.Error{Kind: store.ErrValidation, Entity: entity, ID: id, Message: message}
	default:
		return store.Failure(entity, fmt.Errorf("seoapi: remote error %d: %s", resp.StatusCode(), message))
	}
}

func collectionPath(entity string) string {
	return "/" + entity
}

func itemPath(entity string, id int) string {
	return "/" + entity + "/" + strconv.Itoa(id)
}
