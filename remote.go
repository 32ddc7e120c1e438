package foundations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const listPageSize = 500

// RemoteGateway talks to the remote records service over HTTP. It
// implements Gateway against the collection records API:
//
//	POST   /api/collections/{collection}/records
//	PATCH  /api/collections/{collection}/records/{id}
//	DELETE /api/collections/{collection}/records/{id}
//	GET    /api/collections/{collection}/records?filter=&sort=&page=&perPage=
//
// and a websocket realtime endpoint (see realtime.go).
type RemoteGateway struct {
	baseURL   string
	authToken string
	client    *http.Client
	log       *DebugLogger
}

// NewRemoteGateway creates a gateway for the service at baseURL.
func NewRemoteGateway(baseURL, authToken string, log *DebugLogger) *RemoteGateway {
	return &RemoteGateway{
		baseURL:   baseURL,
		authToken: authToken,
		log:       log,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// listResponse is one page of a collection listing.
type listResponse struct {
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
	Items      []Record `json:"items"`
}

// Create inserts a record and returns it with the server-assigned ID.
func (g *RemoteGateway) Create(ctx context.Context, collection string, record Record) (Record, error) {
	path := fmt.Sprintf("/api/collections/%s/records", url.PathEscape(collection))
	return g.doRecord(ctx, "create", http.MethodPost, path, record)
}

// Update replaces fields of the record with the given ID.
func (g *RemoteGateway) Update(ctx context.Context, collection, id string, record Record) (Record, error) {
	path := fmt.Sprintf("/api/collections/%s/records/%s", url.PathEscape(collection), url.PathEscape(id))
	return g.doRecord(ctx, "update", http.MethodPatch, path, record)
}

// Delete removes the record with the given ID.
func (g *RemoteGateway) Delete(ctx context.Context, collection, id string) error {
	path := fmt.Sprintf("/api/collections/%s/records/%s", url.PathEscape(collection), url.PathEscape(id))
	_, err := g.do(ctx, "delete", http.MethodDelete, path, nil)
	return err
}

// List returns every record of the collection matching opts, fetching
// pages until the listing is exhausted.
func (g *RemoteGateway) List(ctx context.Context, collection string, opts ListOptions) ([]Record, error) {
	var all []Record

	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("perPage", strconv.Itoa(listPageSize))
		if opts.Filter != "" {
			q.Set("filter", opts.Filter)
		}
		if opts.Sort != "" {
			q.Set("sort", opts.Sort)
		}

		path := fmt.Sprintf("/api/collections/%s/records?%s", url.PathEscape(collection), q.Encode())
		body, err := g.do(ctx, "list", http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		var resp listResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &GatewayError{Operation: "list", Err: fmt.Errorf("decode response: %w", err)}
		}

		all = append(all, resp.Items...)
		if resp.TotalPages == 0 || page >= resp.TotalPages || len(resp.Items) == 0 {
			break
		}
	}

	return all, nil
}

// doRecord performs a request whose response body is a single record.
func (g *RemoteGateway) doRecord(ctx context.Context, operation, method, path string, record Record) (Record, error) {
	body, err := g.do(ctx, operation, method, path, record)
	if err != nil {
		return nil, err
	}

	var result Record
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &GatewayError{Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return result, nil
}

// do performs an HTTP request and returns the response body. Non-2xx
// statuses become *GatewayError; a 404 additionally satisfies
// IsNotFound.
func (g *RemoteGateway) do(ctx context.Context, operation, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, &GatewayError{Operation: operation, Err: fmt.Errorf("encode request: %w", err)}
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return nil, &GatewayError{Operation: operation, Err: err}
	}
	g.setHeaders(req)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	g.log.LogRequest(method, g.baseURL+path, raw)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Operation: operation, StatusCode: resp.StatusCode, Err: err}
	}

	g.log.LogResponse(resp.StatusCode, resp.Status, respBody)

	if resp.StatusCode == http.StatusNotFound {
		return nil, &GatewayError{Operation: operation, StatusCode: resp.StatusCode, Err: ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	return respBody, nil
}

func (g *RemoteGateway) setHeaders(req *http.Request) {
	if g.authToken != "" {
		req.Header.Set("Authorization", g.authToken)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("User-Agent", "foundations-client/1.0")
}
