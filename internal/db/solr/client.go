// Package solr talks to a Solr core over its HTTP JSON API.
package solr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/recdex/internal/db"
)

// Compile-time check: Client implements db.Engine.
var _ db.Engine = (*Client)(nil)

const maxErrorBody = 512

// Config holds connection parameters for one Solr core.
type Config struct {
	BaseURL string // e.g. http://localhost:8983/solr/coracore
	Timeout time.Duration
}

// Client is a Solr core client. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient validates the base URL and creates a client.
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", cfg.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: host is required", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the normalized core URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Add sends documents to the update handler without committing.
func (c *Client) Add(ctx context.Context, docs ...db.Document) error {
	if len(docs) == 0 {
		return nil
	}
	payload := make([]map[string]any, len(docs))
	for i, d := range docs {
		payload[i] = documentToJSON(d)
	}
	return c.update(ctx, db.OpAdd, payload)
}

// Commit makes pending writes visible to searchers.
func (c *Client) Commit(ctx context.Context) error {
	return c.update(ctx, db.OpCommit, map[string]any{"commit": map[string]any{}})
}

// DeleteByID removes a document by its unique key.
func (c *Client) DeleteByID(ctx context.Context, id string) error {
	return c.update(ctx, db.OpDelete, map[string]any{"delete": map[string]string{"id": id}})
}

// Query runs a select request. Only Q, FilterQueries, Rows, Start and
// Fields are sent; Solr parses the query syntax itself.
func (c *Client) Query(ctx context.Context, q *db.Query) (*db.Response, error) {
	form := url.Values{}
	form.Set("q", q.Q)
	for _, fq := range q.FilterQueries {
		if fq != "" {
			form.Add("fq", fq)
		}
	}
	form.Set("rows", strconv.Itoa(q.Rows))
	form.Set("start", strconv.Itoa(q.Start))
	if len(q.Fields) > 0 {
		form.Set("fl", strings.Join(q.Fields, ","))
	}
	form.Set("wt", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/select",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, db.OpSelect)
	if err != nil {
		return nil, err
	}
	if body.Response == nil {
		return nil, &db.Error{Op: db.OpSelect, Msg: "response without result section"}
	}

	resp := &db.Response{
		NumFound: body.Response.NumFound,
		Hits:     make([]db.Hit, len(body.Response.Docs)),
	}
	for i, doc := range body.Response.Docs {
		resp.Hits[i] = hitFromJSON(doc)
	}
	return resp, nil
}

// Ping calls the core's ping handler.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/admin/ping?wt=json", http.NoBody)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if _, err := c.do(req, db.OpPing); err != nil {
		return err
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) update(ctx context.Context, op string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &db.Error{Op: op, Err: fmt.Errorf("encode update: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/update?wt=json", bytes.NewReader(data))
	if err != nil {
		return &db.Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req, op)
	return err
}

// solrBody is the subset of a Solr JSON response we read.
type solrBody struct {
	ResponseHeader struct {
		Status int `json:"status"`
	} `json:"responseHeader"`
	Response *struct {
		NumFound int64            `json:"numFound"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
	Error *struct {
		Msg  string `json:"msg"`
		Code int    `json:"code"`
	} `json:"error"`
}

func (c *Client) do(req *http.Request, op string) (*solrBody, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &db.Error{Op: op, Code: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	var body solrBody
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	decodeErr := dec.Decode(&body)

	if body.Error != nil {
		code := body.Error.Code
		if code == 0 {
			code = resp.StatusCode
		}
		return nil, &db.Error{Op: op, Code: code, Msg: body.Error.Msg}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &db.Error{Op: op, Code: resp.StatusCode, Msg: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, snippet(raw))}
	}
	if decodeErr != nil {
		return nil, &db.Error{Op: op, Code: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	return &body, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}

func documentToJSON(d db.Document) map[string]any {
	m := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		switch len(f.Values) {
		case 0:
		case 1:
			m[f.Name] = f.Values[0]
		default:
			m[f.Name] = f.Values
		}
	}
	return m
}

func hitFromJSON(doc map[string]any) db.Hit {
	h := make(db.Hit, len(doc))
	for k, v := range doc {
		switch vv := v.(type) {
		case []any:
			values := make([]string, 0, len(vv))
			for _, e := range vv {
				values = append(values, scalarString(e))
			}
			h[k] = values
		default:
			h[k] = []string{scalarString(vv)}
		}
	}
	return h
}

func scalarString(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case json.Number:
		return vv.String()
	case bool:
		return strconv.FormatBool(vv)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(vv)
		return string(b)
	}
}
