package solr

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Pool hands out one shared Client per base URL. The first concurrent
// callers for a URL share a single construction.
type Pool struct {
	timeout time.Duration
	factory func(Config) (*Client, error)

	mu      sync.RWMutex
	clients map[string]*Client
	group   singleflight.Group
}

// NewPool creates an empty pool; clients get the given request timeout.
func NewPool(timeout time.Duration) *Pool {
	return &Pool{
		timeout: timeout,
		factory: NewClient,
		clients: make(map[string]*Client),
	}
}

// Get returns the client for baseURL, creating it on first use.
func (p *Pool) Get(baseURL string) (*Client, error) {
	key := strings.TrimRight(baseURL, "/")

	if c := p.lookup(key); c != nil {
		return c, nil
	}

	v, err, _ := p.group.Do(key, func() (any, error) {
		if c := p.lookup(key); c != nil {
			return c, nil
		}
		c, err := p.factory(Config{BaseURL: key, Timeout: p.timeout})
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.clients[key] = c
		p.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("solr client for %s: %w", key, err)
	}
	return v.(*Client), nil
}

func (p *Pool) lookup(key string) *Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clients[key]
}

// Len returns the number of cached clients.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}

// Close closes every cached client and empties the pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	clients := p.clients
	p.clients = make(map[string]*Client)
	p.mu.Unlock()

	var errs []error
	for _, c := range clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
