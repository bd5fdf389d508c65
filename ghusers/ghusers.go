// Package ghusers finds the GitHub username of a commit author.
package ghusers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/go-github/v57/github"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jeffrom/shipit/config"
)

// Client looks up usernames with the GitHub user search API. Results are
// cached for the lifetime of the client, and concurrent lookups of the same
// email share one request.
type Client struct {
	cfg     config.Config
	client  *github.Client
	limiter *rate.Limiter
	group   singleflight.Group

	mu    sync.Mutex
	cache map[string]string
}

// New returns a client authenticated with cfg.GithubToken.
func New(cfg config.Config) *Client {
	return NewWithClient(cfg, github.NewClient(nil).WithAuthToken(cfg.GithubToken))
}

func NewWithClient(cfg config.Config, client *github.Client) *Client {
	limit := rate.Inf
	if cfg.LookupRate > 0 {
		limit = rate.Limit(cfg.LookupRate)
	}
	return &Client{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		cache:   make(map[string]string),
	}
}

// Username returns the login of the first user matching email, or an empty
// string when nobody matches.
func (c *Client) Username(ctx context.Context, email string) (string, error) {
	c.mu.Lock()
	name, ok := c.cache[email]
	c.mu.Unlock()
	if ok {
		return name, nil
	}

	v, err, _ := c.group.Do(email, func() (interface{}, error) {
		name, err := c.search(ctx, email)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.cache[email] = name
		c.mu.Unlock()
		return name, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) search(ctx context.Context, email string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ghusers: rate limiter: %w", err)
	}
	c.cfg.Debugf("searching github users for %s", email)

	res, _, err := c.client.Search.Users(ctx, email, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return "", fmt.Errorf("ghusers: search %s: %w", email, err)
	}
	if len(res.Users) == 0 {
		return "", nil
	}
	return res.Users[0].GetLogin(), nil
}
