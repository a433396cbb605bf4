package clink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/roach88/linkstore/internal/links"
)

// MenuTag is the reserved target for bare menu links stored through the
// legacy tagged-link path.
const MenuTag = 1000

// Client implements links.Store over the clink backend.
//
// The client holds no state beyond a counter for the tagged-link path; every
// call is an independent invocation and two clients pointed at the same
// database interleave at the whim of the OS scheduler.
type Client struct {
	runner Runner
	log    *slog.Logger
	seq    atomic.Int64
}

// New creates a client on top of the given runner. A nil logger falls back
// to slog.Default().
func New(runner Runner, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{runner: runner, log: logger}
}

// NewExec creates a client that shells out to the clink binary.
func NewExec(binary, dbPath string, logger *slog.Logger) *Client {
	return New(&ExecRunner{Binary: binary, DBPath: dbPath}, logger)
}

// run executes one query and returns its trimmed stdout. Diagnostic output
// without a fault is a warning, not a failure.
func (c *Client) run(ctx context.Context, query string, flags Flags) (string, error) {
	c.log.Debug("executing backend query", "query", query)
	stdout, stderr, err := c.runner.Run(ctx, query, flags)
	if err != nil {
		return "", err
	}
	if s := strings.TrimSpace(stderr); s != "" {
		c.log.Warn("backend produced diagnostics", "query", query, "stderr", s)
	}
	return strings.TrimSpace(stdout), nil
}

// Create inserts a new link and recovers the backend-assigned id from the
// change report.
func (c *Client) Create(ctx context.Context, source, target int64) (links.Link, error) {
	query := links.CreateQuery(source, target)
	out, err := c.run(ctx, query, Flags{Changes: true})
	if err != nil {
		return links.Link{}, err
	}

	created := links.ParseFirst(out)
	if created == nil {
		return links.Link{}, &Error{
			Code:    ErrCodeParseFailure,
			Message: "no created link in backend output",
			Query:   query,
		}
	}
	return *created, nil
}

// ReadAll returns every current link.
func (c *Client) ReadAll(ctx context.Context) ([]links.Link, error) {
	out, err := c.run(ctx, links.ReadAllQuery(), Flags{After: true})
	if err != nil {
		return nil, err
	}
	return links.Parse(out), nil
}

// ReadOne returns the link with the given id, or nil if absent.
func (c *Client) ReadOne(ctx context.Context, id int64) (*links.Link, error) {
	out, err := c.run(ctx, links.ReadOneQuery(id), Flags{After: true})
	if err != nil {
		return nil, err
	}
	parsed := links.Parse(out)
	if len(parsed) == 0 {
		return nil, nil
	}
	return &parsed[0], nil
}

// Update replaces the source and target of the link with the given id.
func (c *Client) Update(ctx context.Context, id, source, target int64) (links.Link, error) {
	query := links.UpdateQuery(id, source, target)
	if _, err := c.run(ctx, query, Flags{Changes: true}); err != nil {
		return links.Link{}, err
	}
	return links.Link{ID: id, Source: source, Target: target}, nil
}

// Delete removes the link with the given id. Deleting an absent id matches
// zero links on the backend side and succeeds.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.run(ctx, links.DeleteQuery(id), Flags{Changes: true})
	return err
}

// Clear removes every link, one delete per link. Not atomic: a failure
// partway leaves the backend partially cleared.
func (c *Client) Clear(ctx context.Context) error {
	all, err := c.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	for _, link := range all {
		if err := c.Delete(ctx, link.ID); err != nil {
			c.log.Error("clear interrupted", "id", link.ID, "error", err)
			return fmt.Errorf("clear link %d: %w", link.ID, err)
		}
	}
	return nil
}

// AppendTagged creates a link (n, tag) where n comes from a client-owned
// counter. The counter belongs to this client instance, not the process;
// two clients produce independent sequences.
func (c *Client) AppendTagged(ctx context.Context, tag int64) (links.Link, error) {
	n := c.seq.Add(1)
	return c.Create(ctx, n, tag)
}

// ListTagged returns every link whose target is the given tag.
func (c *Client) ListTagged(ctx context.Context, tag int64) ([]links.Link, error) {
	all, err := c.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	tagged := []links.Link{}
	for _, link := range all {
		if link.Target == tag {
			tagged = append(tagged, link)
		}
	}
	return tagged, nil
}
