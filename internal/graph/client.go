package graph

import (
	"context"
	"errors"
)

// Client is the contract the repository needs from the graph store. Each
// Execute call runs exactly one parameterized cypher statement inside its
// own session, which is released before the call returns.
type Client interface {
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the fully consumed records of one statement.
type Result struct {
	Records []Record
}

// Record maps return aliases to their values. Values are either driver
// entities (nodes, relationships) or plain scalars.
type Record map[string]any

// Options configures a client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
