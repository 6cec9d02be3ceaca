// Package store defines the boundary to the backing entity store: an opaque
// asynchronous RPC surface (spec §6.1) that the core never implements more
// than an interface for. mock.go provides a deterministic in-memory Client
// for tests; rpcclient.go provides a thin transport for a real deployment.
package store

import "context"

// Entity is the backing store's unit of storage: opaque payload bytes, a
// block-based time-to-live, and two maps of typed, queryable annotations.
type Entity struct {
	Payload            []byte
	BTL                uint64
	StringAnnotations  map[string]string
	NumericAnnotations map[string]uint64
}

// Update is an Entity replacement targeting an existing key.
type Update struct {
	EntityKey []byte
	Entity    Entity
}

// Receipt is returned for every create/update/delete call.
type Receipt struct {
	EntityKey       []byte
	ExpirationBlock uint64
}

// QueryResult is one row of a query_entities response: the entity's key and
// its raw stored payload, ready for the row serializer to decode.
type QueryResult struct {
	EntityKey    []byte
	StorageValue []byte
}

// Client is the backing store's asynchronous RPC surface (spec §6.1). Every
// method may suspend; callers are expected to await each call individually
// since the store offers no batching guarantees beyond call-level atomicity
// per entity.
type Client interface {
	CreateEntities(ctx context.Context, entities []Entity) ([]Receipt, error)
	UpdateEntities(ctx context.Context, updates []Update) ([]Receipt, error)
	DeleteEntities(ctx context.Context, keys [][]byte) ([]Receipt, error)
	QueryEntities(ctx context.Context, predicate string) ([]QueryResult, error)
	GetAccountAddress(ctx context.Context) (string, error)
}
