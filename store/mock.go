package store

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/google/uuid"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// Mock is a deterministic in-memory Client, used by the translate and
// adapter test suites in place of a live RPC connection. Query evaluation
// runs the store's real predicate grammar (spec §6.1) against each stored
// entity's annotations, so tests exercise the exact fragment strings the
// translator emits rather than a stand-in comparison.
type Mock struct {
	mu       sync.RWMutex
	entities map[string]storedEntity
	blockNum uint64
}

type storedEntity struct {
	key    []byte
	entity Entity
}

func NewMock() *Mock {
	return &Mock{entities: make(map[string]storedEntity)}
}

// entityKey derives a content-address from the payload plus annotations
// when the payload is non-empty. Row entities never collide since every
// row payload embeds its own primary key, but two singleton entities of a
// different kind (e.g. autoincrement counters for two different tables,
// which both start from the identical payload `{"next":1}`) would collide
// on payload bytes alone; folding the annotations into the hash input
// distinguishes them by the relation they belong to. Empty payloads fall
// back to a random uuid.
func entityKey(e Entity) []byte {
	if len(e.Payload) == 0 {
		id := uuid.New()
		return id[:]
	}

	h := sha256.New()
	h.Write(e.Payload)

	strKeys := make([]string, 0, len(e.StringAnnotations))
	for k := range e.StringAnnotations {
		strKeys = append(strKeys, k)
	}
	sort.Strings(strKeys)
	for _, k := range strKeys {
		h.Write([]byte(k))
		h.Write([]byte(e.StringAnnotations[k]))
	}

	numKeys := make([]string, 0, len(e.NumericAnnotations))
	for k := range e.NumericAnnotations {
		numKeys = append(numKeys, k)
	}
	sort.Strings(numKeys)
	var buf [8]byte
	for _, k := range numKeys {
		h.Write([]byte(k))
		binary.BigEndian.PutUint64(buf[:], e.NumericAnnotations[k])
		h.Write(buf[:])
	}

	return h.Sum(nil)
}

func keyString(k []byte) string {
	return hex.EncodeToString(k)
}

func (m *Mock) CreateEntities(ctx context.Context, entities []Entity) ([]Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	receipts := make([]Receipt, 0, len(entities))
	for _, e := range entities {
		key := entityKey(e)
		m.blockNum++
		m.entities[keyString(key)] = storedEntity{key: key, entity: e}
		receipts = append(receipts, Receipt{EntityKey: key, ExpirationBlock: m.blockNum + e.BTL})
	}
	return receipts, nil
}

func (m *Mock) UpdateEntities(ctx context.Context, updates []Update) ([]Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	receipts := make([]Receipt, 0, len(updates))
	for _, u := range updates {
		ks := keyString(u.EntityKey)
		if _, ok := m.entities[ks]; !ok {
			return nil, golemerrors.OperationalError(nil, "update: unknown entity key %x", u.EntityKey)
		}
		m.blockNum++
		m.entities[ks] = storedEntity{key: u.EntityKey, entity: u.Entity}
		receipts = append(receipts, Receipt{EntityKey: u.EntityKey, ExpirationBlock: m.blockNum + u.Entity.BTL})
	}
	return receipts, nil
}

func (m *Mock) DeleteEntities(ctx context.Context, keys [][]byte) ([]Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	receipts := make([]Receipt, 0, len(keys))
	for _, k := range keys {
		ks := keyString(k)
		if _, ok := m.entities[ks]; !ok {
			return nil, golemerrors.OperationalError(nil, "delete: unknown entity key %x", k)
		}
		delete(m.entities, ks)
		receipts = append(receipts, Receipt{EntityKey: k})
	}
	return receipts, nil
}

func (m *Mock) QueryEntities(ctx context.Context, predicate string) ([]QueryResult, error) {
	expr, err := parsePredicate(predicate)
	if err != nil {
		return nil, golemerrors.OperationalError(err, "malformed predicate %q", predicate)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []QueryResult
	for _, se := range m.entities {
		match, err := expr.eval(se.entity)
		if err != nil {
			return nil, golemerrors.OperationalError(err, "predicate evaluation failed")
		}
		if match {
			results = append(results, QueryResult{EntityKey: se.key, StorageValue: se.entity.Payload})
		}
	}
	return results, nil
}

func (m *Mock) GetAccountAddress(ctx context.Context) (string, error) {
	return "0x0000000000000000000000000000000000000000", nil
}
