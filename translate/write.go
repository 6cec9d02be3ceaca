package translate

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
	"github.com/golemdb/golemdb-sql-go/serialize"
	"github.com/golemdb/golemdb-sql-go/sql"
	"github.com/golemdb/golemdb-sql-go/store"
)

const (
	generatorAutoincrement    = "autoincrement"
	generatorCurrentTimestamp = "current_timestamp"
)

// Insert lowers a resolved INSERT into a single entity create, resolving
// any DEFAULT generator tags first (spec §4.4.1). It returns the row as
// finally written, so a caller can report a generated autoincrement id
// back to the statement's issuer.
func Insert(ctx context.Context, client store.Client, appID string, detail *sql.InsertDetail) (map[string]any, error) {
	values := make(map[string]any, len(detail.Values))
	for k, v := range detail.Values {
		values[k] = v
	}

	for _, col := range detail.Table.Columns {
		if !detail.Defaulted[col.Name] {
			continue
		}
		resolved, err := resolveDefault(ctx, client, appID, detail.Table.Name, col)
		if err != nil {
			return nil, err
		}
		values[col.Name] = resolved
	}

	entity, err := serialize.EncodeRow(detail.Table, appID, values)
	if err != nil {
		return nil, err
	}
	if _, err := client.CreateEntities(ctx, []store.Entity{entity}); err != nil {
		return nil, golemerrors.OperationalError(err, "inserting into %q", detail.Table.Name)
	}
	return values, nil
}

// resolveDefault turns a column's raw DEFAULT text into a concrete,
// properly-typed value: a generated id for "autoincrement", the current
// time for "current_timestamp", or the literal parsed per the column's
// declared type.
func resolveDefault(ctx context.Context, client store.Client, appID, table string, col core.Column) (any, error) {
	switch col.Default {
	case generatorAutoincrement:
		return nextCounterValue(ctx, client, appID, table, col.Name)
	case generatorCurrentTimestamp:
		return time.Now().Unix(), nil
	default:
		return parseDefaultLiteral(col, col.Default)
	}
}

func parseDefaultLiteral(col core.Column, raw string) (any, error) {
	switch col.SQLType {
	case core.TinyInt, core.SmallInt, core.Integer, core.BigInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, golemerrors.DataError("column %q: malformed integer default %q", col.Name, raw)
		}
		return n, nil
	case core.Boolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, golemerrors.DataError("column %q: malformed boolean default %q", col.Name, raw)
		}
		return b, nil
	case core.Float, core.Double, core.Real:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, golemerrors.DataError("column %q: malformed numeric default %q", col.Name, raw)
		}
		return f, nil
	default:
		return raw, nil
	}
}

// counterPayload mirrors the counter's numeric annotation in the entity
// payload too: QueryResult only ever surfaces an entity's storage_value
// (spec §6.1's query_entities contract has no metadata/annotation leg), so
// the payload is the only channel nextCounterValue can read the value back
// through, even though the annotation is the canonically indexed copy of
// it.
type counterPayload struct {
	Next uint64 `json:"next"`
}

// nextCounterValue implements spec §4.4.1's autoincrement policy exactly:
// a singleton counter entity per app/table/column, read, incremented, and
// written back without any locking. Concurrent inserts can observe the
// same counter value and mint duplicate primary keys; callers needing
// uniqueness under concurrency must supply explicit ids (spec §7/§9). The
// counter's value lives in the numeric annotation `next` (spec §4.4.1),
// mirrored into the payload so it survives the round trip through
// QueryEntities.
func nextCounterValue(ctx context.Context, client store.Client, appID, table, column string) (int64, error) {
	relation := appID + "." + table + "." + column
	predicate := quoteEq(serialize.AnnotationRowType, serialize.RowTypeCounter) +
		" && " + quoteEq(serialize.AnnotationRelation, relation)

	results, err := client.QueryEntities(ctx, predicate)
	if err != nil {
		return 0, golemerrors.OperationalError(err, "reading autoincrement counter for %q", relation)
	}

	var key []byte
	var next uint64 = 1
	if len(results) > 0 {
		var payload counterPayload
		if err := json.Unmarshal(results[0].StorageValue, &payload); err != nil {
			return 0, golemerrors.InternalError("malformed counter entity for %q: %v", relation, err)
		}
		key = results[0].EntityKey
		next = payload.Next
	}

	body, err := json.Marshal(counterPayload{Next: next + 1})
	if err != nil {
		return 0, golemerrors.InternalError("marshaling counter entity for %q: %v", relation, err)
	}
	entity := store.Entity{
		Payload: body,
		StringAnnotations: map[string]string{
			serialize.AnnotationRowType:  serialize.RowTypeCounter,
			serialize.AnnotationRelation: relation,
		},
		NumericAnnotations: map[string]uint64{
			serialize.AnnotationCounterNext: next + 1,
		},
	}

	if key == nil {
		if _, err := client.CreateEntities(ctx, []store.Entity{entity}); err != nil {
			return 0, golemerrors.OperationalError(err, "creating autoincrement counter for %q", relation)
		}
	} else {
		if _, err := client.UpdateEntities(ctx, []store.Update{{EntityKey: key, Entity: entity}}); err != nil {
			return 0, golemerrors.OperationalError(err, "updating autoincrement counter for %q", relation)
		}
	}

	return int64(next), nil
}

// Update lowers a resolved UPDATE: the matching rows are found by
// re-running the WHERE clause as a SELECT-shaped lookup, then each
// matching entity is rewritten with the SET assignments applied.
func Update(ctx context.Context, client store.Client, appID string, detail *sql.UpdateDetail) (int, error) {
	matches, err := findMatchingEntities(ctx, client, appID, detail.Table, detail.Where)
	if err != nil {
		return 0, err
	}

	updates := make([]store.Update, 0, len(matches))
	for _, m := range matches {
		row, err := serialize.DecodeRow(detail.Table, m.result.StorageValue)
		if err != nil {
			return 0, err
		}
		for col, val := range detail.Sets {
			row[col] = val
		}
		entity, err := serialize.EncodeRow(detail.Table, appID, row)
		if err != nil {
			return 0, err
		}
		updates = append(updates, store.Update{EntityKey: m.result.EntityKey, Entity: entity})
	}

	if len(updates) == 0 {
		return 0, nil
	}
	if _, err := client.UpdateEntities(ctx, updates); err != nil {
		return 0, golemerrors.OperationalError(err, "updating %q", detail.Table.Name)
	}
	return len(updates), nil
}

// Delete lowers a resolved DELETE the same way: locate matching entities,
// then delete each by key.
func Delete(ctx context.Context, client store.Client, appID string, detail *sql.DeleteDetail) (int, error) {
	matches, err := findMatchingEntities(ctx, client, appID, detail.Table, detail.Where)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	keys := make([][]byte, len(matches))
	for i, m := range matches {
		keys[i] = m.result.EntityKey
	}
	if _, err := client.DeleteEntities(ctx, keys); err != nil {
		return 0, golemerrors.OperationalError(err, "deleting from %q", detail.Table.Name)
	}
	return len(keys), nil
}

type matchedEntity struct {
	result store.QueryResult
	row    map[string]any
}

// findMatchingEntities pushes what it can of where into the store's query
// and applies any residual as a post-filter over the decoded rows,
// shared by the UPDATE and DELETE write paths and by Select in read.go.
func findMatchingEntities(ctx context.Context, client store.Client, appID string, tbl *core.Table, where sql.ResolvedExpr) ([]matchedEntity, error) {
	translated, err := TranslateWhere(tbl, appID, where)
	if err != nil {
		return nil, err
	}

	results, err := client.QueryEntities(ctx, translated.Predicate)
	if err != nil {
		return nil, golemerrors.OperationalError(err, "querying %q", tbl.Name)
	}

	matched := make([]matchedEntity, 0, len(results))
	for _, r := range results {
		row, err := serialize.DecodeRow(tbl, r.StorageValue)
		if err != nil {
			return nil, err
		}
		ok, err := MatchesResidual(row, translated.Residual)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, matchedEntity{result: r, row: row})
		}
	}
	return matched, nil
}
