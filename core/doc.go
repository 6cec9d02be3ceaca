// Package core provides the catalog entity types shared across the schema
// catalog, SQL analyzer, and query translator: Schema, Table, Column, and
// Index, plus the SQLType enumeration and its identifier-format invariant.
//
// # Column Types
//
// Supported SQL types:
//   - TinyInt, SmallInt, Integer, BigInt: signed integers of varying width
//   - Boolean
//   - DateTime: mapped to Unix epoch seconds, pre-epoch values rejected
//   - Decimal: fixed precision/scale, encoded as an order-preserving string
//   - Varchar, Char, Text: UTF-8 strings, Varchar/Char length-limited
//   - Float, Double, Real, Blob, Varbinary: payload-only, never indexable
//
// # Table Definition
//
//	table := core.Table{
//	    Name: "users",
//	    Columns: []core.Column{
//	        {Name: "id", SQLType: core.BigInt, Indexed: true},
//	        {Name: "name", SQLType: core.Varchar, Precision: 255},
//	        {Name: "active", SQLType: core.Boolean, Indexed: true},
//	    },
//	    PrimaryKey: "id",
//	}
package core
