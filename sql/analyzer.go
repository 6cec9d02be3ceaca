package sql

import (
	"github.com/golemdb/golemdb-sql-go/catalog"
	"github.com/golemdb/golemdb-sql-go/core"
	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// Analyzer resolves a parsed Statement against a schema snapshot, binding
// named parameters to concrete values and checking table/column identifiers,
// producing a Plan the translate/serialize layer can execute without further
// reference to SQL syntax.
type Analyzer struct {
	schema *core.Schema
}

func NewAnalyzer(schema *core.Schema) *Analyzer {
	return &Analyzer{schema: schema}
}

// Analyze binds params (keyed by name, without the "%()s" wrapping) into
// stmt and resolves every identifier against the analyzer's schema.
func (a *Analyzer) Analyze(stmt Statement, params map[string]any) (*Plan, error) {
	switch s := stmt.(type) {
	case CreateTableStatement:
		return a.analyzeCreateTable(s)
	case DropTableStatement:
		return a.analyzeDropTable(s)
	case CreateIndexStatement:
		return a.analyzeCreateIndex(s)
	case DropIndexStatement:
		return a.analyzeDropIndex(s)
	case AlterTableAddColumnStatement:
		return a.analyzeAlterAddColumn(s)
	case AlterTableAddConstraintStatement:
		return a.analyzeAlterAddConstraint(s)
	case InsertStatement:
		return a.analyzeInsert(s, params)
	case UpdateStatement:
		return a.analyzeUpdate(s, params)
	case DeleteStatement:
		return a.analyzeDelete(s, params)
	case SelectStatement:
		return a.analyzeSelect(s, params)
	case ShowTablesStatement:
		return &Plan{Kind: ShowTablesPlan}, nil
	case DescribeTableStatement:
		return a.analyzeDescribeTable(s)
	case SelectConstantStatement:
		return a.analyzeSelectConstant(s, params)
	default:
		return nil, golemerrors.InternalError("unrecognized statement type %T", stmt)
	}
}

// --- DDL ---------------------------------------------------------------

func (a *Analyzer) analyzeCreateTable(s CreateTableStatement) (*Plan, error) {
	tbl := core.Table{Name: s.Table, PrimaryKey: s.PrimaryKey}
	for _, cd := range s.Columns {
		col, err := columnDefToCore(cd)
		if err != nil {
			return nil, err
		}
		tbl.Columns = append(tbl.Columns, col)
	}
	if tbl.PrimaryKey != "" {
		for i := range tbl.Columns {
			if tbl.Columns[i].Name == tbl.PrimaryKey {
				tbl.Columns[i].Indexed = true
			}
		}
	}

	return &Plan{
		Kind: DdlPlan,
		Ddl: &DdlDetail{
			Message: "create table " + s.Table,
			Mutate: func(schema *core.Schema) error {
				return schema.AddTable(tbl)
			},
		},
	}, nil
}

func columnDefToCore(cd ColumnDef) (core.Column, error) {
	baseType, precision, scale, length, err := catalog.ParseColumnType(cd.TypeDecl)
	if err != nil {
		return core.Column{}, err
	}
	sqlType, err := catalog.ResolveSQLType(baseType)
	if err != nil {
		return core.Column{}, err
	}

	col := core.Column{
		Name:     cd.Name,
		SQLType:  sqlType,
		Nullable: cd.Nullable,
		Default:  cd.Default,
		Indexed:  cd.Indexed,
	}
	if sqlType == core.Decimal {
		p, sc, err := catalog.GetDecimalPrecisionScale(cd.TypeDecl)
		if err != nil {
			return core.Column{}, err
		}
		col.Precision, col.Scale = p, sc
	} else if precision != nil {
		col.Precision = *precision
	}
	if length != nil {
		col.Precision = *length
	}
	if scale != nil && sqlType != core.Decimal {
		col.Scale = *scale
	}
	return col, nil
}

func (a *Analyzer) analyzeDropTable(s DropTableStatement) (*Plan, error) {
	return &Plan{
		Kind: DdlPlan,
		Ddl: &DdlDetail{
			Message: "drop table " + s.Table,
			Mutate: func(schema *core.Schema) error {
				return schema.DropTable(s.Table)
			},
		},
	}, nil
}

func (a *Analyzer) analyzeCreateIndex(s CreateIndexStatement) (*Plan, error) {
	return &Plan{
		Kind: DdlPlan,
		Ddl: &DdlDetail{
			Message: "create index " + s.Name + " on " + s.Table,
			Mutate: func(schema *core.Schema) error {
				tbl, ok := schema.Table(s.Table)
				if !ok {
					return golemerrors.ProgrammingError("table %q does not exist", s.Table)
				}
				col, ok := tbl.Column(s.Column)
				if !ok {
					return golemerrors.ProgrammingError("table %q has no column %q", s.Table, s.Column)
				}
				if !col.SQLType.Indexable() {
					return golemerrors.ProgrammingError("column %q of type %s cannot be indexed", s.Column, col.SQLType)
				}
				for i := range tbl.Columns {
					if tbl.Columns[i].Name == s.Column {
						tbl.Columns[i].Indexed = true
					}
				}
				tbl.Indexes = append(tbl.Indexes, core.Index{Name: s.Name, ColumnName: s.Column})
				return nil
			},
		},
	}, nil
}

func (a *Analyzer) analyzeDropIndex(s DropIndexStatement) (*Plan, error) {
	return &Plan{
		Kind: DdlPlan,
		Ddl: &DdlDetail{
			Message: "drop index " + s.Name + " on " + s.Table,
			Mutate: func(schema *core.Schema) error {
				tbl, ok := schema.Table(s.Table)
				if !ok {
					return golemerrors.ProgrammingError("table %q does not exist", s.Table)
				}
				found := false
				var kept []core.Index
				for _, idx := range tbl.Indexes {
					if idx.Name == s.Name {
						found = true
						for i := range tbl.Columns {
							if tbl.Columns[i].Name == idx.ColumnName && tbl.Columns[i].Name != tbl.PrimaryKey {
								tbl.Columns[i].Indexed = false
							}
						}
						continue
					}
					kept = append(kept, idx)
				}
				if !found {
					return golemerrors.ProgrammingError("index %q does not exist on table %q", s.Name, s.Table)
				}
				tbl.Indexes = kept
				return nil
			},
		},
	}, nil
}

func (a *Analyzer) analyzeAlterAddColumn(s AlterTableAddColumnStatement) (*Plan, error) {
	col, err := columnDefToCore(s.Column)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Kind: DdlPlan,
		Ddl: &DdlDetail{
			Message: "alter table " + s.Table + " add column " + s.Column.Name,
			Mutate: func(schema *core.Schema) error {
				tbl, ok := schema.Table(s.Table)
				if !ok {
					return golemerrors.ProgrammingError("table %q does not exist", s.Table)
				}
				if _, exists := tbl.Column(col.Name); exists {
					return golemerrors.ProgrammingError("table %q already has column %q", s.Table, col.Name)
				}
				tbl.Columns = append(tbl.Columns, col)
				return nil
			},
		},
	}, nil
}

func (a *Analyzer) analyzeAlterAddConstraint(s AlterTableAddConstraintStatement) (*Plan, error) {
	return &Plan{
		Kind: DdlPlan,
		Ddl: &DdlDetail{
			Message: "alter table " + s.Table + " add primary key " + s.Column,
			Mutate: func(schema *core.Schema) error {
				tbl, ok := schema.Table(s.Table)
				if !ok {
					return golemerrors.ProgrammingError("table %q does not exist", s.Table)
				}
				if tbl.PrimaryKey != "" {
					return golemerrors.ProgrammingError("table %q already has a primary key", s.Table)
				}
				idx, ok := indexOfColumn(tbl.Columns, s.Column)
				if !ok {
					return golemerrors.ProgrammingError("table %q has no column %q", s.Table, s.Column)
				}
				tbl.Columns[idx].Indexed = true
				tbl.PrimaryKey = s.Column
				return tbl.Validate()
			},
		},
	}, nil
}

func indexOfColumn(cols []core.Column, name string) (int, bool) {
	for i, c := range cols {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// --- DML -----------------------------------------------------------------

func (a *Analyzer) resolveTable(name string) (*core.Table, error) {
	tbl, ok := a.schema.Table(name)
	if !ok {
		return nil, golemerrors.ProgrammingError("table %q does not exist", name)
	}
	return tbl, nil
}

func resolveValueExpr(v ValueExpr, params map[string]any) (any, error) {
	if v.Literal != nil {
		switch v.Literal.Kind {
		case LiteralString:
			return v.Literal.Str, nil
		case LiteralInt:
			return v.Literal.Int, nil
		case LiteralFloat:
			return v.Literal.Flt, nil
		case LiteralBool:
			return v.Literal.Bool, nil
		case LiteralNull:
			return nil, nil
		}
	}
	val, ok := params[v.Param]
	if !ok {
		return nil, golemerrors.ProgrammingError("missing value for parameter %q", v.Param)
	}
	return val, nil
}

// coerceValue checks a resolved value against a column's declared type,
// applying the same widening a codec Encode call would require (e.g. an
// int literal supplied for a DECIMAL column).
func coerceValue(col core.Column, v any) (any, error) {
	if v == nil {
		if !col.Nullable {
			return nil, golemerrors.IntegrityError("column %q is NOT NULL", col.Name)
		}
		return nil, nil
	}

	switch col.SQLType {
	case core.TinyInt, core.SmallInt, core.Integer, core.BigInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case float64:
			return nil, golemerrors.DataError("column %q expects an integer, got a float", col.Name)
		default:
			return nil, golemerrors.DataError("column %q expects an integer value", col.Name)
		}
	case core.Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, golemerrors.DataError("column %q expects a boolean value", col.Name)
	case core.Decimal:
		switch n := v.(type) {
		case string:
			return n, nil
		case int64:
			return formatIntAsDecimal(n), nil
		case float64:
			return nil, golemerrors.DataError("column %q: DECIMAL values must be supplied as strings or integers to avoid float rounding", col.Name)
		default:
			return nil, golemerrors.DataError("column %q expects a DECIMAL value", col.Name)
		}
	case core.DateTime:
		switch n := v.(type) {
		case int64, string:
			return n, nil
		default:
			return nil, golemerrors.DataError("column %q expects a DATETIME value", col.Name)
		}
	case core.Varchar, core.Char, core.Text:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, golemerrors.DataError("column %q expects a string value", col.Name)
	case core.Float, core.Double, core.Real:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		default:
			return nil, golemerrors.DataError("column %q expects a numeric value", col.Name)
		}
	case core.Blob, core.Varbinary:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, golemerrors.DataError("column %q expects binary data", col.Name)
	default:
		return v, nil
	}
}

func formatIntAsDecimal(n int64) string {
	if n < 0 {
		return "-" + formatIntAsDecimal(-n)
	}
	digits := [20]byte{}
	i := len(digits)
	if n == 0 {
		return "0"
	}
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

func (a *Analyzer) analyzeInsert(s InsertStatement, params map[string]any) (*Plan, error) {
	tbl, err := a.resolveTable(s.Table)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any, len(s.Columns))
	for i, colName := range s.Columns {
		col, ok := tbl.Column(colName)
		if !ok {
			return nil, golemerrors.ProgrammingError("table %q has no column %q", s.Table, colName)
		}
		raw, err := resolveValueExpr(s.Values[i], params)
		if err != nil {
			return nil, err
		}
		coerced, err := coerceValue(col, raw)
		if err != nil {
			return nil, err
		}
		values[colName] = coerced
	}

	defaulted := make(map[string]bool)
	for _, col := range tbl.Columns {
		if _, given := values[col.Name]; given {
			continue
		}
		if col.Default != "" {
			values[col.Name] = col.Default
			defaulted[col.Name] = true
			continue
		}
		if !col.Nullable && col.Name != tbl.PrimaryKey {
			return nil, golemerrors.IntegrityError("column %q is NOT NULL and has no default", col.Name)
		}
	}

	return &Plan{
		Kind:   InsertPlan,
		Insert: &InsertDetail{Table: tbl, Values: values, Defaulted: defaulted},
	}, nil
}

func (a *Analyzer) resolveExpr(tbl *core.Table, e Expr, params map[string]any) (ResolvedExpr, error) {
	if e == nil {
		return nil, nil
	}
	switch node := e.(type) {
	case Comparison:
		col, ok := tbl.Column(node.Column)
		if !ok {
			return nil, golemerrors.ProgrammingError("table %q has no column %q", tbl.Name, node.Column)
		}
		if !col.SQLType.Indexable() {
			return nil, golemerrors.NotSupportedError("column %s is not indexable", col.Name)
		}
		raw, err := resolveValueExpr(node.Value, params)
		if err != nil {
			return nil, err
		}
		var val any
		if node.Op == OpLike {
			str, ok := raw.(string)
			if !ok {
				return nil, golemerrors.ProgrammingError("LIKE requires a string pattern")
			}
			val = str
		} else {
			val, err = coerceValue(col, raw)
			if err != nil {
				return nil, err
			}
		}
		return ResolvedComparison{Column: node.Column, Op: node.Op, Value: val}, nil
	case IsNull:
		col, ok := tbl.Column(node.Column)
		if !ok {
			return nil, golemerrors.ProgrammingError("table %q has no column %q", tbl.Name, node.Column)
		}
		if !col.SQLType.Indexable() {
			return nil, golemerrors.NotSupportedError("column %s is not indexable", col.Name)
		}
		return ResolvedIsNull{Column: node.Column, Negate: node.Negate}, nil
	case And:
		l, err := a.resolveExpr(tbl, node.Left, params)
		if err != nil {
			return nil, err
		}
		r, err := a.resolveExpr(tbl, node.Right, params)
		if err != nil {
			return nil, err
		}
		return ResolvedAnd{Left: l, Right: r}, nil
	case Or:
		l, err := a.resolveExpr(tbl, node.Left, params)
		if err != nil {
			return nil, err
		}
		r, err := a.resolveExpr(tbl, node.Right, params)
		if err != nil {
			return nil, err
		}
		return ResolvedOr{Left: l, Right: r}, nil
	case Not:
		inner, err := a.resolveExpr(tbl, node.Expr, params)
		if err != nil {
			return nil, err
		}
		return ResolvedNot{Expr: inner}, nil
	default:
		return nil, golemerrors.InternalError("unrecognized expression node %T", e)
	}
}

func (a *Analyzer) analyzeUpdate(s UpdateStatement, params map[string]any) (*Plan, error) {
	tbl, err := a.resolveTable(s.Table)
	if err != nil {
		return nil, err
	}

	sets := make(map[string]any, len(s.Sets))
	for _, set := range s.Sets {
		col, ok := tbl.Column(set.Column)
		if !ok {
			return nil, golemerrors.ProgrammingError("table %q has no column %q", s.Table, set.Column)
		}
		if col.Name == tbl.PrimaryKey {
			return nil, golemerrors.ProgrammingError("cannot update primary key column %q", col.Name)
		}
		raw, err := resolveValueExpr(set.Value, params)
		if err != nil {
			return nil, err
		}
		coerced, err := coerceValue(col, raw)
		if err != nil {
			return nil, err
		}
		sets[set.Column] = coerced
	}

	where, err := a.resolveExpr(tbl, s.Where, params)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Kind:   UpdatePlan,
		Update: &UpdateDetail{Table: tbl, Sets: sets, Where: where},
	}, nil
}

func (a *Analyzer) analyzeDelete(s DeleteStatement, params map[string]any) (*Plan, error) {
	tbl, err := a.resolveTable(s.Table)
	if err != nil {
		return nil, err
	}
	where, err := a.resolveExpr(tbl, s.Where, params)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Kind:   DeletePlan,
		Delete: &DeleteDetail{Table: tbl, Where: where},
	}, nil
}

func (a *Analyzer) analyzeSelect(s SelectStatement, params map[string]any) (*Plan, error) {
	tbl, err := a.resolveTable(s.Table)
	if err != nil {
		return nil, err
	}

	for _, c := range s.Columns {
		if _, ok := tbl.Column(c); !ok {
			return nil, golemerrors.ProgrammingError("table %q has no column %q", s.Table, c)
		}
	}
	for _, ord := range s.OrderBy {
		if _, ok := tbl.Column(ord.Column); !ok {
			return nil, golemerrors.ProgrammingError("table %q has no column %q", s.Table, ord.Column)
		}
	}

	where, err := a.resolveExpr(tbl, s.Where, params)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Kind: SelectPlan,
		Select: &SelectDetail{
			Table:   tbl,
			Columns: s.Columns,
			Where:   where,
			OrderBy: s.OrderBy,
			Limit:   s.Limit,
			Offset:  s.Offset,
		},
	}, nil
}

func (a *Analyzer) analyzeDescribeTable(s DescribeTableStatement) (*Plan, error) {
	tbl, err := a.resolveTable(s.Table)
	if err != nil {
		return nil, err
	}
	return &Plan{Kind: DescribeTablePlan, DescribeTable: &DescribeTableDetail{Table: tbl}}, nil
}

func (a *Analyzer) analyzeSelectConstant(s SelectConstantStatement, params map[string]any) (*Plan, error) {
	val, err := resolveValueExpr(s.Value, params)
	if err != nil {
		return nil, err
	}
	return &Plan{Kind: SelectConstantPlan, SelectConstant: val}, nil
}
