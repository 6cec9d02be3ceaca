package sql

// StatementType classifies a parsed Statement.
type StatementType int

const (
	CreateTableStatementType StatementType = iota
	DropTableStatementType
	CreateIndexStatementType
	DropIndexStatementType
	AlterTableAddColumnStatementType
	AlterTableAddConstraintStatementType
	InsertStatementType
	UpdateStatementType
	DeleteStatementType
	SelectStatementType
	ShowTablesStatementType
	DescribeTableStatementType
	SelectConstantStatementType
)

// Statement is any parsed SQL statement.
type Statement interface {
	Type() StatementType
}

// ColumnDef is a column declaration inside CREATE TABLE / ALTER TABLE ADD
// COLUMN: an identifier, a raw type declaration string (e.g. "DECIMAL(10,2)")
// left for the analyzer to resolve via catalog.ParseColumnType, nullability,
// an optional default expression, and whether it should be indexed.
type ColumnDef struct {
	Name       string
	TypeDecl   string
	Nullable   bool
	Default    string
	HasDefault bool
	Indexed    bool
}

type CreateTableStatement struct {
	Table      string
	Columns    []ColumnDef
	PrimaryKey string
}

func (s CreateTableStatement) Type() StatementType { return CreateTableStatementType }

type DropTableStatement struct {
	Table string
}

func (s DropTableStatement) Type() StatementType { return DropTableStatementType }

// CreateIndexStatement parses "CREATE INDEX name ON table(column)". A
// single-column index is the only shape the catalog can express (spec
// §3.1); UNIQUE is accepted syntactically but not enforced at this layer.
type CreateIndexStatement struct {
	Name   string
	Table  string
	Column string
	Unique bool
}

func (s CreateIndexStatement) Type() StatementType { return CreateIndexStatementType }

type DropIndexStatement struct {
	Name  string
	Table string
}

func (s DropIndexStatement) Type() StatementType { return DropIndexStatementType }

type AlterTableAddColumnStatement struct {
	Table  string
	Column ColumnDef
}

func (s AlterTableAddColumnStatement) Type() StatementType {
	return AlterTableAddColumnStatementType
}

// AlterTableAddConstraintStatement covers "ALTER TABLE t ADD CONSTRAINT ...
// PRIMARY KEY (column)", the only constraint form the catalog can express
// after table creation.
type AlterTableAddConstraintStatement struct {
	Table  string
	Column string
}

func (s AlterTableAddConstraintStatement) Type() StatementType {
	return AlterTableAddConstraintStatementType
}

// ValueExpr is a literal or a named parameter reference ("%(name)s"),
// resolved to a concrete SQL value at analysis time using the caller's
// parameter mapping (spec §6.2).
type ValueExpr struct {
	Param   string
	Literal *Literal
}

// LiteralKind tags the Go type held by a Literal.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBool
	LiteralNull
)

type Literal struct {
	Kind LiteralKind
	Str  string
	Int  int64
	Flt  float64
	Bool bool
}

type InsertStatement struct {
	Table   string
	Columns []string
	Values  []ValueExpr
}

func (s InsertStatement) Type() StatementType { return InsertStatementType }

type SetClause struct {
	Column string
	Value  ValueExpr
}

type UpdateStatement struct {
	Table string
	Sets  []SetClause
	Where Expr
}

func (s UpdateStatement) Type() StatementType { return UpdateStatementType }

type DeleteStatement struct {
	Table string
	Where Expr
}

func (s DeleteStatement) Type() StatementType { return DeleteStatementType }

type OrderTerm struct {
	Column     string
	Descending bool
}

type SelectStatement struct {
	Table   string
	Columns []string // nil/empty means "*"
	Where   Expr
	OrderBy []OrderTerm
	Limit   *int
	Offset  *int
}

func (s SelectStatement) Type() StatementType { return SelectStatementType }

type ShowTablesStatement struct{}

func (s ShowTablesStatement) Type() StatementType { return ShowTablesStatementType }

type DescribeTableStatement struct {
	Table string
}

func (s DescribeTableStatement) Type() StatementType { return DescribeTableStatementType }

// SelectConstantStatement covers "SELECT <literal-expr>" with no FROM
// clause, the introspection-surface form used by drivers to probe
// connectivity (e.g. "SELECT 1").
type SelectConstantStatement struct {
	Value ValueExpr
}

func (s SelectConstantStatement) Type() StatementType { return SelectConstantStatementType }

// CompareOp enumerates the comparison operators a WHERE leaf can use.
type CompareOp int

const (
	OpEquals CompareOp = iota
	OpNotEquals
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual
	OpLike
)

// Expr is a node in the predicate tree WHERE clauses compile to: leaves
// (Comparison, IsNull) and combinators (And, Or, Not). The analyzer keeps
// NOT nodes as they are; the translator pushes NOT to the leaves via De
// Morgan's laws while lowering (spec §4.4.2).
type Expr interface {
	exprNode()
}

type Comparison struct {
	Column string
	Op     CompareOp
	Value  ValueExpr
}

func (Comparison) exprNode() {}

type IsNull struct {
	Column string
	Negate bool
}

func (IsNull) exprNode() {}

type And struct {
	Left, Right Expr
}

func (And) exprNode() {}

type Or struct {
	Left, Right Expr
}

func (Or) exprNode() {}

type Not struct {
	Expr Expr
}

func (Not) exprNode() {}
