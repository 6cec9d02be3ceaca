package sql

import (
	"strconv"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// Parser is a hand-rolled recursive-descent parser over the token stream a
// Lexer produces.
type Parser struct {
	lexer *Lexer
}

func NewParser(text string) *Parser {
	return &Parser{lexer: NewLexer(text)}
}

// Parse consumes the full token stream and returns the single statement it
// describes.
func (p *Parser) Parse() (Statement, error) {
	tok := p.lexer.NextToken()
	switch tok.Type {
	case Select:
		return p.parseSelect()
	case Insert:
		return p.parseInsert()
	case Update:
		return p.parseUpdate()
	case Delete:
		return p.parseDelete()
	case Create:
		return p.parseCreate()
	case Drop:
		return p.parseDrop()
	case Alter:
		return p.parseAlter()
	case Describe:
		return p.parseDescribe()
	case Show:
		return p.parseShow()
	default:
		return nil, golemerrors.ProgrammingError("unexpected token %s at start of statement", tok)
	}
}

func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	tok := p.lexer.NextToken()
	if tok.Type != tt {
		return tok, golemerrors.ProgrammingError("expected %s, got %s", what, tok)
	}
	return tok, nil
}

// --- CREATE / DROP / ALTER -------------------------------------------------

func (p *Parser) parseCreate() (Statement, error) {
	tok := p.lexer.NextToken()
	switch tok.Type {
	case Table:
		return p.parseCreateTable()
	case Unique:
		if _, err := p.expect(Index, "INDEX"); err != nil {
			return nil, err
		}
		return p.parseCreateIndex(true)
	case Index:
		return p.parseCreateIndex(false)
	default:
		return nil, golemerrors.ProgrammingError("expected TABLE or INDEX after CREATE, got %s", tok)
	}
}

func (p *Parser) parseCreateTable() (Statement, error) {
	var stmt CreateTableStatement

	name, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = name.Value

	if _, err := p.expect(ParenOpen, "'('"); err != nil {
		return nil, err
	}

	for {
		tok := p.lexer.NextToken()
		if tok.Type == Constraint {
			// CONSTRAINT name PRIMARY KEY (col) — the identifier name is
			// discarded; the catalog does not name constraints separately.
			if _, err := p.expect(Identifier, "constraint name"); err != nil {
				return nil, err
			}
			if _, err := p.expect(PrimaryKey, "PRIMARY KEY"); err != nil {
				return nil, err
			}
			if _, err := p.expect(ParenOpen, "'('"); err != nil {
				return nil, err
			}
			col, err := p.expect(Identifier, "column name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(ParenClose, "')'"); err != nil {
				return nil, err
			}
			stmt.PrimaryKey = col.Value
		} else if tok.Type == Identifier {
			col := ColumnDef{Name: tok.Value}

			typeTok, err := p.expect(Identifier, "column type")
			if err != nil {
				return nil, err
			}
			typeDecl := typeTok.Value
			if p.lexer.PeekToken().Type == ParenOpen {
				p.lexer.NextToken()
				var params []string
				for {
					n, err := p.parseNumericParam()
					if err != nil {
						return nil, err
					}
					params = append(params, n)
					next := p.lexer.NextToken()
					if next.Type == Comma {
						continue
					}
					if next.Type == ParenClose {
						break
					}
					return nil, golemerrors.ProgrammingError("expected ',' or ')' in type parameters, got %s", next)
				}
				typeDecl += "(" + joinComma(params) + ")"
			}
			col.TypeDecl = typeDecl
			col.Nullable = true

			for {
				peek := p.lexer.PeekToken()
				switch peek.Type {
				case NotNull:
					p.lexer.NextToken()
					col.Nullable = false
					continue
				case PrimaryKey:
					p.lexer.NextToken()
					col.Nullable = false
					col.Indexed = true
					stmt.PrimaryKey = col.Name
					continue
				case Unique:
					p.lexer.NextToken()
					col.Indexed = true
					continue
				case Default:
					p.lexer.NextToken()
					tok := p.lexer.NextToken()
					if tok.Type == Identifier {
						// A bare identifier here is a generator tag such as
						// autoincrement or current_timestamp, not a literal
						// value: it names a computation the write path runs
						// at insert time (spec §3.1/§4.4.1) rather than a
						// constant to store as-is.
						col.Default = tok.Value
						col.HasDefault = true
						continue
					}
					lit, err := p.tokenToValueExpr(tok)
					if err != nil {
						return nil, err
					}
					if lit.Literal != nil {
						col.Default = literalToString(*lit.Literal)
						col.HasDefault = true
					}
					continue
				}
				break
			}

			stmt.Columns = append(stmt.Columns, col)
		} else {
			return nil, golemerrors.ProgrammingError("expected column definition or CONSTRAINT, got %s", tok)
		}

		next := p.lexer.NextToken()
		if next.Type == Comma {
			continue
		}
		if next.Type == ParenClose {
			break
		}
		return nil, golemerrors.ProgrammingError("expected ',' or ')' in column list, got %s", next)
	}

	return stmt, nil
}

func (p *Parser) parseNumericParam() (string, error) {
	tok := p.lexer.NextToken()
	if tok.Type != Int {
		return "", golemerrors.ProgrammingError("expected integer type parameter, got %s", tok)
	}
	return tok.Value, nil
}

func joinComma(parts []string) string {
	out := ""
	for i, s := range parts {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

// parseCreateIndex parses "CREATE [UNIQUE] INDEX name ON table(column)".
func (p *Parser) parseCreateIndex(unique bool) (Statement, error) {
	name, err := p.expect(Identifier, "index name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	table, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ParenOpen, "'('"); err != nil {
		return nil, err
	}
	col, err := p.expect(Identifier, "column name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ParenClose, "')'"); err != nil {
		return nil, err
	}
	return CreateIndexStatement{Name: name.Value, Table: table.Value, Column: col.Value, Unique: unique}, nil
}

func (p *Parser) parseDrop() (Statement, error) {
	tok := p.lexer.NextToken()
	switch tok.Type {
	case Table:
		return p.parseDropTable()
	case Index:
		return p.parseDropIndex()
	default:
		return nil, golemerrors.ProgrammingError("expected TABLE or INDEX after DROP, got %s", tok)
	}
}

func (p *Parser) parseDropTable() (Statement, error) {
	name, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	return DropTableStatement{Table: name.Value}, nil
}

func (p *Parser) parseDropIndex() (Statement, error) {
	name, err := p.expect(Identifier, "index name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	table, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	return DropIndexStatement{Name: name.Value, Table: table.Value}, nil
}

func (p *Parser) parseAlter() (Statement, error) {
	if _, err := p.expect(Table, "TABLE"); err != nil {
		return nil, err
	}
	table, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Add, "ADD"); err != nil {
		return nil, err
	}

	tok := p.lexer.NextToken()
	if tok.Type == Constraint {
		if _, err := p.expect(Identifier, "constraint name"); err != nil {
			return nil, err
		}
		if _, err := p.expect(PrimaryKey, "PRIMARY KEY"); err != nil {
			return nil, err
		}
		if _, err := p.expect(ParenOpen, "'('"); err != nil {
			return nil, err
		}
		col, err := p.expect(Identifier, "column name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ParenClose, "')'"); err != nil {
			return nil, err
		}
		return AlterTableAddConstraintStatement{Table: table.Value, Column: col.Value}, nil
	}

	if tok.Type == Column {
		tok = p.lexer.NextToken()
	}
	if tok.Type != Identifier {
		return nil, golemerrors.ProgrammingError("expected column name after ADD, got %s", tok)
	}
	col := ColumnDef{Name: tok.Value, Nullable: true}

	typeTok, err := p.expect(Identifier, "column type")
	if err != nil {
		return nil, err
	}
	col.TypeDecl = typeTok.Value

	for {
		peek := p.lexer.PeekToken()
		if peek.Type == NotNull {
			p.lexer.NextToken()
			col.Nullable = false
			continue
		}
		if peek.Type == Default {
			p.lexer.NextToken()
			lit, err := p.parseValueExpr()
			if err != nil {
				return nil, err
			}
			if lit.Literal != nil {
				col.Default = literalToString(*lit.Literal)
				col.HasDefault = true
			}
			continue
		}
		break
	}

	return AlterTableAddColumnStatement{Table: table.Value, Column: col}, nil
}

// expectKeyword checks the next Identifier token's value case-insensitively;
// used for contextual keywords ("ON") that aren't reserved words in this
// grammar's token set.
func (p *Parser) expectKeyword(word string) error {
	tok := p.lexer.NextToken()
	if tok.Type != Identifier || !strEqualFold(tok.Value, word) {
		return golemerrors.ProgrammingError("expected %s, got %s", word, tok)
	}
	return nil
}

// --- INSERT / UPDATE / DELETE ---------------------------------------------

func (p *Parser) parseInsert() (Statement, error) {
	if _, err := p.expect(Into, "INTO"); err != nil {
		return nil, err
	}
	table, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	stmt := InsertStatement{Table: table.Value}

	if _, err := p.expect(ParenOpen, "'('"); err != nil {
		return nil, err
	}
	for {
		col, err := p.expect(Identifier, "column name")
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col.Value)
		tok := p.lexer.NextToken()
		if tok.Type == Comma {
			continue
		}
		if tok.Type == ParenClose {
			break
		}
		return nil, golemerrors.ProgrammingError("expected ',' or ')' in column list, got %s", tok)
	}

	if _, err := p.expect(Values, "VALUES"); err != nil {
		return nil, err
	}
	if _, err := p.expect(ParenOpen, "'('"); err != nil {
		return nil, err
	}
	for {
		v, err := p.parseValueExpr()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, v)
		tok := p.lexer.NextToken()
		if tok.Type == Comma {
			continue
		}
		if tok.Type == ParenClose {
			break
		}
		return nil, golemerrors.ProgrammingError("expected ',' or ')' in values list, got %s", tok)
	}

	if len(stmt.Columns) != len(stmt.Values) {
		return nil, golemerrors.ProgrammingError("INSERT column count (%d) does not match value count (%d)", len(stmt.Columns), len(stmt.Values))
	}

	return stmt, nil
}

func (p *Parser) parseUpdate() (Statement, error) {
	table, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	stmt := UpdateStatement{Table: table.Value}

	if _, err := p.expect(Set, "SET"); err != nil {
		return nil, err
	}
	for {
		col, err := p.expect(Identifier, "column name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(Equals, "'='"); err != nil {
			return nil, err
		}
		v, err := p.parseValueExpr()
		if err != nil {
			return nil, err
		}
		stmt.Sets = append(stmt.Sets, SetClause{Column: col.Value, Value: v})

		if p.lexer.PeekToken().Type == Comma {
			p.lexer.NextToken()
			continue
		}
		break
	}

	if p.lexer.PeekToken().Type == Where {
		p.lexer.NextToken()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	return stmt, nil
}

func (p *Parser) parseDelete() (Statement, error) {
	if _, err := p.expect(From, "FROM"); err != nil {
		return nil, err
	}
	table, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	stmt := DeleteStatement{Table: table.Value}

	if p.lexer.PeekToken().Type == Where {
		p.lexer.NextToken()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	return stmt, nil
}

// --- SELECT ----------------------------------------------------------------

func (p *Parser) parseSelect() (Statement, error) {
	tok := p.lexer.NextToken()

	if tok.Type != Wildcard && tok.Type != Identifier {
		// SELECT <literal> with no FROM: the introspection form.
		v, err := p.tokenToValueExpr(tok)
		if err == nil && p.lexer.PeekToken().Type == EOF {
			return SelectConstantStatement{Value: v}, nil
		}
		return nil, golemerrors.ProgrammingError("expected column list, '*', or a constant expression after SELECT, got %s", tok)
	}

	var columns []string
	if tok.Type == Wildcard {
		tok = p.lexer.NextToken()
	} else {
		columns = append(columns, tok.Value)
		for {
			tok = p.lexer.NextToken()
			if tok.Type == Comma {
				col, err := p.expect(Identifier, "column name")
				if err != nil {
					return nil, err
				}
				columns = append(columns, col.Value)
				continue
			}
			break
		}
	}

	if tok.Type != From {
		if len(columns) == 1 && tok.Type == EOF {
			// A bare literal-looking identifier with no FROM: not
			// expressible here since identifiers can't be constants;
			// surface the clearer error.
			return nil, golemerrors.ProgrammingError("expected FROM after column list")
		}
		return nil, golemerrors.ProgrammingError("expected FROM, got %s", tok)
	}

	table, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	stmt := SelectStatement{Table: table.Value, Columns: columns}

	tok = p.lexer.NextToken()
	if tok.Type == Where {
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
		tok = p.lexer.NextToken()
	}

	if tok.Type == Order {
		if _, err := p.expect(By, "BY"); err != nil {
			return nil, err
		}
		for {
			col, err := p.expect(Identifier, "column name")
			if err != nil {
				return nil, err
			}
			term := OrderTerm{Column: col.Value}
			peek := p.lexer.PeekToken()
			if peek.Type == Asc {
				p.lexer.NextToken()
			} else if peek.Type == Desc {
				p.lexer.NextToken()
				term.Descending = true
			}
			stmt.OrderBy = append(stmt.OrderBy, term)

			if p.lexer.PeekToken().Type == Comma {
				p.lexer.NextToken()
				continue
			}
			break
		}
		tok = p.lexer.NextToken()
	}

	if tok.Type == Limit {
		n, err := p.expect(Int, "integer")
		if err != nil {
			return nil, err
		}
		lim, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, golemerrors.ProgrammingError("invalid LIMIT value %q", n.Value)
		}
		stmt.Limit = &lim
		tok = p.lexer.NextToken()
	}

	if tok.Type == Offset {
		n, err := p.expect(Int, "integer")
		if err != nil {
			return nil, err
		}
		off, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, golemerrors.ProgrammingError("invalid OFFSET value %q", n.Value)
		}
		stmt.Offset = &off
	}

	return stmt, nil
}

// --- SHOW / DESCRIBE ---------------------------------------------------------

func (p *Parser) parseShow() (Statement, error) {
	if _, err := p.expect(Tables, "TABLES"); err != nil {
		return nil, err
	}
	return ShowTablesStatement{}, nil
}

func (p *Parser) parseDescribe() (Statement, error) {
	table, err := p.expect(Identifier, "table name")
	if err != nil {
		return nil, err
	}
	return DescribeTableStatement{Table: table.Value}, nil
}

// --- WHERE expressions -------------------------------------------------------

// parseExpr parses a full boolean expression at OR precedence.
func (p *Parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.lexer.PeekToken().Type == TokOr {
		p.lexer.NextToken()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.lexer.PeekToken().Type == TokAnd {
		p.lexer.NextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.lexer.PeekToken().Type == TokNot {
		p.lexer.NextToken()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Expr: inner}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expr, error) {
	if p.lexer.PeekToken().Type == ParenOpen {
		p.lexer.NextToken()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ParenClose, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	col, err := p.expect(Identifier, "column name")
	if err != nil {
		return nil, err
	}

	switch p.lexer.PeekToken().Type {
	case Is, Equals, NotEquals, LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual, Like:
	default:
		// A bare column reference in a boolean context, e.g. "WHERE active".
		return Comparison{Column: col.Value, Op: OpEquals, Value: ValueExpr{Literal: &Literal{Kind: LiteralBool, Bool: true}}}, nil
	}

	tok := p.lexer.NextToken()
	if tok.Type == Is {
		next := p.lexer.NextToken()
		if next.Type == NotNull {
			return IsNull{Column: col.Value, Negate: true}, nil
		}
		if next.Type == TokNot {
			if _, err := p.expect(Null, "NULL"); err != nil {
				return nil, err
			}
			return IsNull{Column: col.Value, Negate: true}, nil
		}
		if next.Type != Null {
			return nil, golemerrors.ProgrammingError("expected NULL or NOT NULL after IS, got %s", next)
		}
		return IsNull{Column: col.Value, Negate: false}, nil
	}

	var op CompareOp
	switch tok.Type {
	case Equals:
		op = OpEquals
	case NotEquals:
		op = OpNotEquals
	case LessThan:
		op = OpLessThan
	case GreaterThan:
		op = OpGreaterThan
	case LessThanOrEqual:
		op = OpLessThanOrEqual
	case GreaterThanOrEqual:
		op = OpGreaterThanOrEqual
	case Like:
		op = OpLike
	default:
		return nil, golemerrors.ProgrammingError("expected comparison operator after %s, got %s", col.Value, tok)
	}

	val, err := p.parseValueExpr()
	if err != nil {
		return nil, err
	}

	return Comparison{Column: col.Value, Op: op, Value: val}, nil
}

// parseValueExpr parses a single literal or named parameter.
func (p *Parser) parseValueExpr() (ValueExpr, error) {
	tok := p.lexer.NextToken()
	return p.tokenToValueExpr(tok)
}

func (p *Parser) tokenToValueExpr(tok Token) (ValueExpr, error) {
	switch tok.Type {
	case NamedParam:
		return ValueExpr{Param: tok.Value}, nil
	case String:
		return ValueExpr{Literal: &Literal{Kind: LiteralString, Str: tok.Value}}, nil
	case Int:
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return ValueExpr{}, golemerrors.ProgrammingError("invalid integer literal %q", tok.Value)
		}
		return ValueExpr{Literal: &Literal{Kind: LiteralInt, Int: n}}, nil
	case Float:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return ValueExpr{}, golemerrors.ProgrammingError("invalid float literal %q", tok.Value)
		}
		return ValueExpr{Literal: &Literal{Kind: LiteralFloat, Flt: f}}, nil
	case True:
		return ValueExpr{Literal: &Literal{Kind: LiteralBool, Bool: true}}, nil
	case False:
		return ValueExpr{Literal: &Literal{Kind: LiteralBool, Bool: false}}, nil
	case Null:
		return ValueExpr{Literal: &Literal{Kind: LiteralNull}}, nil
	default:
		return ValueExpr{}, golemerrors.ProgrammingError("expected a literal value or named parameter, got %s", tok)
	}
}

func literalToString(l Literal) string {
	switch l.Kind {
	case LiteralString:
		return l.Str
	case LiteralInt:
		return strconv.FormatInt(l.Int, 10)
	case LiteralFloat:
		return strconv.FormatFloat(l.Flt, 'f', -1, 64)
	case LiteralBool:
		return strconv.FormatBool(l.Bool)
	default:
		return ""
	}
}
