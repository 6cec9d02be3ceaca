// Package sql provides SQL lexing, parsing, and analysis for the relational
// adapter: a hand-rolled lexer and recursive-descent parser produce a
// Statement tree, and an Analyzer resolves that tree against a catalog
// schema into a Plan the translate layer can lower without further
// reference to SQL syntax.
//
// # Lexer usage
//
//	lexer := sql.NewLexer("SELECT * FROM users")
//	for {
//	    token := lexer.NextToken()
//	    if token.Type == sql.EOF {
//	        break
//	    }
//	}
//
// # Parser usage
//
//	parser := sql.NewParser("SELECT * FROM users WHERE id = %(id)s")
//	statement, err := parser.Parse()
//
// # Supported statements
//
//   - CreateTableStatement, DropTableStatement
//   - CreateIndexStatement, DropIndexStatement
//   - AlterTableAddColumnStatement, AlterTableAddConstraintStatement
//   - InsertStatement, UpdateStatement, DeleteStatement
//   - SelectStatement (single table, WHERE/ORDER BY/LIMIT/OFFSET, no JOIN
//     or aggregates)
//   - ShowTablesStatement, DescribeTableStatement, SelectConstantStatement
package sql
