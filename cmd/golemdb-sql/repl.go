package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/golemdb/golemdb-sql-go/adapter"
)

const (
	promptColor  = "\033[36m"
	errorColor   = "\033[31m"
	successColor = "\033[32m"
	resetColor   = "\033[0m"
	boldColor    = "\033[1m"
)

func newReplCommand(flags *rootFlags) *cobra.Command {
	var adminToken string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive SQL session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := flags.openConnection()
			if err != nil {
				return err
			}
			r := &repl{
				conn:        conn,
				adminToken:  adminToken,
				historyFile: replHistoryPath(),
			}
			r.loadHistory()
			r.printBanner()
			r.run()
			return nil
		},
	}

	cmd.Flags().StringVar(&adminToken, "admin-token", os.Getenv("GOLEMDB_ADMIN_TOKEN"),
		"admin session token presented for DDL statements")
	return cmd
}

// repl is an interactive SQL session, accumulating input until a
// semicolon terminates a statement and dispatching dot-commands the way
// an interactive database shell would.
type repl struct {
	conn        *adapter.Connection
	adminToken  string
	history     []string
	historyFile string
}

func (r *repl) run() {
	reader := bufio.NewReader(os.Stdin)
	var buf strings.Builder

	for {
		fmt.Print(r.prompt(buf.Len() > 0))

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", successColor, resetColor)
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if strings.TrimSpace(line) == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if r.handleDotCommand(line) {
				continue
			}
		}

		buf.WriteString(line)
		trimmed := strings.TrimSpace(buf.String())
		if !strings.HasSuffix(trimmed, ";") {
			buf.WriteString(" ")
			continue
		}

		stmt := strings.TrimSuffix(trimmed, ";")
		buf.Reset()
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		r.addToHistory(stmt + ";")
		r.execute(stmt)
	}
}

func (r *repl) execute(stmt string) {
	cur := r.conn.NewCursor()
	cur.AdminToken = r.adminToken
	defer cur.Close()

	if err := cur.Execute(context.Background(), stmt, nil); err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", errorColor, err, resetColor)
		return
	}
	if err := printCursorResult(os.Stdout, cur); err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", errorColor, err, resetColor)
	}
}

func (r *repl) prompt(continuation bool) string {
	if continuation {
		return fmt.Sprintf("%s   ...>%s ", promptColor, resetColor)
	}
	return fmt.Sprintf("%sgolemdb-sql>%s ", promptColor, resetColor)
}

func (r *repl) handleDotCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", successColor, resetColor)
		r.saveHistory()
		os.Exit(0)

	case ".help", ".h", ".?":
		r.printHelp()

	case ".tables":
		r.execute("SHOW TABLES")

	case ".describe":
		if len(parts) > 1 {
			r.execute("DESCRIBE " + parts[1])
		} else {
			fmt.Printf("%s✗ Usage: .describe <table>%s\n", errorColor, resetColor)
		}

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".history":
		r.printHistory()

	case ".version":
		fmt.Printf("golemdb-sql version %s\n", version)

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", errorColor, parts[0], resetColor)
	}

	return true
}

func (r *repl) printBanner() {
	fmt.Println()
	fmt.Printf("%s%sgolemdb-sql v%s%s\n", boldColor, promptColor, version, resetColor)
	fmt.Println("Relational SQL over a content-addressed entity store")
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (r *repl) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", boldColor, promptColor, resetColor)
	fmt.Println("  .help, .h        Show this help message")
	fmt.Println("  .quit, .exit     Exit the session")
	fmt.Println("  .tables          List tables in the current schema")
	fmt.Println("  .describe <t>    Describe a table's columns")
	fmt.Println("  .history         Show statement history")
	fmt.Println("  .clear           Clear the screen")
	fmt.Println("  .version         Show version info")
	fmt.Println()
	fmt.Printf("%s%sSQL:%s terminate statements with ';'\n", boldColor, promptColor, resetColor)
	fmt.Println()
}

func (r *repl) addToHistory(stmt string) {
	if len(r.history) > 0 && r.history[len(r.history)-1] == stmt {
		return
	}
	r.history = append(r.history, stmt)
	if len(r.history) > 1000 {
		r.history = r.history[len(r.history)-1000:]
	}
}

func (r *repl) printHistory() {
	if len(r.history) == 0 {
		fmt.Println("No statement history")
		return
	}
	start := 0
	if len(r.history) > 20 {
		start = len(r.history) - 20
	}
	for i := start; i < len(r.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, r.history[i])
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".golemdb_sql_history")
}

func (r *repl) loadHistory() {
	if r.historyFile == "" {
		return
	}
	file, err := os.Open(r.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		r.history = append(r.history, scanner.Text())
	}
}

func (r *repl) saveHistory() {
	if r.historyFile == "" {
		return
	}
	file, err := os.Create(r.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	start := 0
	if len(r.history) > 1000 {
		start = len(r.history) - 1000
	}
	for i := start; i < len(r.history); i++ {
		_, _ = file.WriteString(r.history[i] + "\n")
	}
}
