package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"reldb"
)

func newShellCmd() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run an interactive SQL shell against an in-process database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataFile == "" {
				dataFile = cfg.Storage.DataFile
			}

			db, err := reldb.Open(reldb.Options{
				Name:     cfg.AppName,
				DataFile: dataFile,
				Logger:   log,
			})
			if err != nil {
				return err
			}
			if tables := db.Database().ListTables(); len(tables) > 0 {
				log.Infow("database restored", "file", dataFile, "tables", len(tables))
			}

			return runShell(db, dataFile)
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "", "database snapshot file (defaults to config)")
	return cmd
}

func runShell(db *reldb.DB, dataFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "reldb> ",
		HistoryFile:     cfg.Shell.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	fmt.Println("reldb shell")
	fmt.Println("type 'help' for help, 'exit' to quit")

	var buf strings.Builder

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if buf.Len() > 0 {
				buf.Reset()
				rl.SetPrompt("reldb> ")
				continue
			}
			fmt.Println("^C")
			continue
		}
		if err != nil {
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 {
			done, quit := shellMetaCommand(db, dataFile, line)
			if quit {
				return nil
			}
			if done {
				continue
			}
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(line)

		if !statementComplete(buf.String()) {
			rl.SetPrompt("...> ")
			continue
		}

		stmt := strings.TrimSpace(buf.String())
		buf.Reset()
		rl.SetPrompt("reldb> ")

		printResult(db.Exec(stmt))
	}
}

// shellMetaCommand handles the non-SQL commands. It reports whether the
// line was consumed, and whether the shell should exit.
func shellMetaCommand(db *reldb.DB, dataFile, line string) (done, quit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "exit", "quit", `\q`:
		return true, true

	case "help", `\help`:
		fmt.Println(`meta commands:
  help                   show this help
  tables                 list tables
  schema <table>         show a table's columns
  save                   persist the database to disk
  exit | quit            quit

sql:
  CREATE TABLE, INSERT, SELECT (WHERE, INNER JOIN), UPDATE, DELETE
  end statements with ';' (multiline input is supported)`)
		return true, false

	case "tables":
		names := db.Database().ListTables()
		if len(names) == 0 {
			fmt.Println("no tables")
			return true, false
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return true, false

	case "schema":
		if len(fields) != 2 {
			fmt.Println("usage: schema <table>")
			return true, false
		}
		info, err := db.Database().TableInfo(fields[1])
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return true, false
		}
		printTableInfo(info)
		return true, false

	case "save":
		fmt.Println(saveMessage(db, dataFile))
		return true, false
	}
	return false, false
}

// saveMessage persists the database and describes the outcome.
func saveMessage(db *reldb.DB, dataFile string) string {
	if !db.Persistent() {
		return "no data file configured"
	}
	if err := db.Save(); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return fmt.Sprintf("saved to %s", dataFile)
}

// statementComplete reports whether buf contains a terminating ';'
// outside quotes.
func statementComplete(buf string) bool {
	inQuote := false
	var quote rune
	for _, r := range buf {
		if inQuote {
			if r == quote {
				inQuote = false
			}
			continue
		}
		switch r {
		case '\'', '"':
			inQuote = true
			quote = r
		case ';':
			return true
		}
	}
	return false
}
