package main

import (
	"fmt"
	"strings"

	"reldb/internal/engine"
	"reldb/internal/sql/executor"
)

// printResult renders a statement result as an aligned text table,
// using Result.Columns for order since row maps are unordered.
func printResult(res *executor.Result) {
	if res == nil {
		fmt.Println("no result")
		return
	}
	if !res.Success {
		fmt.Printf("error: %s\n", res.Error)
		return
	}

	rows := res.Rows
	if rows == nil && res.InsertedRows != nil {
		rows = res.InsertedRows
	}

	if len(res.Columns) > 0 && rows != nil {
		printTable(res.Columns, rows)
	}
	if res.TableInfo != nil {
		printTableInfo(res.TableInfo)
	}
	if res.Message != "" {
		fmt.Println(res.Message)
	}
}

func printTable(cols []string, rows []executor.RowData) {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			s := "NULL"
			if v, ok := row[c]; ok && !v.IsNull() {
				s = v.String()
			}
			cells[r][i] = s
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}

	printRow := func(values []string) {
		for i := range cols {
			if i > 0 {
				fmt.Print(" | ")
			}
			fmt.Print(padRight(values[i], widths[i]))
		}
		fmt.Println()
	}

	printRow(cols)
	for i := range cols {
		if i > 0 {
			fmt.Print("-+-")
		}
		fmt.Print(strings.Repeat("-", widths[i]))
	}
	fmt.Println()
	for _, row := range cells {
		printRow(row)
	}
}

func printTableInfo(info *engine.TableInfo) {
	fmt.Printf("table %s (%d rows)\n", info.Name, info.RowCount)
	for _, col := range info.Columns {
		var attrs []string
		if col.PrimaryKey {
			attrs = append(attrs, "PRIMARY KEY")
		} else if col.Unique {
			attrs = append(attrs, "UNIQUE")
		}
		if !col.Nullable {
			attrs = append(attrs, "NOT NULL")
		}
		typ := col.Type
		if col.Type == "VARCHAR" && col.MaxLength > 0 {
			typ = fmt.Sprintf("VARCHAR(%d)", col.MaxLength)
		}
		line := fmt.Sprintf("  %s %s", col.Name, typ)
		if len(attrs) > 0 {
			line += " " + strings.Join(attrs, " ")
		}
		fmt.Println(line)
	}
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
