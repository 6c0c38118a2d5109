package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"reldb/sqlclient"
)

func newConnectCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		oneShot string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to a running reldb server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			cli, err := sqlclient.Dial(addr, timeout)
			if err != nil {
				return fmt.Errorf("dial %s: %w", addr, err)
			}
			defer func() { _ = cli.Close() }()

			if strings.TrimSpace(oneShot) != "" {
				res, err := cli.Exec(oneShot)
				if err != nil {
					return err
				}
				printResult(res)
				return nil
			}

			return runRemoteShell(cli, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "server address (defaults to config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "dial timeout")
	cmd.Flags().StringVarP(&oneShot, "command", "c", "", "execute one SQL statement and exit")
	return cmd
}

func runRemoteShell(cli *sqlclient.Client, addr string) error {
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

	fmt.Printf("connected to %s\n", addr)
	fmt.Println("type 'exit' to quit")

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
			switch strings.ToLower(line) {
			case "exit", "quit", `\q`:
				return nil
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

		res, err := cli.Exec(stmt)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		printResult(res)
	}
}
