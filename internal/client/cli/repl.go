package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	AddExpense(ctx context.Context) error
	AddIncome(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Watch(ctx context.Context, args []string) error

	Summary(ctx context.Context) error
	Suggest(ctx context.Context) error
	Trends(ctx context.Context) error
	Chart(ctx context.Context) error
	Ask(ctx context.Context, question string) error

	Limit(ctx context.Context, args []string) error
	Currency(ctx context.Context, args []string) error
	Notifications(ctx context.Context, args []string) error
	Here(ctx context.Context, args []string) error
}

const helpLoggedOut = "Available commands: register, login, add-expense, add-income, (l)ist, delete, clear, " +
	"summary, suggest, trends, chart, ask, watch, limit, currency, notifications, here, exit"

const helpLoggedIn = "Available commands: add-expense, add-income, (l)ist, delete, clear, sync, " +
	"summary, suggest, trends, chart, ask, watch, limit, currency, notifications, here, logout, exit"

// runREPL starts a simple read–eval–print loop for the ledger CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF or
// when the user types "exit" or "quit".
//
// Commands:
//
//	register | login | logout        account handling (mirror server only)
//	add-expense | add-income         interactive record entry
//	list [kind] [category]           records, newest first
//	delete <kind> <id>               remove one record
//	clear <kind>                     wipe local records of a kind
//	sync                             replace local records with the remote copy
//	summary | suggest | trends       analysis of the current records
//	chart                            spending by category
//	ask <question>                   the finance assistant
//	watch [kind] | unwatch           live view of a kind
//	limit <amount>                   daily spending limit, 0 disables
//	currency <symbol>                display currency
//	notifications <on|off>
//	here <lat> <lon>                 report a position for the zone alert
//
// A failing command prints its error and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("bb> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)

		case "add-expense":
			err = a.AddExpense(ctx)
		case "add-income":
			err = a.AddIncome(ctx)
		case "l", "list":
			err = a.List(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "clear":
			err = a.Clear(ctx, args)
		case "sync":
			err = a.Sync(ctx)
		case "watch":
			err = a.Watch(ctx, args)
		case "unwatch":
			err = a.Watch(ctx, []string{"off"})

		case "summary":
			err = a.Summary(ctx)
		case "suggest":
			err = a.Suggest(ctx)
		case "trends":
			err = a.Trends(ctx)
		case "chart":
			err = a.Chart(ctx)
		case "ask":
			if len(args) == 0 {
				printlnFn("Usage: ask <question>")
				continue
			}
			err = a.Ask(ctx, strings.Join(args, " "))

		case "limit":
			err = a.Limit(ctx, args)
		case "currency":
			err = a.Currency(ctx, args)
		case "notifications":
			err = a.Notifications(ctx, args)
		case "here":
			err = a.Here(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
