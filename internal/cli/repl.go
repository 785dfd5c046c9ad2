package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, username string) error
	Login(ctx context.Context, username string) error
	List(ctx context.Context, category string) error
	Add(ctx context.Context, text string) error
	Today(ctx context.Context) error
	Stats(ctx context.Context) error
	Done(ctx context.Context, id string) error
	Habit(ctx context.Context, id string) error
	Subtask(ctx context.Context, id, text string) error
	Category(ctx context.Context, id, category string) error
	Delete(ctx context.Context, id string) error
	Sync(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register <user>, login <user>, exit"
	helpLoggedIn  = "Available commands: (l)ist [category], add <text>, today, stats, done <id>, " +
		"habit <id>, subtask <id> <text>, category <id> <category>, delete <id>, sync, logout, exit"
)

// runREPL reads one command per line from scanner and dispatches it to a.
// The first token is the command; the remainder of the line is its argument.
// The loop ends on EOF or on "exit"/"quit". Command errors are printed and the
// loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("goals> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			err = a.Register(ctx, rest)

		case "login":
			err = a.Login(ctx, rest)

		case "l", "list":
			err = a.List(ctx, rest)

		case "add":
			err = a.Add(ctx, rest)

		case "today":
			err = a.Today(ctx)

		case "stats":
			err = a.Stats(ctx)

		case "done":
			err = a.Done(ctx, rest)

		case "habit":
			err = a.Habit(ctx, rest)

		case "subtask":
			id, text, _ := strings.Cut(rest, " ")
			err = a.Subtask(ctx, id, strings.TrimSpace(text))

		case "category":
			id, category, _ := strings.Cut(rest, " ")
			err = a.Category(ctx, id, strings.TrimSpace(category))

		case "delete":
			err = a.Delete(ctx, rest)

		case "sync":
			err = a.Sync(ctx)

		case "logout":
			err = a.Logout(ctx)

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
