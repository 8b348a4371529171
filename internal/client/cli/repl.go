package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. *App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, category string) error
	Categories(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Notifications(ctx context.Context) error
	Read(ctx context.Context, id string) error
	Sweep(ctx context.Context) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
}

const helpText = `Available commands:
  (l)ist [category]     show live posts, optionally one category
  categories            list category values for filtering
  add                   publish a post
  edit <id>             edit one of your posts
  delete <id>           delete a post (asks for confirmation)
  (n)otifications       show unread notifications
  read <id>             mark a notification as read
  sweep                 prune expired posts from the local cache
  status                show mode and session details
  logout                forget the access token and leave
  exit | quit           leave the program`

// runREPL reads a line, dispatches its first token as the command and loops
// until EOF, exit, quit, logout or ctx cancellation. Command handlers report
// their own errors to the user, so returned errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("board (%s) > ", statusFn()))

		line, err := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "l", "list":
			category := ""
			if len(args) > 0 {
				category = args[0]
			}
			_ = a.List(ctx, category)

		case "categories":
			_ = a.Categories(ctx)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			if len(args) == 0 {
				printlnFn("Usage: edit <id>")
				break
			}
			_ = a.Edit(ctx, args[0])

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				break
			}
			_ = a.Delete(ctx, args[0])

		case "n", "notifications":
			_ = a.Notifications(ctx)

		case "read":
			if len(args) == 0 {
				printlnFn("Usage: read <id>")
				break
			}
			_ = a.Read(ctx, args[0])

		case "sweep":
			_ = a.Sweep(ctx)

		case "status":
			_ = a.Status(ctx)

		case "logout":
			if a.Logout(ctx) == nil {
				return
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
