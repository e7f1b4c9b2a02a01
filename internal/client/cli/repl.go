package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/loveletters/internal/client/api"
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
	Compose(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Title(ctx context.Context) error
	Delete(ctx context.Context) error
	Send(ctx context.Context) error
	Upload(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: compose, (l)ist, show, title, delete, send, upload, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Letter commands require a login. Command errors are printed and the loop
// goes on; an expired or rejected token is reported with a hint to log in
// again.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ll %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var run func(context.Context) error
		needLogin := true

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue

		case "register":
			run, needLogin = a.Register, false
		case "login":
			run, needLogin = a.Login, false
		case "logout":
			run = a.Logout
		case "compose":
			run = a.Compose
		case "l", "list":
			run = a.List
		case "show":
			run = a.Show
		case "title":
			run = a.Title
		case "delete":
			run = a.Delete
		case "send":
			run = a.Send
		case "upload":
			run = a.Upload

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if needLogin && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		if err := run(ctx); err != nil {
			report(err)
		}
	}
}

func report(err error) {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		printlnFn("Session rejected by the server, please login again:", err)
	case errors.Is(err, api.ErrUnavailable):
		printlnFn("Server unavailable:", err)
	default:
		printlnFn("Error:", err)
	}
}
