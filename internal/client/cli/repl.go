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
	Activate(ctx context.Context) error
	Login(ctx context.Context) error
	Refresh(ctx context.Context) error
	Me(ctx context.Context) error
	List(ctx context.Context) error
	Avatar(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit"/"quit".
//
//	Not logged in:
//	  help           show available commands
//	  register       start a registration
//	  activate       finish it with the mailed code
//	  login          authenticate
//	  (l)ist         list accounts
//	  exit | quit    leave the program
//
//	Logged in, additionally:
//	  me             show the current account
//	  refresh        rotate the session tokens
//	  avatar         upload an avatar image
//	  logout         log out
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("accounts %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, (l)ist, refresh, avatar, logout, exit")
			} else {
				printlnFn("Available commands: register, activate, login, (l)ist, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "activate":
			err = a.Activate(ctx)

		case "login":
			err = a.Login(ctx)

		case "refresh":
			err = a.Refresh(ctx)

		case "me":
			err = a.Me(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "avatar":
			err = a.Avatar(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err)
		}
	}
}
