package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	failOn   string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeExec) isLoggedIn() bool               { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Activate(context.Context) error { return f.record("activate") }
func (f *fakeExec) Refresh(context.Context) error  { return f.record("refresh") }
func (f *fakeExec) Me(context.Context) error       { return f.record("me") }
func (f *fakeExec) List(context.Context) error     { return f.record("list") }
func (f *fakeExec) Avatar(context.Context) error   { return f.record("avatar") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"register",
		"activate",
		"login",
		"help",
		"me",
		"l",
		"refresh",
		"avatar",
		"logout",
		"",
		"foobar",
		"exit",
		"me",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(input))

	assert.Equal(t, []string{"register", "activate", "login", "me", "list", "refresh", "avatar", "logout"}, exec.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Available commands: register, activate, login, (l)ist, exit")
	assert.Contains(t, joined, "Available commands: me, (l)ist, refresh, avatar, logout, exit")
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{failOn: "login"}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("login\nlist"))

	assert.Equal(t, []string{"login", "list"}, exec.calls, "last line without newline still runs")
	assert.Contains(t, strings.Join(*out, "\n"), "error: login failed")
}
