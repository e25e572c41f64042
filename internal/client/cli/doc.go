// Package cli provides the interactive command-line client of the account
// service.
//
// It dials the gRPC endpoint, keeps the session tokens of the current login
// in memory and runs a small REPL:
//
//   - register / activate: create an account from the mailed code
//   - login / refresh / logout
//   - me, list, avatar
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
