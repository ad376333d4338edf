// Package logging provides structured logging for finlink on top of the
// standard slog package.
//
// All log entries carry a subsystem identifier so output can be filtered by
// area (Callback, Link, Plaid, Config, ...). The logger is initialized once in
// the command layer:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Callback", "listening on %s", addr)
//	logging.Error("Link", err, "token exchange failed")
//
// Level filtering happens at the handler, so disabled levels cost nothing
// beyond the enabled check.
package logging
