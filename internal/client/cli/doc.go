// Package cli provides the healthsync command-line client.
//
// Commands map one-to-one onto the server endpoints:
//   - test: check that the store is reachable
//   - push: merge a JSON batch file into the store
//   - pull: fetch records newer than a timestamp
//   - inspect: show per-table counts and recent rows
//
// The connection string is taken from --connection-string, then
// HEALTHSYNC_CONNECTION_STRING, and otherwise prompted for without echo.
package cli
