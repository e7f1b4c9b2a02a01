// Package cli provides the interactive LoveLetters command-line client.
//
// It wires configuration, the saved session and the HTTP API client into a
// small REPL. Typical flow: restore the previous login (if any), then execute
// user commands until "exit" or end of input.
//
// Key features:
//   - Register / Login / Logout (the token is kept in the session directory)
//   - Compose a letter from text or from an image file
//   - List / Show / Title / Delete letters
//   - Send a letter by email and print the preview link
//   - Upload an image through a presigned URL
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
