// Package output renders studyhub results for the terminal.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//
// Both implement Formatter. SessionNavigator is the CLI's stand-in for
// browser navigation: it tells the user to sign in again.
package output
