// Package cmd implements the studyhub CLI commands using Cobra.
//
// Available commands:
//   - login, signup, logout: Manage the stored session token
//   - profile: Show the signed-in user
//   - users: List and create users
//   - groups: List, browse and create study groups
//   - config: Show the resolved backend and session state
//   - ping: Measure backend latency
//   - mock: Run an in-memory stand-in for the backend
//   - version: Show studyhub version information
//
// Every command shares one HTTP client built from the resolved
// configuration, so a 401 anywhere clears the stored token.
package cmd
