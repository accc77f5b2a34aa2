// Package config handles configuration loading and management for studyhub.
//
// It provides functionality for:
//   - Resolving the backend base URL (with the local fallback)
//   - Loading .env files and STUDYHUB_* environment variables
//   - Loading .studyhub.json or .studyhub.yaml config files
//   - Default configuration values
package config
