// Package api provides typed calls for the study-group backend routes.
//
// Every call goes through the http facade, so bearer injection, the 401
// reaction and network diagnostics apply uniformly. The backend reports some
// failures as 200 responses with an "error" field; those come back as
// *APIError.
package api
