// Package http provides the hello-world HTTP server the demos call.
//
// The server listens on the fixed port 5000 and exposes a single route:
//   - GET / returning {"success": true, "body": "Hello World"}
package http
