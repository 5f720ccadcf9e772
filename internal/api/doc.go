// Package api exposes podcast script generation over HTTP. It validates
// requests, maps generation failures to status codes and hands long-running
// work to the background task runner.
package api
