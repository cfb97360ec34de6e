// filepath: cmd/ranktrack/main.go
package main

import (
	"ranktrack/internal/cli"
)

// @title RankTrack API
// @version 1.0.0
// @description Multi-tenant SEO rank tracking: monthly CSV ingestion, keyword ranking history and reports.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token.

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
