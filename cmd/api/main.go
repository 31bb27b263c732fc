package main

import (
	"os"

	"github.com/yigit/sectionhub/internal/pkg/logger"
)

// @title Student Sections API
// @version 1.0
// @description REST API for managing students and sections with role-based access control

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization, prefixed with "Bearer "

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
