// @title EduCloud API
// @version 1.0
// @description Backend server for the EduCloud online course platform.

// @contact.name API Support
// @contact.email support@educloud.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"educloud_backend/internal/app"
	"educloud_backend/internal/config"
	"educloud_backend/pkg/configwatcher"
	"educloud_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.OnConfigReload)

	application.Run()
}
