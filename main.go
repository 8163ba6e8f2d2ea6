package main

import (
	"context"

	"bid-lifecycle/internal/app"
	"bid-lifecycle/utils"
)

func main() {
	application, err := app.NewApp(context.Background())
	if err != nil {
		utils.Fatal("failed to start", map[string]any{"error": err.Error()})
	}

	if err := application.Run(); err != nil {
		utils.Fatal("server stopped with error", map[string]any{"error": err.Error()})
	}
}
