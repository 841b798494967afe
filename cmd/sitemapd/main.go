package main

import (
	"log"

	"github.com/MrSnakeDoc/sitemapd/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ sitemapd failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ sitemapd stopped with error: %v", err)
	}
}
