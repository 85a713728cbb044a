package main

import (
	"github.com/joho/godotenv"

	"github.com/Clark-Hu/genre-dashboard/internal/cli"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()
	cli.Execute()
}
