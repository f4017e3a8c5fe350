package main

import (
	"log"

	"github.com/joho/godotenv"

	"tickethub/internal/server"
)

func main() {
	godotenv.Load()

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
