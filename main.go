/*
Copyright © 2025 sinantan
*/
package main

import (
	"github.com/joho/godotenv"

	"github.com/sinantan/document-chat-assistant/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// A missing .env is fine, environment variables may come from the host.
	godotenv.Load()
}
