package main

import (
	"os"

	"stacy-ai/backend/internal/app"
)

func main() {
	os.Exit(app.Run())
}
