package main

import (
	"github.com/joho/godotenv"

	"github.com/pulseboard/pulseboard/internal/cli"
	"github.com/pulseboard/pulseboard/internal/common/logtrace"
)

func init() {
	// A .env in the working directory may carry PULSEBOARD_API_URL.
	godotenv.Load()
	logtrace.InitLogger()
}

func main() {
	cli.Execute()
}
