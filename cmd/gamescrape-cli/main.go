package main

import (
	"gamescrape/cmd/gamescrape-cli/commands"
	"gamescrape/lib/osutil"
	"gamescrape/lib/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	telemetry.InitSlog(false)
	commands.ExecuteContext(osutil.SignalContext())
}
