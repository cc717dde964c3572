// Command potzbot runs the tabletop game Telegram bot.
package main

import (
	"log"

	corecmd "github.com/m3rciful/potzbot/core/cmd"
	"github.com/m3rciful/potzbot/potz/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("potzbot: %v", err)
	}
}
