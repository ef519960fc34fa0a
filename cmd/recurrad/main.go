package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "recurrad"
	app.Usage = "Recurring order execution daemon"
	app.Commands = append(
		app.Commands,
		&start,
		&catchup,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	log.WithError(err).Error("exiting")
	os.Exit(1)
}
