package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := cli.NewApp()
	app.Name = "portalctl"
	app.HelpName = "portalctl"
	app.Usage = "administrative commands for the church portal"
	app.UsageText = "portalctl <command> [arguments...]"
	app.Commands = []cli.Command{
		{
			Name:   "migrate",
			Usage:  "apply database migrations",
			Action: migrate,
		},
		{
			Name:   "create-admin",
			Usage:  "create an administrator account",
			Action: createAdmin,
			Flags:  adminFlags,
		},
		{
			Name:    "reminders",
			Aliases: []string{"r"},
			Usage:   "list scheduled reminders",
			Action:  listReminders,
			Flags:   reminderFlags,
		},
		{
			Name:   "ingest",
			Usage:  "import events from the parish calendar page",
			Action: ingestCalendar,
			Flags:  ingestFlags,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("portalctl")
	}
}
