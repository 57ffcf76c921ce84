package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Xoso"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Serves the betting, session and transaction APIs.`,
		},
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start the lottery scheduler",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Creates sessions and drives them through draw and settlement.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database tables",
			Flags:       []cli.Flag{},
			Category:    "Tool",
			Description: `Applies the table schema and exits.`,
		},
	}

	s.app = app
}
