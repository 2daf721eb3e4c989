package main

import (
	"os"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/operations"
	"github.com/urfave/cli"
)

func main() {
	app := buildApp()
	if err := app.Run(os.Args); err != nil {
		grip.EmergencyFatal(err)
	}
}

func buildApp() *cli.App {
	app := cli.NewApp()

	app.Name = "tephracp"
	app.Usage = "bayesian change point analysis of tephra volume records"
	app.Version = "0.1.0"

	app.Commands = []cli.Command{
		operations.Analyze(),
		operations.Inspect(),
	}

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "level",
			Value: "info",
			Usage: "Specify lowest visible loglevel as string: 'emergency|alert|critical|error|warning|notice|info|debug'",
		},
	}

	app.Before = func(c *cli.Context) error {
		return errors.WithStack(loggingSetup(app.Name, c.String("level")))
	}

	return app
}

// logging setup is separate to make it unit testable
func loggingSetup(name, logLevel string) error {
	sender := grip.GetSender()
	sender.SetName(name)

	lvl := sender.Level()
	lvl.Threshold = level.FromString(logLevel)
	return errors.WithStack(sender.SetLevel(lvl))
}
