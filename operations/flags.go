package operations

import (
	"github.com/pkg/errors"
	"github.com/sartorproj/tephracp/config"
	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	configFlag     = "config"
	inputFlag      = "input"
	limitFlag      = "limit"
	samplesFlag    = "samples"
	seedFlag       = "seed"
	streamingFlag  = "streaming"
	outputFlag     = "out"
	summaryFlag    = "summary"
	recordFlag     = "record"
	recordPlotFlag = "record-out"
	configFileEnv  = "TEPHRACP_CONFIG"
	inputFileEnv   = "TEPHRACP_INPUT"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func inputFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   configFlag,
			Usage:  "path to a YAML configuration file",
			EnvVar: configFileEnv,
		},
		cli.StringFlag{
			Name:   inputFlag,
			Usage:  "path to the headerless input table (rows = time steps, columns = records)",
			EnvVar: inputFileEnv,
		},
	)
}

func estimatorFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:  samplesFlag,
			Usage: "number of posterior samples per record, 0 for the exact posterior",
		},
		cli.Int64Flag{
			Name:  seedFlag,
			Usage: "sampler seed",
		},
	)
}

func batchFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:  limitFlag,
			Usage: "process only the first N records (default: all)",
		},
		cli.BoolFlag{
			Name:  streamingFlag,
			Usage: "estimate quartiles incrementally instead of holding every result",
		},
		cli.StringFlag{
			Name:  outputFlag,
			Usage: "path of the summary plot (png, svg or pdf)",
		},
		cli.StringFlag{
			Name:  summaryFlag,
			Usage: "path of the summary export (.json or .csv)",
		},
		cli.IntFlag{
			Name:  recordFlag,
			Usage: "also plot this single record before the batch",
			Value: -1,
		},
	)
}

func recordFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:  recordFlag,
			Usage: "index of the record to analyze",
		},
		cli.StringFlag{
			Name:  recordPlotFlag,
			Usage: "path of the record plot",
		},
	)
}

////////////////////////////////////////////////////////////////////////
//
// Configuration Resolution

// resolveConfig loads the config file, if any, and applies flag overrides.
func resolveConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(configFlag); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if v := c.String(inputFlag); v != "" {
		cfg.Input.Path = v
	}
	if c.IsSet(samplesFlag) {
		n := c.Int(samplesFlag)
		cfg.Estimator.Samples = &n
	}
	if c.IsSet(seedFlag) {
		s := c.Int64(seedFlag)
		cfg.Estimator.Seed = &s
	}
	if c.IsSet(limitFlag) {
		cfg.Batch.Limit = c.Int(limitFlag)
	}
	if c.Bool(streamingFlag) {
		cfg.Batch.Streaming = true
	}
	if v := c.String(outputFlag); v != "" {
		cfg.Output.SummaryPlot = v
	}
	if v := c.String(summaryFlag); v != "" {
		cfg.Output.Summary = v
	}
	if v := c.String(recordPlotFlag); v != "" {
		cfg.Output.RecordPlot = v
	}
	if c.IsSet(recordFlag) && c.Int(recordFlag) >= 0 {
		idx := c.Int(recordFlag)
		cfg.Batch.DebugRecord = &idx
	}

	return cfg, errors.Wrap(cfg.Validate(), "invalid configuration")
}
