package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/imrishuroy/valentine-rsvp/internal/config"
)

// Commonly used command line flags.
var (
	backendFlag = &cli.StringFlag{
		Name:    "backend",
		Usage:   "key-value backend: memory, dynamodb, redis, leveldb or badger",
		Value:   config.BackendMemory,
		EnvVars: []string{config.EnvKVBackend},
	}
	tableFlag = &cli.StringFlag{
		Name:    "dynamodb-table",
		Usage:   "DynamoDB table name",
		EnvVars: []string{config.EnvDynamoDBTable},
	}
	redisFlag = &cli.StringFlag{
		Name:    "redis-url",
		Usage:   "redis connection URL",
		EnvVars: []string{config.EnvRedisURL},
	}
	levelDBFlag = &cli.StringFlag{
		Name:    "leveldb-path",
		Usage:   "LevelDB data directory",
		EnvVars: []string{config.EnvLevelDBPath},
	}
	badgerFlag = &cli.StringFlag{
		Name:    "badger-path",
		Usage:   "Badger data directory",
		EnvVars: []string{config.EnvBadgerPath},
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "debug, info, warn or error",
		Value:   "warn",
		EnvVars: []string{config.EnvLogLevel},
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "output JSON instead of a table",
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "rsvpctl",
		Usage: "inspect and record invitation responses",
		Flags: []cli.Flag{
			backendFlag,
			tableFlag,
			redisFlag,
			levelDBFlag,
			badgerFlag,
			logLevelFlag,
		},
		Commands: []*cli.Command{
			commandList,
			commandStats,
			commandGet,
			commandSubmit,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
