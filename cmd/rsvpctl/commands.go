package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/imrishuroy/valentine-rsvp/internal/config"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore/backends"
	"github.com/imrishuroy/valentine-rsvp/internal/logging"
	"github.com/imrishuroy/valentine-rsvp/internal/responses"
)

var (
	answerFlag = &cli.StringFlag{
		Name:     "answer",
		Usage:    "yes, no or maybe",
		Required: true,
	}
	messageFlag = &cli.StringFlag{
		Name:  "message",
		Usage: "optional note to attach",
	}
	timestampFlag = &cli.StringFlag{
		Name:  "timestamp",
		Usage: "ISO-8601 time of the answer (defaults to now)",
	}
)

var commandList = &cli.Command{
	Name:   "list",
	Usage:  "print every response, newest first",
	Flags:  []cli.Flag{jsonFlag},
	Action: withService(runList),
}

var commandStats = &cli.Command{
	Name:   "stats",
	Usage:  "count responses per answer",
	Flags:  []cli.Flag{jsonFlag},
	Action: withService(runStats),
}

var commandGet = &cli.Command{
	Name:      "get",
	Usage:     "print one response",
	ArgsUsage: "<key>",
	Flags:     []cli.Flag{jsonFlag},
	Action:    withService(runGet),
}

var commandSubmit = &cli.Command{
	Name:   "submit",
	Usage:  "record a response",
	Flags:  []cli.Flag{answerFlag, messageFlag, timestampFlag},
	Action: withService(runSubmit),
}

// withService opens the configured store for the duration of one command.
func withService(fn func(c *cli.Context, svc *responses.Service) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger := logging.New(logging.Options{Level: c.String(logLevelFlag.Name), Output: c.App.ErrWriter})
		store, err := backends.Open(c.Context, storeConfig(c), backends.Deps{Logger: logger})
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(c, responses.NewService(store, responses.WithLogger(logger)))
	}
}

func storeConfig(c *cli.Context) config.StoreConfig {
	return config.StoreConfig{
		Backend:       c.String(backendFlag.Name),
		DynamoDBTable: c.String(tableFlag.Name),
		RedisURL:      c.String(redisFlag.Name),
		LevelDBPath:   c.String(levelDBFlag.Name),
		BadgerPath:    c.String(badgerFlag.Name),
	}
}

func runList(c *cli.Context, svc *responses.Service) error {
	all, err := svc.ListAll(c.Context)
	if err != nil {
		return err
	}
	if c.Bool(jsonFlag.Name) {
		return writeJSON(c.App.Writer, all)
	}
	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader([]string{"Key", "Answer", "Timestamp", "Message"})
	for _, r := range all {
		table.Append([]string{r.Key, r.Value.Answer, r.Value.Timestamp, r.Value.Message})
	}
	table.Render()
	return nil
}

func runStats(c *cli.Context, svc *responses.Service) error {
	st, err := svc.Stats(c.Context)
	if err != nil {
		return err
	}
	if c.Bool(jsonFlag.Name) {
		return writeJSON(c.App.Writer, st)
	}
	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader([]string{"Answer", "Count"})
	table.Append([]string{responses.AnswerYes, strconv.Itoa(st.Yes)})
	table.Append([]string{responses.AnswerNo, strconv.Itoa(st.No)})
	table.Append([]string{responses.AnswerMaybe, strconv.Itoa(st.Maybe)})
	table.SetFooter([]string{"Total", strconv.Itoa(st.Total)})
	table.Render()
	return nil
}

func runGet(c *cli.Context, svc *responses.Service) error {
	key := c.Args().First()
	if key == "" {
		return cli.Exit("a response key is required", 2)
	}
	r, err := svc.Get(c.Context, key)
	if err != nil {
		return err
	}
	if c.Bool(jsonFlag.Name) {
		return writeJSON(c.App.Writer, r)
	}
	table := tablewriter.NewWriter(c.App.Writer)
	table.Append([]string{"Key", r.Key})
	table.Append([]string{"Answer", r.Value.Answer})
	table.Append([]string{"Timestamp", r.Value.Timestamp})
	table.Append([]string{"Message", r.Value.Message})
	table.Render()
	return nil
}

func runSubmit(c *cli.Context, svc *responses.Service) error {
	ts := c.String(timestampFlag.Name)
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	key, err := svc.Submit(c.Context, c.String(answerFlag.Name), c.String(messageFlag.Name), ts)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, key)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
