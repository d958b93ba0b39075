package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Yahiahu/SCM-sub000/internal/app"
	"github.com/Yahiahu/SCM-sub000/internal/config"
	"github.com/Yahiahu/SCM-sub000/internal/domain"
	"github.com/Yahiahu/SCM-sub000/internal/service"
	"github.com/Yahiahu/SCM-sub000/pkg/logger"
	"github.com/urfave/cli/v2"
)

const serviceKey = "po-service"

func newJSONFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Print JSON instead of a table",
	}
}

// initService builds the purchase order service from the environment and
// keeps it on the app metadata for the command's Action.
func initService(c *cli.Context) error {
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	svc, closeSource, err := app.NewPOService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize purchase order service: %w", err)
	}
	c.App.Metadata[serviceKey] = svc
	c.App.Metadata[serviceKey+".close"] = closeSource
	return nil
}

func closeService(c *cli.Context) error {
	if closeFn, ok := c.App.Metadata[serviceKey+".close"].(func()); ok && closeFn != nil {
		closeFn()
	}
	return nil
}

func poService(c *cli.Context) *service.POService {
	svc, _ := c.App.Metadata[serviceKey].(*service.POService)
	return svc
}

func parseIDArg(c *cli.Context) (int64, error) {
	raw := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(c.Args().First())), "PO-")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid purchase order id %q", c.Args().First())
	}
	return id, nil
}

func main() {
	app := &cli.App{
		Name:     "pocli",
		Usage:    "Inspect and act on purchase orders",
		Metadata: map[string]interface{}{},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List purchase orders, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tab", Usage: "All, Drafts, Pending Approval, Ordered, Delivered or Unpaid", Value: string(domain.TabAll)},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search PO number, vendor or assignee"},
					newJSONFlag(),
				},
				Before: initService,
				After:  closeService,
				Action: runList,
			},
			{
				Name:      "show",
				Usage:     "Show one purchase order with its items",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{newJSONFlag()},
				Before:    initService,
				After:     closeService,
				Action:    runShow,
			},
			{
				Name:      "act",
				Usage:     "Apply an action such as \"Approve\" or \"Mark as Ordered\"",
				ArgsUsage: "<id> <action>",
				Flags:     []cli.Flag{newJSONFlag()},
				Before:    initService,
				After:     closeService,
				Action:    runAct,
			},
			{
				Name:   "summary",
				Usage:  "Show tab counts and value totals",
				Flags:  []cli.Flag{newJSONFlag()},
				Before: initService,
				After:  closeService,
				Action: runSummary,
			},
			{
				Name:  "seed",
				Usage: "Create the backend tables and load a JSON fixture",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:    "file",
						Usage:   "Fixture with suppliers, users, purchase_orders and items",
						Value:   "./data/fixtures/purchase_orders.json",
						EnvVars: []string{"SEED_FILE"},
					},
				},
				Action: runSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("pocli failed")
	}
}

func runList(c *cli.Context) error {
	tab, err := domain.ParseTab(c.String("tab"))
	if err != nil {
		return err
	}
	rows, err := poService(c).ListPurchaseOrders(c.Context, domain.ListFilter{Tab: tab, Query: strings.TrimSpace(c.String("query"))})
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, rows)
	}
	return writeRows(c.App.Writer, rows)
}

func runShow(c *cli.Context) error {
	id, err := parseIDArg(c)
	if err != nil {
		return err
	}
	row, err := poService(c).GetPurchaseOrder(c.Context, id)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, row)
	}
	return writeDetail(c.App.Writer, *row)
}

func runAct(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("usage: pocli act <id> <action>")
	}
	id, err := parseIDArg(c)
	if err != nil {
		return err
	}
	action, err := domain.ParseAction(strings.Join(c.Args().Tail(), " "))
	if err != nil {
		return err
	}

	row, err := poService(c).ApplyAction(c.Context, id, action)
	if err != nil {
		return err
	}
	if row == nil {
		fmt.Fprintf(c.App.Writer, "%s deleted\n", domain.FormatPONumber(id))
		return nil
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, row)
	}
	fmt.Fprintf(c.App.Writer, "%s is now %s (%s)\n", row.PONumber, row.Status, row.PaymentStatus)
	return nil
}

func runSummary(c *cli.Context) error {
	summary, err := poService(c).Summary(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, summary)
	}
	return writeSummary(c.App.Writer, *summary)
}
