package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/recurra/recurra-daemon/internal/config"
)

var catchup = cli.Command{
	Name:  "catchup",
	Usage: "advance all orders that fell behind schedule, then exit",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "bound",
			Usage: "max intervals advanced per order",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of orders caught up concurrently",
		},
	},
	Action: catchupAction,
}

func catchupAction(ctx *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := newRepoManager()
	if err != nil {
		return err
	}
	defer repoManager.Close()

	svc, err := newServices(repoManager)
	if err != nil {
		return err
	}

	bound := ctx.Int("bound")
	if bound <= 0 {
		bound = config.GetInt(config.CatchUpBoundKey)
	}
	workers := ctx.Int("workers")
	if workers <= 0 {
		workers = config.GetInt(config.CatchUpWorkersKey)
	}

	summary, err := svc.catchUp.CatchUpAll(context.Background(), bound, workers)
	if err != nil {
		return err
	}

	log.Infof(
		"caught up %d orders, advanced %d intervals in %s",
		summary.Orders, summary.Advanced, summary.Elapsed,
	)
	if summary.Failed > 0 {
		return fmt.Errorf("%d orders failed to advance", summary.Failed)
	}
	return nil
}
