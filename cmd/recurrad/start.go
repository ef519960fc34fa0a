package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/recurra/recurra-daemon/internal/config"
	"github.com/recurra/recurra-daemon/internal/core/application"
	"github.com/recurra/recurra-daemon/internal/core/ports"
	"github.com/recurra/recurra-daemon/internal/infrastructure/compliance"
	"github.com/recurra/recurra-daemon/internal/infrastructure/pubsub"
	dbbadger "github.com/recurra/recurra-daemon/internal/infrastructure/storage/db/badger"
	"github.com/recurra/recurra-daemon/internal/infrastructure/storage/db/inmemory"
	swaprouter "github.com/recurra/recurra-daemon/internal/infrastructure/swap-router"
	"github.com/recurra/recurra-daemon/internal/infrastructure/transport"
	"github.com/recurra/recurra-daemon/internal/infrastructure/treasury"
	"github.com/recurra/recurra-daemon/pkg/stats"
	"github.com/recurra/recurra-daemon/pkg/xmsg"
)

var start = cli.Command{
	Name:   "start",
	Usage:  "run the daemon: scan and execute due orders on a fixed cadence",
	Action: startAction,
}

func startAction(ctx *cli.Context) error {
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

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		statsInterval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		stats.EnableMemoryStatistics(
			appCtx, statsInterval,
			filepath.Join(config.GetDatadir(), config.ProfilerLocation),
		)
	}

	go svc.upkeep.Run(appCtx, config.GetDuration(config.UpkeepIntervalKey))

	log.Info("daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
	return nil
}

type services struct {
	order      application.OrderService
	upkeep     application.UpkeepService
	catchUp    application.CatchUpService
	crossChain application.CrossChainService
}

func newRepoManager() (ports.RepoManager, error) {
	switch dbType := config.GetString(config.DBTypeKey); dbType {
	case config.DBBadger:
		dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
		return dbbadger.NewDbManager(dbDir, log.New())
	case config.DBInMemory:
		return inmemory.NewDbManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

func newServices(repoManager ports.RepoManager) (*services, error) {
	compliantAssets, err := config.GetAddressSlice(config.CompliantAssetsKey)
	if err != nil {
		return nil, err
	}
	reporters, err := config.GetAddressSlice(config.ReportersKey)
	if err != nil {
		return nil, err
	}
	feeAsset, err := config.GetAddress(config.FeeAssetKey)
	if err != nil {
		return nil, err
	}
	wrappedNative, err := config.GetOptionalAddress(config.WrappedNativeKey)
	if err != nil {
		return nil, err
	}

	complianceGate := compliance.NewRegistry(compliantAssets)
	swapRouter := swaprouter.NewService(config.GetString(config.RouterAddrKey))
	messageTransport := transport.NewService(config.GetString(config.RelayerAddrKey))
	treasurySvc := treasury.NewTreasury()
	pubsubSvc := pubsub.NewService()
	pubsubSvc.Subscribe(ports.AnyTopic, func(event interface{}) {
		log.Debugf("event: %+v", event)
	})

	builder := xmsg.Builder{
		DestParaId:     uint32(config.GetInt(config.DestChainKey)),
		FeeAsset:       feeAsset,
		FeeBudget:      config.GetUint64(config.FeeBudgetKey),
		RequiredWeight: config.GetUint64(config.RequiredWeightKey),
		PalletIndex:    byte(config.GetInt(config.PalletIndexKey)),
		CallIndex:      byte(config.GetInt(config.CallIndexKey)),
	}

	orderSvc := application.NewOrderService(
		repoManager, complianceGate, swapRouter, treasurySvc, pubsubSvc,
		wrappedNative, config.GetDuration(config.RouterDeadlineKey),
	)
	return &services{
		order:   orderSvc,
		upkeep:  application.NewUpkeepService(repoManager, orderSvc),
		catchUp: application.NewCatchUpService(repoManager, orderSvc),
		crossChain: application.NewCrossChainService(
			repoManager, complianceGate, messageTransport, treasurySvc,
			pubsubSvc, builder, reporters,
		),
	}, nil
}
