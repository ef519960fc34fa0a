package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// UpkeepIntervalKey is the cadence of the scan-then-perform batch loop
	UpkeepIntervalKey = "UPKEEP_INTERVAL"
	// CatchUpBoundKey is the max number of intervals advanced per order in
	// one catch-up pass
	CatchUpBoundKey = "CATCHUP_BOUND"
	// CatchUpWorkersKey is the number of orders caught up concurrently
	CatchUpWorkersKey = "CATCHUP_WORKERS"
	// RouterAddrKey is the address of the external swap router service
	RouterAddrKey = "ROUTER_ADDR"
	// RouterDeadlineKey is the duration after which a router execution is
	// treated as failed instead of left open
	RouterDeadlineKey = "ROUTER_DEADLINE"
	// WrappedNativeKey is the token the router receives in place of the
	// native asset sentinel. Orders funded with the native asset are
	// rejected when it is unset
	WrappedNativeKey = "WRAPPED_NATIVE"
	// RelayerAddrKey is the address of the cross-chain message relayer
	RelayerAddrKey = "RELAYER_ADDR"
	// DestChainKey is the id of the remote chain receiving swap messages
	DestChainKey = "DEST_CHAIN"
	// FeeAssetKey is the asset paying for remote execution fees
	FeeAssetKey = "FEE_ASSET"
	// FeeBudgetKey is the fixed fee budget attached to every message
	FeeBudgetKey = "FEE_BUDGET"
	// RequiredWeightKey is the resource budget declared for the remote call.
	// The overall budget is always twice this value.
	RequiredWeightKey = "REQUIRED_WEIGHT"
	// PalletIndexKey is the module selector of the remote swap call
	PalletIndexKey = "PALLET_INDEX"
	// CallIndexKey is the call selector of the remote swap call
	CallIndexKey = "CALL_INDEX"
	// ReportersKey is the space-separated list of addresses trusted to
	// report cross-chain swap outcomes
	ReportersKey = "REPORTERS"
	// CompliantAssetsKey is the space-separated list of assets seeded as
	// compliant at startup
	CompliantAssetsKey = "COMPLIANT_ASSETS"
	// StatsIntervalKey defines the interval for printing basic daemon
	// statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// EnableProfilerKey enables the profiler that can be used to investigate
	// performance issues
	EnableProfilerKey = "ENABLE_PROFILER"

	// DBBadger ...
	DBBadger = "badger"
	// DBInMemory ...
	DBInMemory = "inmemory"

	// DbLocation ...
	DbLocation = "db"
	// ProfilerLocation ...
	ProfilerLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("recurra-daemon", false)

// InitConfig loads the environment with the RECURRA prefix, applies defaults
// and prepares the datadir.
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("RECURRA")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(UpkeepIntervalKey, time.Minute)
	vip.SetDefault(CatchUpBoundKey, 10)
	vip.SetDefault(CatchUpWorkersKey, 4)
	vip.SetDefault(RouterDeadlineKey, 30*time.Second)
	vip.SetDefault(DestChainKey, 2004)
	vip.SetDefault(FeeBudgetKey, 100000000)
	vip.SetDefault(RequiredWeightKey, 400000000)
	vip.SetDefault(PalletIndexKey, 0x23)
	vip.SetDefault(CallIndexKey, 0x04)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(EnableProfilerKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetAddress parses the value of a key as a checksummed or plain hex address.
func GetAddress(key string) (common.Address, error) {
	value := vip.GetString(key)
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s is not a valid address: %q", key, value)
	}
	return common.HexToAddress(value), nil
}

// GetOptionalAddress parses the value of a key as a hex address, returning
// the zero address when the key is unset.
func GetOptionalAddress(key string) (common.Address, error) {
	if vip.GetString(key) == "" {
		return common.Address{}, nil
	}
	return GetAddress(key)
}

// GetAddressSlice parses the value of a key as a list of hex addresses.
func GetAddressSlice(key string) ([]common.Address, error) {
	values := vip.GetStringSlice(key)
	addresses := make([]common.Address, 0, len(values))
	for _, value := range values {
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("%s contains an invalid address: %q", key, value)
		}
		addresses = append(addresses, common.HexToAddress(value))
	}
	return addresses, nil
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	switch dbType := GetString(DBTypeKey); dbType {
	case DBBadger, DBInMemory:
	default:
		return fmt.Errorf("unsupported database type %q", dbType)
	}

	if !vip.IsSet(RouterAddrKey) {
		return fmt.Errorf("missing router address")
	}
	if !vip.IsSet(RelayerAddrKey) {
		return fmt.Errorf("missing relayer address")
	}

	if _, err := GetAddress(FeeAssetKey); err != nil {
		return err
	}
	if _, err := GetOptionalAddress(WrappedNativeKey); err != nil {
		return err
	}
	if _, err := GetAddressSlice(ReportersKey); err != nil {
		return err
	}
	if _, err := GetAddressSlice(CompliantAssetsKey); err != nil {
		return err
	}

	if GetUint64(RequiredWeightKey) == 0 {
		return fmt.Errorf("%s must be positive", RequiredWeightKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	if GetBool(EnableProfilerKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
