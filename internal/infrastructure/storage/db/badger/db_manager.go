package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/recurra/recurra-daemon/internal/core/domain"
	"github.com/recurra/recurra-daemon/internal/core/ports"
)

const sequenceBandwidth = 100

// DbManager holds all the badgerhold stores in a single data structure.
type DbManager struct {
	ordersStore     *badgerhold.Store
	swapsStore      *badgerhold.Store
	executionsStore *badgerhold.Store

	orderSeq *badger.Sequence
	nonceSeq *badger.Sequence

	orderRepository     domain.OrderRepository
	swapRepository      domain.CrossChainSwapRepository
	executionRepository domain.ExecutionRepository
}

// NewDbManager opens (or creates if not existing) the badger stores on disk.
// It expects a base data dir and an optional logger, and creates a dedicated
// directory for orders, swaps and executions.
func NewDbManager(baseDbDir string, logger badger.Logger) (*DbManager, error) {
	ordersDb, err := createDb(baseDbDir+"/orders", logger)
	if err != nil {
		return nil, fmt.Errorf("opening orders db: %w", err)
	}

	swapsDb, err := createDb(baseDbDir+"/swaps", logger)
	if err != nil {
		return nil, fmt.Errorf("opening swaps db: %w", err)
	}

	executionsDb, err := createDb(baseDbDir+"/executions", logger)
	if err != nil {
		return nil, fmt.Errorf("opening executions db: %w", err)
	}

	orderSeq, err := ordersDb.Badger().GetSequence([]byte("order_id"), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("opening order id sequence: %w", err)
	}
	nonceSeq, err := swapsDb.Badger().GetSequence([]byte("swap_nonce"), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("opening swap nonce sequence: %w", err)
	}

	manager := &DbManager{
		ordersStore:     ordersDb,
		swapsStore:      swapsDb,
		executionsStore: executionsDb,
		orderSeq:        orderSeq,
		nonceSeq:        nonceSeq,
	}
	manager.orderRepository = newOrderRepositoryImpl(manager)
	manager.swapRepository = newCrossChainSwapRepositoryImpl(manager)
	manager.executionRepository = newExecutionRepositoryImpl(manager)
	return manager, nil
}

// OrderRepository implements the RepoManager interface.
func (d *DbManager) OrderRepository() domain.OrderRepository {
	return d.orderRepository
}

// CrossChainSwapRepository implements the RepoManager interface.
func (d *DbManager) CrossChainSwapRepository() domain.CrossChainSwapRepository {
	return d.swapRepository
}

// ExecutionRepository implements the RepoManager interface.
func (d *DbManager) ExecutionRepository() domain.ExecutionRepository {
	return d.executionRepository
}

// Close implements the RepoManager interface.
func (d *DbManager) Close() error {
	if err := d.orderSeq.Release(); err != nil {
		return err
	}
	if err := d.nonceSeq.Release(); err != nil {
		return err
	}
	for _, store := range []*badgerhold.Store{
		d.ordersStore, d.swapsStore, d.executionsStore,
	} {
		if err := store.Close(); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.RepoManager = (*DbManager)(nil)

// JSONEncode is a custom JSON based encoder for badger.
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)
	if err := en.Encode(value); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger.
func JSONDecode(data []byte, value interface{}) error {
	de := json.NewDecoder(bytes.NewReader(data))
	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: sequenceBandwidth,
		Options:          opts,
	})
}
