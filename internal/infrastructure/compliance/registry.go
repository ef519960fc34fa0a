// Package compliance provides a local, operator-administered implementation
// of the compliance gate. Entries are seeded from configuration at startup
// and can be mutated at runtime by the registry's administrator.
package compliance

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/recurra/recurra-daemon/internal/core/ports"
)

type Registry struct {
	assets map[common.Address]bool
	locker sync.RWMutex
}

// NewRegistry returns a ComplianceGate pre-seeded with the given compliant
// assets.
func NewRegistry(compliantAssets []common.Address) *Registry {
	assets := make(map[common.Address]bool, len(compliantAssets))
	for _, asset := range compliantAssets {
		assets[asset] = true
	}
	return &Registry{assets: assets}
}

func (r *Registry) IsCompliant(
	_ context.Context, asset common.Address,
) (bool, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	return r.assets[asset], nil
}

func (r *Registry) RequireCompliant(
	ctx context.Context, asset common.Address,
) error {
	isCompliant, err := r.IsCompliant(ctx, asset)
	if err != nil {
		return err
	}
	if !isCompliant {
		return fmt.Errorf("asset %s is not compliant", asset)
	}
	return nil
}

// AddAsset marks an asset as compliant.
func (r *Registry) AddAsset(asset common.Address) {
	r.locker.Lock()
	defer r.locker.Unlock()

	r.assets[asset] = true
	log.Infof("compliance: added asset %s", asset)
}

// RemoveAsset deletes an asset from the registry. A removed asset reads as
// not compliant.
func (r *Registry) RemoveAsset(asset common.Address) {
	r.locker.Lock()
	defer r.locker.Unlock()

	delete(r.assets, asset)
	log.Infof("compliance: removed asset %s", asset)
}

// UpdateAsset sets the compliance flag of an asset explicitly.
func (r *Registry) UpdateAsset(asset common.Address, compliant bool) {
	r.locker.Lock()
	defer r.locker.Unlock()

	r.assets[asset] = compliant
	log.Infof("compliance: set asset %s compliant=%t", asset, compliant)
}

var _ ports.ComplianceGate = (*Registry)(nil)
