// Package iocache is for persisting snapshots, preferences and raw samples.
package iocache

import (
	"sync"

	"github.com/huangsam/weighttrend/internal/contract"
)

// CacheStoreManager manages the persistent store instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	snapshots    contract.CacheStore
	preferences  contract.PreferenceStore
	samples      contract.SampleStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetSnapshotStore returns the series snapshot CacheStore.
func (mgr *CacheStoreManager) GetSnapshotStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}

// GetPreferenceStore returns the user preference store.
func (mgr *CacheStoreManager) GetPreferenceStore() contract.PreferenceStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.preferences
}

// GetSampleStore returns the raw sample store.
func (mgr *CacheStoreManager) GetSampleStore() contract.SampleStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.samples
}
