package iocache

import (
	"time"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// preferenceVersion is stored with every preference row.
const preferenceVersion = 1

// PreferenceStoreImpl stores string preferences on top of a CacheStoreImpl table.
type PreferenceStoreImpl struct {
	kv  *CacheStoreImpl
	now func() time.Time
}

var _ contract.PreferenceStore = &PreferenceStoreImpl{} // Compile-time check

// NewPreferenceStore creates a preference store on the given backend.
func NewPreferenceStore(backend schema.DatabaseBackend, connStr string) (*PreferenceStoreImpl, error) {
	kv, err := NewCacheStore(contract.PreferenceTable, backend, connStr)
	if err != nil {
		return nil, err
	}
	return &PreferenceStoreImpl{kv: kv, now: time.Now}, nil
}

// Get returns the stored value, or contract.ErrNotFound.
func (ps *PreferenceStoreImpl) Get(key string) (string, error) {
	value, _, _, err := ps.kv.Get(key)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Set stores or replaces the value.
func (ps *PreferenceStoreImpl) Set(key, value string) error {
	return ps.kv.Set(key, []byte(value), preferenceVersion, ps.now().Unix())
}

// Close closes the underlying DB connection.
func (ps *PreferenceStoreImpl) Close() error {
	return ps.kv.Close()
}
