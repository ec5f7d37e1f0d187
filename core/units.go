package core

import (
	"errors"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
)

// LoadUnit reads the persisted unit preference. Missing or unknown values
// fall back to kilograms; only store failures are returned as errors.
func LoadUnit(store contract.PreferenceStore) (schema.Unit, error) {
	if store == nil {
		return schema.Kilogram, nil
	}
	value, err := store.Get(contract.UnitPreferenceKey)
	if errors.Is(err, contract.ErrNotFound) {
		return schema.Kilogram, nil
	}
	if err != nil {
		return schema.Kilogram, err
	}
	unit := schema.Unit(value)
	if _, ok := schema.ValidUnits[unit]; !ok {
		return schema.Kilogram, nil
	}
	return unit, nil
}

// SaveUnit persists the unit preference.
func SaveUnit(store contract.PreferenceStore, unit schema.Unit) error {
	if store == nil {
		return nil
	}
	return store.Set(contract.UnitPreferenceKey, string(unit))
}
