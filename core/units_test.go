package core

import (
	"errors"
	"testing"

	"github.com/huangsam/weighttrend/internal/contract"
	"github.com/huangsam/weighttrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUnit(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		err     error
		want    schema.Unit
		wantErr bool
	}{
		{"stored pound", "lb", nil, schema.Pound, false},
		{"stored kilogram", "kg", nil, schema.Kilogram, false},
		{"missing", "", contract.ErrNotFound, schema.Kilogram, false},
		{"unknown value", "stone", nil, schema.Kilogram, false},
		{"store failure", "", errors.New("locked"), schema.Kilogram, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &contract.MockPreferenceStore{}
			store.On("Get", contract.UnitPreferenceKey).Return(tt.value, tt.err)

			got, err := LoadUnit(store)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			store.AssertExpectations(t)
		})
	}

	got, err := LoadUnit(nil)
	require.NoError(t, err)
	assert.Equal(t, schema.Kilogram, got)
}

func TestSaveUnit(t *testing.T) {
	store := &contract.MockPreferenceStore{}
	store.On("Set", contract.UnitPreferenceKey, "lb").Return(nil)
	require.NoError(t, SaveUnit(store, schema.Pound))
	store.AssertExpectations(t)

	assert.NoError(t, SaveUnit(nil, schema.Kilogram))
}
