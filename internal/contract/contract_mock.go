package contract

import (
	"context"
	"time"

	"github.com/huangsam/weighttrend/schema"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

var _ Provider = &MockProvider{} // Compile-time check

// Bins mocks the Bins method.
func (m *MockProvider) Bins(ctx context.Context, span schema.Span) ([]schema.Bin, error) {
	args := m.Called(ctx, span)
	bins, _ := args.Get(0).([]schema.Bin)
	return bins, args.Error(1)
}

// BMIBins mocks the BMIBins method.
func (m *MockProvider) BMIBins(ctx context.Context, span schema.Span) ([]schema.Bin, error) {
	args := m.Called(ctx, span)
	bins, _ := args.Get(0).([]schema.Bin)
	return bins, args.Error(1)
}

// MockPreferenceStore is a mock implementation of PreferenceStore for testing.
type MockPreferenceStore struct {
	mock.Mock
}

var _ PreferenceStore = &MockPreferenceStore{} // Compile-time check

// Get mocks the Get method.
func (m *MockPreferenceStore) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

// Set mocks the Set method.
func (m *MockPreferenceStore) Set(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ CacheStore = &MockCacheStore{} // Compile-time check

// Get mocks the Get method.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set mocks the Set method.
func (m *MockCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	args := m.Called(key, value, version, timestamp)
	return args.Error(0)
}

// GetStatus mocks the GetStatus method.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close mocks the Close method.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSampleStore is a mock implementation of SampleStore for testing.
type MockSampleStore struct {
	mock.Mock
}

var _ SampleStore = &MockSampleStore{} // Compile-time check

// InsertSamples mocks the InsertSamples method.
func (m *MockSampleStore) InsertSamples(ctx context.Context, samples []schema.Sample) error {
	args := m.Called(ctx, samples)
	return args.Error(0)
}

// ListSamples mocks the ListSamples method.
func (m *MockSampleStore) ListSamples(ctx context.Context, start, end time.Time) ([]schema.Sample, error) {
	args := m.Called(ctx, start, end)
	samples, _ := args.Get(0).([]schema.Sample)
	return samples, args.Error(1)
}

// GetStatus mocks the GetStatus method.
func (m *MockSampleStore) GetStatus() (schema.SampleStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SampleStatus), args.Error(1)
}

// Close mocks the Close method.
func (m *MockSampleStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ CacheManager = &MockCacheManager{} // Compile-time check

// GetSnapshotStore mocks the GetSnapshotStore method.
func (m *MockCacheManager) GetSnapshotStore() CacheStore {
	args := m.Called()
	store, _ := args.Get(0).(CacheStore)
	return store
}

// GetPreferenceStore mocks the GetPreferenceStore method.
func (m *MockCacheManager) GetPreferenceStore() PreferenceStore {
	args := m.Called()
	store, _ := args.Get(0).(PreferenceStore)
	return store
}

// GetSampleStore mocks the GetSampleStore method.
func (m *MockCacheManager) GetSampleStore() SampleStore {
	args := m.Called()
	store, _ := args.Get(0).(SampleStore)
	return store
}
