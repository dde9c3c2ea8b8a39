package mocks

import (
	"io"

	"github.com/brettbedarf/memvfs"
	"github.com/stretchr/testify/mock"
)

// MockApplier implements runner.Applier for testing across packages
type MockApplier struct {
	mock.Mock
}

func (m *MockApplier) Apply(cmd memvfs.Command, w io.Writer) error {
	args := m.Called(cmd, w)

	// Handle function return types (for tests that write a listing)
	if fn, ok := args.Get(0).(func(memvfs.Command, io.Writer) error); ok {
		return fn(cmd, w)
	}
	return args.Error(0)
}
