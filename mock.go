package msa3xx

import (
	"context"
)

// AccelerationBehaviorFunc defines the function signature for acceleration behavior.
// It returns a three-axis reading in m/s² or an error.
type AccelerationBehaviorFunc func(ctx context.Context) (Acceleration, error)

// MockAccelerometer is a mock implementation of an accelerometer that uses a
// behavior function to produce readings without requiring hardware.
type MockAccelerometer struct {
	behavior AccelerationBehaviorFunc
}

// NewMockAccelerometer creates a new mock accelerometer with the given behavior function.
// The behavior function is called whenever ReadAcceleration is invoked.
//
// Example usage:
//
//	s := NewMockAccelerometer(func(ctx context.Context) (Acceleration, error) {
//		return Acceleration{Z: StandardGravity}, nil
//	})
func NewMockAccelerometer(behavior AccelerationBehaviorFunc) *MockAccelerometer {
	return &MockAccelerometer{behavior: behavior}
}

// ReadAcceleration returns a reading by calling the behavior function.
func (m *MockAccelerometer) ReadAcceleration(ctx context.Context) (Acceleration, error) {
	return m.behavior(ctx)
}
