package msa3xx

import (
	"context"
	"fmt"
	"testing"
)

func TestMockAccelerometer_StaticValue(t *testing.T) {
	s := NewMockAccelerometer(func(ctx context.Context) (Acceleration, error) {
		return Acceleration{Z: StandardGravity}, nil
	})
	acc, err := s.ReadAcceleration(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.Z != StandardGravity {
		t.Errorf("expected %f, got %f", StandardGravity, acc.Z)
	}
}

func TestMockAccelerometer_Dynamic(t *testing.T) {
	val := 1.5
	s := NewMockAccelerometer(func(ctx context.Context) (Acceleration, error) {
		return Acceleration{X: val}, nil
	})
	ctx := context.Background()

	a1, _ := s.ReadAcceleration(ctx)
	if a1.X != 1.5 {
		t.Errorf("expected 1.5, got %f", a1.X)
	}
	val = -2.25
	a2, _ := s.ReadAcceleration(ctx)
	if a2.X != -2.25 {
		t.Errorf("expected -2.25, got %f", a2.X)
	}
}

func TestMockAccelerometer_Error(t *testing.T) {
	s := NewMockAccelerometer(func(ctx context.Context) (Acceleration, error) {
		return Acceleration{}, fmt.Errorf("sensor error")
	})
	_, err := s.ReadAcceleration(context.Background())
	if err == nil || err.Error() != "sensor error" {
		t.Errorf("expected sensor error, got %v", err)
	}
}

func TestMockAccelerometer_ContextPropagation(t *testing.T) {
	var received context.Context
	s := NewMockAccelerometer(func(ctx context.Context) (Acceleration, error) {
		received = ctx
		return Acceleration{}, nil
	})
	type ctxKey string
	key := ctxKey("k")
	ctx := context.WithValue(context.Background(), key, "v")
	_, _ = s.ReadAcceleration(ctx)
	if received.Value(key) != "v" {
		t.Error("context was not propagated")
	}
}
