package flow

import (
	"context"
	"time"

	"github.com/jask/truckfinder/internal/domain"
)

// Backend stands in for the remote calls made during onboarding.
type Backend interface {
	SendCode(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) error
	SaveName(ctx context.Context, name string) error
	CreateOrder(ctx context.Context, order domain.Order) error
}

// Latency of each simulated call, in units.
const (
	sendCodeUnits    = 2
	verifyCodeUnits  = 2
	saveNameUnits    = 1
	createOrderUnits = 2
)

// SimulatedBackend accepts every request after a fixed delay. A cancelled
// context ends the wait early with ctx.Err().
type SimulatedBackend struct {
	Unit time.Duration
}

func (b SimulatedBackend) SendCode(ctx context.Context, _ string) error {
	return b.wait(ctx, sendCodeUnits)
}

func (b SimulatedBackend) VerifyCode(ctx context.Context, _, _ string) error {
	return b.wait(ctx, verifyCodeUnits)
}

func (b SimulatedBackend) SaveName(ctx context.Context, _ string) error {
	return b.wait(ctx, saveNameUnits)
}

func (b SimulatedBackend) CreateOrder(ctx context.Context, _ domain.Order) error {
	return b.wait(ctx, createOrderUnits)
}

func (b SimulatedBackend) wait(ctx context.Context, units int) error {
	d := time.Duration(units) * b.Unit
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
