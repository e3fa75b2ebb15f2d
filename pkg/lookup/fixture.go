package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fixture option configuration.
type FixtureOption func(*Fixture)

// WithLatency makes every call sleep for the given duration before resolving,
// approximating a live backend. Zero disables the delay.
func WithLatency(d time.Duration) FixtureOption {
	return func(f *Fixture) {
		f.latency = d
	}
}

// Fixture is the canonical in-memory lookup backend. Given {userId, token} it
// resolves a per-id profile for user ids 1-3; given {orderId} it resolves a
// per-id order for order ids 1-3. Anything else fails with "Unknown API
// input". The error message formats are part of the compatibility contract.
type Fixture struct {
	latency time.Duration
}

// NewFixture builds the fixture service.
func NewFixture(opts ...FixtureOption) *Fixture {
	f := &Fixture{}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

var fixtureProfiles = map[string]map[string]string{
	"1": {"firstName": "Martin", "lastName": "Cholashki", "email": "example@gmail.com"},
	"2": {"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"},
	"3": {"firstName": "Grace", "lastName": "Hopper", "email": "grace@example.com"},
}

var fixtureOrders = map[string]map[string]string{
	"1": {"product": "Laptop", "quantity": "2", "status": "Shipped"},
	"2": {"product": "Monitor", "quantity": "1", "status": "Processing"},
	"3": {"product": "Keyboard", "quantity": "3", "status": "Delivered"},
}

// Lookup implements Service.
func (f *Fixture) Lookup(ctx context.Context, input map[string]string) (map[string]string, error) {
	if f.latency > 0 {
		timer := time.NewTimer(f.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if userID, ok := input["userId"]; ok && input["token"] != "" {
		profile, found := fixtureProfiles[userID]
		if !found {
			return nil, fmt.Errorf("No user found for User ID - %s", userID)
		}
		return clone(profile), nil
	}

	if orderID, ok := input["orderId"]; ok {
		order, found := fixtureOrders[orderID]
		if !found {
			return nil, fmt.Errorf("No order found for Order ID - %s", orderID)
		}
		return clone(order), nil
	}

	return nil, errors.New("Unknown API input")
}

func clone(record map[string]string) map[string]string {
	out := make(map[string]string, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
