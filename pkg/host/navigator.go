// Package host delivers channel side effects to the embedding host.
//
// The only capability the command channel consumes is navigation: telling
// the host environment to move to a location. Navigate is fire-and-forget;
// implementations must not block on acknowledgement from the host.
package host

import (
	"context"

	"github.com/jetrotal/YN-HUB/pkg/logger"
)

// Navigator moves the host environment to a location.
type Navigator interface {
	Navigate(ctx context.Context, location string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, location string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(ctx context.Context, location string) {
	f(ctx, location)
}

// LogNavigator only logs navigations. It backs dry runs.
type LogNavigator struct {
	Logger logger.Logger
}

// Navigate logs location.
func (n LogNavigator) Navigate(_ context.Context, location string) {
	n.Logger.Info("navigate (dry run)", "location", location)
}
