package webhook

import "context"

// Processor receives verified, first-seen events.
// Implementations can dispatch synchronously or asynchronously.
type Processor interface {
	ProcessVendorEvent(ctx context.Context, event VendorEvent) error
	ProcessPlatformEvent(ctx context.Context, event PlatformEvent) error
}
