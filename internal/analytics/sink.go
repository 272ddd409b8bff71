// Package analytics models the optional analytics vendor as an injected
// capability. Components take a Sink and call it unconditionally; callers
// that do not use analytics inject Noop.
package analytics

import "context"

// Properties is a free-form bag of event or identity attributes.
type Properties map[string]any

// Sink receives identity and event reports. Implementations must be safe
// for concurrent use and should never block the caller's request path.
type Sink interface {
	// Identify associates properties with a user identity.
	Identify(ctx context.Context, identity string, props Properties) error

	// Track records a named event for a user identity.
	Track(ctx context.Context, identity string, event string, props Properties) error
}

// Noop is the default Sink: it discards everything.
type Noop struct{}

func (Noop) Identify(ctx context.Context, identity string, props Properties) error {
	return nil
}

func (Noop) Track(ctx context.Context, identity string, event string, props Properties) error {
	return nil
}
