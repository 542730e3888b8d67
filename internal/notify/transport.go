package notify

import "context"

// Transport accepts a template name with its data and reports whether the
// hand-off succeeded. Transports never retry.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, msg Message) error

func (f TransportFunc) Deliver(ctx context.Context, msg Message) error { return f(ctx, msg) }
