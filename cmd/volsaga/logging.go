package main

import (
	"context"

	"github.com/kompox/volsaga/internal/logging"
)

// withCmdRunLogger opens a CMD:<operation> span whose logger carries
// resourceId.
//
//	ctx, cleanup := withCmdRunLogger(ctx, "admin.volume.create", name)
//	defer func() { cleanup(err) }()
func withCmdRunLogger(ctx context.Context, operation, resourceID string) (context.Context, func(err error)) {
	ctx, end := logging.Span(ctx, "CMD", operation, "resourceId", resourceID)
	return ctx, func(err error) { end(err) }
}
