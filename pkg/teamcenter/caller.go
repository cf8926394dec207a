// Package teamcenter is the service facade: the single entry point the MCP
// shell calls. It owns the authenticated session, validates parameters
// before any network call, and wraps every failure into the uniform Result
// envelope.
package teamcenter

import (
	"context"

	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/soa"
)

// Caller abstracts the SOA call pipeline. The real implementation is
// *soa.Client; pkg/mock provides a deterministic in-memory one behind the
// same (service, operation) dispatch.
type Caller interface {
	// Call executes one backend operation with the given session token
	// attached, returning the normalized payload and any session token
	// discovered in the response.
	Call(ctx context.Context, op soa.Operation, params map[string]any, sessionToken string) (*soa.CallResult, error)

	// Cookies exposes the cookie-level session store so the facade can keep
	// the authoritative session consistent with the wire-level one.
	Cookies() *soa.CookieStore
}

// The HTTP transport is the production Caller.
var _ Caller = (*soa.Client)(nil)
