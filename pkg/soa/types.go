// Package soa implements the session-aware call pipeline for the Teamcenter
// SOA HTTP API: request envelope construction, cookie-level session state,
// the HTTP transport, and normalization of the per-operation response shapes.
package soa

// Operation identifies one backend call as a (service, operation) pair. The
// request and response shape of the SOA API is specific to each pair, so the
// pair is the dispatch key for both envelope building and normalization.
type Operation struct {
	Service string
	Name    string
}

// String returns the wire form used in endpoint paths and logs.
func (o Operation) String() string {
	return o.Service + "/" + o.Name
}

// Known operations. The session services exist in several versions with
// incompatible response layouts; both login variants are listed so the
// normalizer can map either.
var (
	OpLogin       = Operation{Service: "Core-2011-06-Session", Name: "login"}
	OpLoginLegacy = Operation{Service: "Core-2006-03-Session", Name: "login"}
	OpLogout      = Operation{Service: "Core-2006-03-Session", Name: "logout"}

	OpPerformSearch = Operation{Service: "Query-2012-10-Finder", Name: "performSearch"}

	OpGetItemFromID = Operation{Service: "Core-2007-01-DataManagement", Name: "getItemFromId"}
	OpCreateItems   = Operation{Service: "Core-2006-03-DataManagement", Name: "createItems"}
	OpSetProperties = Operation{Service: "Core-2010-09-DataManagement", Name: "setProperties"}
	OpGetProperties = Operation{Service: "Core-2006-03-DataManagement", Name: "getProperties"}

	OpGetTypeDescriptions = Operation{Service: "Core-2015-07-Session", Name: "getTypeDescriptions2"}
	OpGetSessionInfo      = Operation{Service: "Core-2007-01-Session", Name: "getTCSessionInfo"}
	OpGetFavorites        = Operation{Service: "Core-2008-03-Session", Name: "getFavorites"}
)

// Session represents one authenticated backend login.
type Session struct {
	// ID is the opaque session token or cookie value.
	ID string `json:"session_id"`

	// UserID identifies the logged-in user.
	UserID string `json:"user_id"`

	// DisplayName is the user's display name; falls back to UserID.
	DisplayName string `json:"display_name,omitempty"`

	GroupID   string `json:"group_id,omitempty"`
	GroupName string `json:"group_name,omitempty"`
	RoleID    string `json:"role_id,omitempty"`
	RoleName  string `json:"role_name,omitempty"`
	Locale    string `json:"locale,omitempty"`

	// ServerVersion and ServerID describe the backend that issued the
	// session.
	ServerVersion string `json:"server_version,omitempty"`
	ServerID      string `json:"server_id,omitempty"`
}

// Valid reports whether the session carries both identifiers required for
// authenticated calls.
func (s *Session) Valid() bool {
	return s != nil && s.ID != "" && s.UserID != ""
}

// SearchResults is the normalized form of a performSearch response.
type SearchResults struct {
	// Items are the raw item records; the object converter turns them into
	// canonical items.
	Items []map[string]any `json:"items"`

	TotalFound  int `json:"total_found"`
	TotalLoaded int `json:"total_loaded"`

	// Filters carries the backend's search filter metadata unmodified.
	Filters map[string]any `json:"filters,omitempty"`
}

// LogoutAck is the normalized form of a logout response.
type LogoutAck struct {
	LoggedOut bool `json:"logged_out"`
}

// CallResult is what the transport hands back for a successful call.
type CallResult struct {
	// Data is the normalized payload: *Session, *SearchResults, LogoutAck,
	// or the raw decoded body for operations without a normalizer entry.
	Data any

	// SessionID is a session token discovered in the response headers, if
	// any. Cookie-origin tokens are persisted into the CookieStore by the
	// transport and take precedence over this value.
	SessionID string
}
