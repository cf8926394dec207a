package soa

import "log/slog"

// passthroughOps are operations whose response bodies are intentionally
// returned untyped: their payloads are object-model maps the callers
// consume as-is.
var passthroughOps = map[Operation]bool{
	OpGetItemFromID:       true,
	OpCreateItems:         true,
	OpSetProperties:       true,
	OpGetProperties:       true,
	OpGetTypeDescriptions: true,
	OpGetSessionInfo:      true,
	OpGetFavorites:        true,
}

// Normalize maps a decoded response body into the canonical shape for op.
//
// The backend is not internally consistent about response layout across its
// own operation versions (the two login services disagree on field layout),
// so normalization is enumerated per known pair. Known passthrough pairs are
// returned unmodified; callers must treat those payloads as untyped. A warn
// is reserved for pairs this package has never heard of.
func Normalize(op Operation, body any) any {
	raw, _ := body.(map[string]any)

	switch op {
	case OpLogin:
		return normalizeLogin(raw)
	case OpLoginLegacy:
		return normalizeLoginLegacy(raw)
	case OpLogout:
		return LogoutAck{LoggedOut: true}
	case OpPerformSearch:
		return normalizeSearch(raw)
	default:
		if passthroughOps[op] {
			slog.Debug("passing response body through untyped",
				"service", op.Service, "operation", op.Name)
		} else {
			slog.Warn("no normalizer for operation, passing body through",
				"service", op.Service, "operation", op.Name)
		}
		return body
	}
}

// normalizeLogin maps the Core-2011-06-Session login response, which nests
// the user and server details under a serverInfo object.
func normalizeLogin(raw map[string]any) *Session {
	s := &Session{}
	if raw == nil {
		return s
	}
	s.ID = stringField(raw, "sessionId")
	info, ok := raw["serverInfo"].(map[string]any)
	if !ok {
		return s
	}
	s.UserID = stringField(info, "UserID")
	s.DisplayName = stringField(info, "DisplayUserName")
	if s.DisplayName == "" {
		s.DisplayName = s.UserID
	}
	s.Locale = stringField(info, "Locale")
	s.ServerVersion = stringField(info, "Version")
	s.ServerID = stringField(info, "TcServerID")
	return s
}

// normalizeLoginLegacy maps the Core-2006-03-Session login response, which
// uses flat fields.
func normalizeLoginLegacy(raw map[string]any) *Session {
	s := &Session{}
	if raw == nil {
		return s
	}
	s.ID = stringField(raw, "sessionId")
	s.UserID = stringField(raw, "userId")
	s.DisplayName = stringField(raw, "userName")
	if s.DisplayName == "" {
		s.DisplayName = s.UserID
	}
	s.GroupID = stringField(raw, "groupId")
	s.GroupName = stringField(raw, "group")
	s.RoleID = stringField(raw, "roleId")
	s.RoleName = stringField(raw, "role")
	s.Locale = stringField(raw, "locale")
	s.ServerVersion = stringField(raw, "serverVersion")
	return s
}

// normalizeSearch maps a performSearch response into SearchResults.
func normalizeSearch(raw map[string]any) *SearchResults {
	results := &SearchResults{Items: []map[string]any{}}
	if raw == nil {
		return results
	}

	if list, ok := raw["searchResults"].([]any); ok {
		for _, entry := range list {
			if rec, ok := entry.(map[string]any); ok {
				results.Items = append(results.Items, rec)
			}
		}
	}
	results.TotalFound = intField(raw, "totalFound")
	results.TotalLoaded = intField(raw, "totalLoaded")
	if results.TotalLoaded == 0 {
		results.TotalLoaded = len(results.Items)
	}
	if filters, ok := raw["searchFilterMap"].(map[string]any); ok {
		results.Filters = filters
	}
	return results
}

// stringField returns raw[key] as a string, or "".
func stringField(raw map[string]any, key string) string {
	v, _ := raw[key].(string)
	return v
}

// intField returns raw[key] as an int, tolerating the float64 that
// encoding/json produces for all numbers.
func intField(raw map[string]any, key string) int {
	switch v := raw[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
