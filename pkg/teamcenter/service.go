package teamcenter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/soa"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/tcerr"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/tcmodel"
)

const (
	// DefaultSearchLimit applies when a caller omits the limit.
	DefaultSearchLimit = 10

	// maxSearchLimit bounds any single search.
	maxSearchLimit = 100
)

// Credentials are the inputs to Login. Group, Role and Locale are optional.
type Credentials struct {
	Username string
	Password string
	Group    string
	Role     string
	Locale   string
}

// SearchResponse is the payload of the search-family operations.
type SearchResponse struct {
	Items       []tcmodel.Item `json:"items"`
	TotalFound  int            `json:"total_found"`
	TotalLoaded int            `json:"total_loaded"`
}

// Service is the facade over the SOA pipeline. It holds the authoritative
// session copy; the transport's CookieStore holds the wire-level one, and
// the two are kept consistent here (cookie value wins over body-reported
// session ids).
//
// Login and logout serialize on the mutex so a second login cannot replace
// the session store mid-flight. Read operations only need the session
// snapshot and run concurrently.
type Service struct {
	caller Caller

	mu      sync.RWMutex
	session *soa.Session
	token   string
}

// NewService creates the facade over caller.
func NewService(caller Caller) *Service {
	return &Service{caller: caller}
}

// IsLoggedIn reports whether a valid session is held.
func (s *Service) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Valid()
}

// Session returns a copy of the current session, if any.
func (s *Service) Session() (soa.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.Valid() {
		return soa.Session{}, false
	}
	return *s.session, true
}

// Login authenticates against the backend. On success the session is stored
// and the facade transitions to logged-in; on failure any previous session
// state is cleared.
func (s *Service) Login(ctx context.Context, creds Credentials) *Result {
	if creds.Username == "" || creds.Password == "" {
		return Fail(tcerr.New(tcerr.CodeInvalidParameter, "username and password are required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A new login replaces any existing session. Clear before the call:
	// the cookie store is first-writer-wins, so it must be empty for the
	// backend's new session cookie to land.
	s.clearLocked()

	result, err := s.caller.Call(ctx, soa.OpLogin, map[string]any{
		"username": creds.Username,
		"password": creds.Password,
		"group":    creds.Group,
		"role":     creds.Role,
		"locale":   creds.Locale,
	}, "")
	if err != nil {
		s.clearLocked()
		return Fail(classifyLogin(err))
	}

	session, ok := result.Data.(*soa.Session)
	if !ok {
		s.clearLocked()
		return Fail(tcerr.New(tcerr.CodeLoginError, "login response had an unexpected shape"))
	}

	// Session-id precedence: an established cookie wins over a header
	// token, which wins over any id echoed in the response body.
	if _, cookieValue, hasCookie := s.caller.Cookies().Get(); hasCookie {
		session.ID = cookieValue
	} else if result.SessionID != "" {
		session.ID = result.SessionID
	}

	if !session.Valid() {
		s.clearLocked()
		return Fail(tcerr.New(tcerr.CodeLoginError, "login response carried no usable session"))
	}

	s.session = session
	s.token = result.SessionID
	slog.Info("logged in to Teamcenter", "user", session.UserID, "server_version", session.ServerVersion)
	return OK(session)
}

// Logout ends the backend session. Local state is cleared regardless of the
// remote outcome: a failed remote logout must not leave the client stuck
// logged in. Already-logged-out is a no-op success.
func (s *Service) Logout(ctx context.Context) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Valid() {
		return OK(soa.LogoutAck{LoggedOut: true})
	}

	token := s.token
	result, err := s.caller.Call(ctx, soa.OpLogout, nil, token)
	// Local state clears regardless of the remote outcome.
	s.clearLocked()
	if err != nil {
		slog.Warn("remote logout failed, local session cleared anyway", "error", err)
		return Fail(classifyOp(err, tcerr.CodeLogoutError, "logout failed"))
	}
	if ack, ok := result.Data.(soa.LogoutAck); ok {
		return OK(ack)
	}
	return OK(soa.LogoutAck{LoggedOut: true})
}

// SearchItems runs a full-text search, optionally narrowed by item type,
// newest-first by creation date.
func (s *Service) SearchItems(ctx context.Context, query, itemType string, limit int) *Result {
	if query == "" {
		return Fail(tcerr.New(tcerr.CodeInvalidParameter, "query must not be empty"))
	}
	if limit < 1 || limit > maxSearchLimit {
		return Fail(tcerr.New(tcerr.CodeInvalidParameter, "limit must be between 1 and 100"))
	}
	return s.search(ctx, fullTextSearchParams(query, itemType, limit))
}

// GetUserOwnedItems returns items owned by the logged-in user.
func (s *Service) GetUserOwnedItems(ctx context.Context) *Result {
	s.mu.RLock()
	uid := ""
	if s.session.Valid() {
		uid = s.session.UserID
	}
	s.mu.RUnlock()
	if uid == "" {
		return Fail(noSession())
	}
	return s.search(ctx, ownedItemsParams(uid, maxSearchLimit))
}

// GetLastCreatedItems returns the most recently created items.
func (s *Service) GetLastCreatedItems(ctx context.Context, limit int) *Result {
	if limit < 1 || limit > maxSearchLimit {
		return Fail(tcerr.New(tcerr.CodeInvalidParameter, "limit must be between 1 and 100"))
	}
	return s.search(ctx, lastCreatedParams(limit))
}

// search issues a performSearch call and converts the results.
func (s *Service) search(ctx context.Context, params map[string]any) *Result {
	result, terr := s.call(ctx, soa.OpPerformSearch, params, tcerr.CodeSearchError, "search failed")
	if terr != nil {
		return Fail(terr)
	}
	found, ok := result.Data.(*soa.SearchResults)
	if !ok {
		return Fail(tcerr.New(tcerr.CodeSearchError, "search response had an unexpected shape"))
	}
	return OK(SearchResponse{
		Items:       tcmodel.ConvertItems(found.Items),
		TotalFound:  found.TotalFound,
		TotalLoaded: found.TotalLoaded,
	})
}

// GetItemByID loads one item by its item id.
func (s *Service) GetItemByID(ctx context.Context, id string) *Result {
	if id == "" {
		return Fail(tcerr.New(tcerr.CodeInvalidParameter, "item id must not be empty"))
	}
	result, terr := s.call(ctx, soa.OpGetItemFromID, map[string]any{
		"infos": []any{map[string]any{"itemId": id}},
		"nRev":  1,
	}, tcerr.CodeSearchError, "item lookup failed")
	if terr != nil {
		return Fail(terr)
	}
	return OK(result.Data)
}

// CreateItem creates a new item of the given type.
func (s *Service) CreateItem(ctx context.Context, itemType, name, description string, properties map[string]any) *Result {
	if itemType == "" || name == "" {
		return Fail(tcerr.New(tcerr.CodeInvalidParameter, "item type and name are required"))
	}
	props := map[string]any{
		"type":        itemType,
		"name":        name,
		"description": description,
	}
	for k, v := range properties {
		props[k] = v
	}
	result, terr := s.call(ctx, soa.OpCreateItems, map[string]any{
		"properties": []any{props},
	}, tcerr.CodeCreateError, "item creation failed")
	if terr != nil {
		return Fail(terr)
	}
	return OK(result.Data)
}

// UpdateItem sets properties on an existing object.
func (s *Service) UpdateItem(ctx context.Context, id string, properties map[string]any) *Result {
	if id == "" {
		return Fail(tcerr.New(tcerr.CodeInvalidParameter, "item id must not be empty"))
	}
	if len(properties) == 0 {
		return Fail(tcerr.New(tcerr.CodeInvalidParameter, "at least one property is required"))
	}

	nameVals := make([]any, 0, len(properties))
	for k, v := range properties {
		nameVals = append(nameVals, map[string]any{
			"name":   k,
			"values": []any{v},
		})
	}
	result, terr := s.call(ctx, soa.OpSetProperties, map[string]any{
		"info": []any{map[string]any{
			"object":     map[string]any{"uid": id},
			"vecNameVal": nameVals,
		}},
	}, tcerr.CodeUpdateError, "item update failed")
	if terr != nil {
		return Fail(terr)
	}
	return OK(result.Data)
}

// GetItemTypes lists the item type descriptions known to the backend.
func (s *Service) GetItemTypes(ctx context.Context) *Result {
	result, terr := s.call(ctx, soa.OpGetTypeDescriptions, map[string]any{
		"typeNames": []any{},
	}, tcerr.CodeUnknown, "type listing failed")
	if terr != nil {
		return Fail(terr)
	}
	return OK(result.Data)
}

// GetSessionInfo returns the backend's view of the current session.
func (s *Service) GetSessionInfo(ctx context.Context) *Result {
	result, terr := s.call(ctx, soa.OpGetSessionInfo, nil, tcerr.CodeSessionInfoError, "session info failed")
	if terr != nil {
		return Fail(terr)
	}
	return OK(result.Data)
}

// GetFavorites returns the user's favorites.
func (s *Service) GetFavorites(ctx context.Context) *Result {
	result, terr := s.call(ctx, soa.OpGetFavorites, nil, tcerr.CodeFavoritesError, "favorites lookup failed")
	if terr != nil {
		return Fail(terr)
	}
	return OK(result.Data)
}

// GetUserProperties returns the requested attributes of the user with uid.
func (s *Service) GetUserProperties(ctx context.Context, uid string, attributes []string) *Result {
	if uid == "" {
		return Fail(tcerr.New(tcerr.CodeInvalidParameter, "user uid must not be empty"))
	}
	if attributes == nil {
		attributes = []string{}
	}
	result, terr := s.call(ctx, soa.OpGetProperties, map[string]any{
		"objects":    []any{map[string]any{"uid": uid}},
		"attributes": attributes,
	}, tcerr.CodeUserPropsError, "user properties lookup failed")
	if terr != nil {
		return Fail(terr)
	}
	return OK(result.Data)
}

// GetLoggedUserProperties returns the requested attributes of the logged-in
// user. The backend has no "properties of me" operation, so the user's uid
// is first resolved through session info and then used for the by-id call.
func (s *Service) GetLoggedUserProperties(ctx context.Context, attributes []string) *Result {
	info, terr := s.call(ctx, soa.OpGetSessionInfo, nil, tcerr.CodeUserPropsError, "session info failed")
	if terr != nil {
		return Fail(terr)
	}
	uid := sessionUserUID(info.Data)
	if uid == "" {
		return Fail(tcerr.New(tcerr.CodeUserPropsError, "session info carried no user uid"))
	}
	return s.GetUserProperties(ctx, uid, attributes)
}

// sessionUserUID digs the user uid out of a raw getTCSessionInfo payload.
func sessionUserUID(data any) string {
	raw, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	user, ok := raw["user"].(map[string]any)
	if !ok {
		return ""
	}
	uid, _ := user["uid"].(string)
	return uid
}

// call enforces the logged-in precondition, executes op, and classifies any
// failure with the operation's fallback code.
func (s *Service) call(ctx context.Context, op soa.Operation, params map[string]any, fallback tcerr.Code, msg string) (*soa.CallResult, *tcerr.Error) {
	s.mu.RLock()
	valid := s.session.Valid()
	token := s.token
	s.mu.RUnlock()
	if !valid {
		return nil, noSession()
	}

	result, err := s.caller.Call(ctx, op, params, token)
	if err != nil {
		return nil, classifyOp(err, fallback, msg)
	}
	return result, nil
}

// clearLocked resets session state. Callers hold the write lock.
func (s *Service) clearLocked() {
	s.session = nil
	s.token = ""
	s.caller.Cookies().Clear()
}

func noSession() *tcerr.Error {
	return tcerr.New(tcerr.CodeNoSession, "not logged in to Teamcenter")
}

// classifyLogin maps transport failures onto the login result codes: auth
// rejections become INVALID_CREDENTIALS, network and timeout keep their
// distinct codes, everything else is a generic LOGIN_ERROR.
func classifyLogin(err error) *tcerr.Error {
	te := tcerr.From(err)
	switch te.Code {
	case tcerr.CodeAuthSession:
		return tcerr.Wrap(tcerr.CodeInvalidCredentials, "invalid credentials", te)
	case tcerr.CodeNetwork, tcerr.CodeAPITimeout, tcerr.CodeDataValidation, tcerr.CodeInvalidParameter:
		return te
	default:
		return tcerr.Wrap(tcerr.CodeLoginError, "login failed", te)
	}
}

// classifyOp keeps the distinguishable transport codes and folds the rest
// into the operation's fallback code. CodeUnknown as fallback means the
// transport code passes through untouched.
func classifyOp(err error, fallback tcerr.Code, msg string) *tcerr.Error {
	te := tcerr.From(err)
	switch te.Code {
	case tcerr.CodeNetwork, tcerr.CodeAPITimeout, tcerr.CodeAuthSession,
		tcerr.CodeNoSession, tcerr.CodeInvalidParameter, tcerr.CodeDataValidation:
		return te
	default:
		if fallback == tcerr.CodeUnknown {
			return te
		}
		return tcerr.Wrap(fallback, msg, te)
	}
}
