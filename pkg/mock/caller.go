// Package mock implements an in-memory Teamcenter backend for local
// development and tests. It speaks the same operation surface as the HTTP
// transport and serves deterministic data from embedded fixtures, so the
// full tool pipeline can run without a reachable Teamcenter instance.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/soa"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/tcerr"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/teamcenter"
)

var _ teamcenter.Caller = (*Caller)(nil)

// Caller is an in-memory stand-in for soa.Client.
type Caller struct {
	cookies *soa.CookieStore

	mu      sync.Mutex
	data    *fixtures
	items   []itemFixture
	token   string
	user    userFixture
	nextSeq int
}

// NewCaller loads the embedded fixtures and returns a ready backend.
func NewCaller() (*Caller, error) {
	f, err := loadFixtures()
	if err != nil {
		return nil, err
	}
	items := make([]itemFixture, len(f.Items))
	copy(items, f.Items)
	return &Caller{
		cookies: soa.NewCookieStore(),
		data:    f,
		items:   items,
		nextSeq: len(items) + 1,
	}, nil
}

// Cookies returns the store the mock writes its session cookie into.
func (c *Caller) Cookies() *soa.CookieStore {
	return c.cookies
}

// Call dispatches op against the fixture data. The request body still goes
// through BuildEnvelope so credential validation behaves like the real
// transport, and responses go through Normalize so callers see the same
// canonical types either way.
func (c *Caller) Call(_ context.Context, op soa.Operation, params map[string]any, sessionToken string) (*soa.CallResult, error) {
	env, err := soa.BuildEnvelope(op, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch op {
	case soa.OpLogin, soa.OpLoginLegacy:
		return c.login(env.Body)
	case soa.OpLogout:
		return c.logout()
	}

	if sessionToken == "" || sessionToken != c.token {
		return nil, tcerr.New(tcerr.CodeAuthSession, "mock backend: no active session")
	}

	switch op {
	case soa.OpPerformSearch:
		return c.performSearch(params)
	case soa.OpGetItemFromID:
		return c.getItemFromID(params)
	case soa.OpCreateItems:
		return c.createItems(params)
	case soa.OpSetProperties:
		return c.setProperties(params)
	case soa.OpGetTypeDescriptions:
		return c.getTypeDescriptions()
	case soa.OpGetSessionInfo:
		return c.getSessionInfo()
	case soa.OpGetFavorites:
		return c.getFavorites()
	case soa.OpGetProperties:
		return c.getProperties(params)
	default:
		return nil, tcerr.New(tcerr.CodeAPIResponse, fmt.Sprintf("mock backend: unsupported operation %s", op))
	}
}

func (c *Caller) login(body map[string]any) (*soa.CallResult, error) {
	creds, _ := body["credentials"].(map[string]any)
	username, _ := creds["user"].(string)

	var user userFixture
	found := false
	for _, u := range c.data.Users {
		if u.UserID == username {
			user = u
			found = true
			break
		}
	}
	if !found {
		return nil, tcerr.New(tcerr.CodeAuthSession, "mock backend: unknown user")
	}

	c.token = "mock-" + uuid.NewString()
	c.user = user
	c.cookies.Clear()
	c.cookies.Set("JSESSIONID", c.token)

	raw := map[string]any{
		"sessionId": c.token,
		"serverInfo": map[string]any{
			"UserID":          user.UserID,
			"DisplayUserName": user.UserName,
			"Locale":          "en_US",
			"Version":         c.data.Session.ServerVersion,
			"TcServerID":      c.data.Session.ServerID,
		},
	}
	return &soa.CallResult{Data: soa.Normalize(soa.OpLogin, raw), SessionID: c.token}, nil
}

func (c *Caller) logout() (*soa.CallResult, error) {
	c.token = ""
	c.user = userFixture{}
	c.cookies.Clear()
	return &soa.CallResult{Data: soa.Normalize(soa.OpLogout, map[string]any{})}, nil
}

func (c *Caller) performSearch(params map[string]any) (*soa.CallResult, error) {
	input, _ := params["searchInput"].(map[string]any)
	criteria, _ := input["searchCriteria"].(map[string]any)
	query, _ := criteria["searchString"].(string)

	typeFilter := filterValue(input, "Type")
	ownerFilter := filterValue(input, "OwningUser")

	limit := len(c.items)
	if v, ok := input["maxToLoad"].(int); ok && v > 0 {
		limit = v
	} else if v, ok := input["maxToLoad"].(float64); ok && v > 0 {
		limit = int(v)
	}

	matched := make([]itemFixture, 0, len(c.items))
	for _, item := range c.items {
		if !matchesQuery(item, query) {
			continue
		}
		if typeFilter != "" && item.ObjectType != typeFilter {
			continue
		}
		if ownerFilter != "" && item.OwningUser != ownerFilter {
			continue
		}
		matched = append(matched, item)
	}
	// Newest first, matching the sort criteria every search body carries.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreationDate > matched[j].CreationDate
	})

	total := len(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	results := make([]any, 0, len(matched))
	for _, item := range matched {
		results = append(results, item.raw())
	}
	raw := map[string]any{
		"searchResults": results,
		"totalFound":    total,
		"totalLoaded":   len(results),
	}
	return &soa.CallResult{Data: soa.Normalize(soa.OpPerformSearch, raw)}, nil
}

func (c *Caller) getItemFromID(params map[string]any) (*soa.CallResult, error) {
	infos, _ := params["infos"].([]any)
	if len(infos) == 0 {
		return nil, tcerr.New(tcerr.CodeDataValidation, "mock backend: no item id given")
	}
	first, _ := infos[0].(map[string]any)
	id, _ := first["itemId"].(string)

	for _, item := range c.items {
		if item.ItemID == id || item.UID == id {
			return &soa.CallResult{Data: map[string]any{
				"output": []any{map[string]any{"item": item.raw()}},
			}}, nil
		}
	}
	return nil, tcerr.New(tcerr.CodeAPIResponse, fmt.Sprintf("mock backend: item %q not found", id))
}

func (c *Caller) createItems(params map[string]any) (*soa.CallResult, error) {
	propsList, _ := params["properties"].([]any)
	if len(propsList) == 0 {
		return nil, tcerr.New(tcerr.CodeDataValidation, "mock backend: no item properties given")
	}
	props, _ := propsList[0].(map[string]any)
	name, _ := props["name"].(string)
	itemType, _ := props["type"].(string)
	desc, _ := props["description"].(string)
	_ = desc

	item := itemFixture{
		UID:            fmt.Sprintf("itm-%04d", c.nextSeq),
		ItemID:         fmt.Sprintf("%06d", 100+c.nextSeq-1),
		ObjectName:     name,
		ObjectType:     itemType,
		ItemRevisionID: "A",
		OwningUser:     c.user.UserID,
	}
	c.nextSeq++
	c.items = append(c.items, item)

	return &soa.CallResult{Data: map[string]any{
		"output": []any{map[string]any{"item": item.raw()}},
	}}, nil
}

func (c *Caller) setProperties(params map[string]any) (*soa.CallResult, error) {
	infos, _ := params["info"].([]any)
	if len(infos) == 0 {
		return nil, tcerr.New(tcerr.CodeDataValidation, "mock backend: no update info given")
	}
	info, _ := infos[0].(map[string]any)
	object, _ := info["object"].(map[string]any)
	uid, _ := object["uid"].(string)

	for i := range c.items {
		if c.items[i].UID != uid && c.items[i].ItemID != uid {
			continue
		}
		nameVals, _ := info["vecNameVal"].([]any)
		for _, nv := range nameVals {
			pair, _ := nv.(map[string]any)
			name, _ := pair["name"].(string)
			values, _ := pair["values"].([]any)
			if len(values) == 0 {
				continue
			}
			value, _ := values[0].(string)
			switch name {
			case "object_name":
				c.items[i].ObjectName = value
			case "object_desc":
				c.items[i].ObjectDesc = value
			}
		}
		return &soa.CallResult{Data: map[string]any{
			"updated": []any{c.items[i].raw()},
		}}, nil
	}
	return nil, tcerr.New(tcerr.CodeAPIResponse, fmt.Sprintf("mock backend: object %q not found", uid))
}

func (c *Caller) getTypeDescriptions() (*soa.CallResult, error) {
	types := make([]any, 0, len(c.data.ItemTypes))
	for _, t := range c.data.ItemTypes {
		types = append(types, map[string]any{
			"name":        t.Name,
			"displayName": t.DisplayName,
			"description": t.Description,
		})
	}
	return &soa.CallResult{Data: map[string]any{"types": types}}, nil
}

func (c *Caller) getSessionInfo() (*soa.CallResult, error) {
	return &soa.CallResult{Data: map[string]any{
		"user": map[string]any{
			"uid":     c.user.UID,
			"user_id": c.user.UserID,
			"name":    c.user.UserName,
		},
		"group":         map[string]any{"name": c.user.Group},
		"role":          map[string]any{"name": c.user.Role},
		"serverVersion": c.data.Session.ServerVersion,
		"serverId":      c.data.Session.ServerID,
	}}, nil
}

func (c *Caller) getFavorites() (*soa.CallResult, error) {
	favs := make([]any, 0, len(c.data.Favorites))
	for _, f := range c.data.Favorites {
		favs = append(favs, map[string]any{
			"uid":  f.UID,
			"name": f.Name,
			"type": f.Type,
		})
	}
	return &soa.CallResult{Data: map[string]any{"favorites": favs}}, nil
}

func (c *Caller) getProperties(params map[string]any) (*soa.CallResult, error) {
	objects, _ := params["objects"].([]any)
	if len(objects) == 0 {
		return nil, tcerr.New(tcerr.CodeDataValidation, "mock backend: no objects given")
	}
	first, _ := objects[0].(map[string]any)
	uid, _ := first["uid"].(string)

	for _, u := range c.data.Users {
		if u.UID != uid {
			continue
		}
		all := map[string]any{
			"user_id":   u.UserID,
			"user_name": u.UserName,
			"group":     u.Group,
			"role":      u.Role,
			"email":     u.Email,
		}
		attrs, _ := params["attributes"].([]string)
		props := all
		if len(attrs) > 0 {
			props = map[string]any{}
			for _, a := range attrs {
				if v, ok := all[a]; ok {
					props[a] = v
				}
			}
		}
		return &soa.CallResult{Data: map[string]any{uid: props}}, nil
	}
	return nil, tcerr.New(tcerr.CodeAPIResponse, fmt.Sprintf("mock backend: user %q not found", uid))
}

// filterValue pulls the first StringFilter value for key out of a
// performSearch filter map.
func filterValue(input map[string]any, key string) string {
	filters, _ := input["searchFilterMap"].(map[string]any)
	entries, _ := filters[key].([]any)
	if len(entries) == 0 {
		return ""
	}
	entry, _ := entries[0].(map[string]any)
	v, _ := entry["stringValue"].(string)
	return v
}

func matchesQuery(item itemFixture, query string) bool {
	if query == "" || query == "*" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(item.ObjectName), q) ||
		strings.Contains(strings.ToLower(item.ObjectDesc), q) ||
		strings.Contains(item.ItemID, query)
}
