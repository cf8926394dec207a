// Package tools exposes the Teamcenter facade as MCP tools, resources and
// prompts. Every tool returns the same JSON envelope: {"data": ...} on
// success, {"error": {...}} on failure, with IsError set accordingly so
// agents can branch without parsing.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/teamcenter"
)

// Tool names.
const (
	toolLogin               = "teamcenter_login"
	toolLogout              = "teamcenter_logout"
	toolSearchItems         = "teamcenter_search_items"
	toolGetItem             = "teamcenter_get_item"
	toolCreateItem          = "teamcenter_create_item"
	toolUpdateItem          = "teamcenter_update_item"
	toolGetItemTypes        = "teamcenter_get_item_types"
	toolGetSessionInfo      = "teamcenter_get_session_info"
	toolGetUserOwnedItems   = "teamcenter_get_user_owned_items"
	toolGetLastCreatedItems = "teamcenter_get_last_created_items"
	toolGetFavorites        = "teamcenter_get_favorites"
	toolGetUserProps        = "teamcenter_get_user_properties"
	toolGetLoggedUserProps  = "teamcenter_get_logged_user_properties"
)

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Group    string `json:"group,omitempty"`
	Role     string `json:"role,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

type logoutInput struct{}

type searchItemsInput struct {
	Query    string `json:"query"`
	ItemType string `json:"item_type,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type getItemInput struct {
	ItemID string `json:"item_id"`
}

type createItemInput struct {
	ItemType    string         `json:"item_type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

type updateItemInput struct {
	ItemID     string         `json:"item_id"`
	Properties map[string]any `json:"properties"`
}

type limitInput struct {
	Limit int `json:"limit,omitempty"`
}

type emptyInput struct{}

type userPropsInput struct {
	UserUID    string   `json:"user_uid"`
	Attributes []string `json:"attributes,omitempty"`
}

type loggedUserPropsInput struct {
	Attributes []string `json:"attributes,omitempty"`
}

// Toolkit registers the Teamcenter tool surface on an MCP server.
type Toolkit struct {
	svc *teamcenter.Service
}

// New creates the toolkit over svc.
func New(svc *teamcenter.Service) *Toolkit {
	return &Toolkit{svc: svc}
}

// Tools returns the tool names this toolkit provides.
func (*Toolkit) Tools() []string {
	return []string{
		toolLogin, toolLogout, toolSearchItems, toolGetItem, toolCreateItem,
		toolUpdateItem, toolGetItemTypes, toolGetSessionInfo,
		toolGetUserOwnedItems, toolGetLastCreatedItems, toolGetFavorites,
		toolGetUserProps, toolGetLoggedUserProps,
	}
}

// Register adds every tool, resource and prompt to s.
func (t *Toolkit) Register(s *mcp.Server) {
	t.registerTools(s)
	t.registerResources(s)
	t.registerPrompts(s)
}

func (t *Toolkit) registerTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name: toolLogin,
		Description: "Log in to Teamcenter with username and password. Optional group, role and " +
			"locale narrow the session context. Must be called before any other tool.",
	}, t.handleLogin)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolLogout,
		Description: "Log out of Teamcenter and end the current session.",
	}, t.handleLogout)

	mcp.AddTool(s, &mcp.Tool{
		Name: toolSearchItems,
		Description: "Full-text search for Teamcenter items. Optional item_type restricts results " +
			"to one type; limit caps the result count (default 10, max 100). Results are " +
			"newest-first by creation date.",
	}, t.handleSearchItems)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetItem,
		Description: "Fetch a single Teamcenter item by its item id.",
	}, t.handleGetItem)

	mcp.AddTool(s, &mcp.Tool{
		Name: toolCreateItem,
		Description: "Create a new Teamcenter item. item_type and name are required; description " +
			"and extra properties are optional.",
	}, t.handleCreateItem)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolUpdateItem,
		Description: "Update properties on an existing Teamcenter object identified by item_id.",
	}, t.handleUpdateItem)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetItemTypes,
		Description: "List the item types known to the Teamcenter server.",
	}, t.handleGetItemTypes)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetSessionInfo,
		Description: "Return the Teamcenter server's view of the current session.",
	}, t.handleGetSessionInfo)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetUserOwnedItems,
		Description: "List items owned by the logged-in user, newest first.",
	}, t.handleGetUserOwnedItems)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetLastCreatedItems,
		Description: "List the most recently created items. limit caps the result count (default 10, max 100).",
	}, t.handleGetLastCreatedItems)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetFavorites,
		Description: "List the logged-in user's favorite objects.",
	}, t.handleGetFavorites)

	mcp.AddTool(s, &mcp.Tool{
		Name: toolGetUserProps,
		Description: "Fetch properties of a Teamcenter user by uid. attributes selects specific " +
			"properties; omit it for all.",
	}, t.handleGetUserProps)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetLoggedUserProps,
		Description: "Fetch properties of the logged-in user.",
	}, t.handleGetLoggedUserProps)
}

func (t *Toolkit) handleLogin(ctx context.Context, _ *mcp.CallToolRequest, in loginInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.Login(ctx, teamcenter.Credentials{
		Username: in.Username,
		Password: in.Password,
		Group:    in.Group,
		Role:     in.Role,
		Locale:   in.Locale,
	}))
}

func (t *Toolkit) handleLogout(ctx context.Context, _ *mcp.CallToolRequest, _ logoutInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.Logout(ctx))
}

func (t *Toolkit) handleSearchItems(ctx context.Context, _ *mcp.CallToolRequest, in searchItemsInput) (*mcp.CallToolResult, any, error) {
	limit := in.Limit
	if limit == 0 {
		limit = teamcenter.DefaultSearchLimit
	}
	return toolResult(t.svc.SearchItems(ctx, in.Query, in.ItemType, limit))
}

func (t *Toolkit) handleGetItem(ctx context.Context, _ *mcp.CallToolRequest, in getItemInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.GetItemByID(ctx, in.ItemID))
}

func (t *Toolkit) handleCreateItem(ctx context.Context, _ *mcp.CallToolRequest, in createItemInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.CreateItem(ctx, in.ItemType, in.Name, in.Description, in.Properties))
}

func (t *Toolkit) handleUpdateItem(ctx context.Context, _ *mcp.CallToolRequest, in updateItemInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.UpdateItem(ctx, in.ItemID, in.Properties))
}

func (t *Toolkit) handleGetItemTypes(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.GetItemTypes(ctx))
}

func (t *Toolkit) handleGetSessionInfo(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.GetSessionInfo(ctx))
}

func (t *Toolkit) handleGetUserOwnedItems(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.GetUserOwnedItems(ctx))
}

func (t *Toolkit) handleGetLastCreatedItems(ctx context.Context, _ *mcp.CallToolRequest, in limitInput) (*mcp.CallToolResult, any, error) {
	limit := in.Limit
	if limit == 0 {
		limit = teamcenter.DefaultSearchLimit
	}
	return toolResult(t.svc.GetLastCreatedItems(ctx, limit))
}

func (t *Toolkit) handleGetFavorites(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.GetFavorites(ctx))
}

func (t *Toolkit) handleGetUserProps(ctx context.Context, _ *mcp.CallToolRequest, in userPropsInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.GetUserProperties(ctx, in.UserUID, in.Attributes))
}

func (t *Toolkit) handleGetLoggedUserProps(ctx context.Context, _ *mcp.CallToolRequest, in loggedUserPropsInput) (*mcp.CallToolResult, any, error) {
	return toolResult(t.svc.GetLoggedUserProperties(ctx, in.Attributes))
}

// toolResult serializes a facade Result into the MCP tool response. The
// envelope carries either data or error, never both, and IsError mirrors
// which side is set.
func toolResult(res *teamcenter.Result) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return errorResult("internal error marshaling response"), nil, nil //nolint:nilerr // MCP protocol: tool errors are returned in CallToolResult.IsError
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: res.Failed(),
	}, nil, nil
}

// errorResult creates an error CallToolResult.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(`{"error": %q}`, msg)},
		},
		IsError: true,
	}
}
