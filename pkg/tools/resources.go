package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
)

// Resource URIs.
const (
	sessionResourceURI = "teamcenter://session"
	itemTemplateURI    = "teamcenter://items/{item_id}"

	promptSearchGuidance = "teamcenter_search_guidance"
)

func (t *Toolkit) registerResources(s *mcp.Server) {
	s.AddResource(&mcp.Resource{
		URI:         sessionResourceURI,
		Name:        "Teamcenter Session",
		Description: "Current login state: the logged-in user and server details, or logged_in=false",
		MIMEType:    "application/json",
	}, t.handleSessionResource)

	s.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: itemTemplateURI,
		Name:        "Teamcenter Item",
		Description: "A single Teamcenter item addressed by its item id",
		MIMEType:    "application/json",
	}, t.handleItemResource)
}

// sessionResourceBody is the serialized session resource.
type sessionResourceBody struct {
	LoggedIn      bool   `json:"logged_in"`
	UserID        string `json:"user_id,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	ServerVersion string `json:"server_version,omitempty"`
	ServerID      string `json:"server_id,omitempty"`
}

func (t *Toolkit) handleSessionResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	body := sessionResourceBody{}
	if session, ok := t.svc.Session(); ok {
		body = sessionResourceBody{
			LoggedIn:      true,
			UserID:        session.UserID,
			DisplayName:   session.DisplayName,
			ServerVersion: session.ServerVersion,
			ServerID:      session.ServerID,
		}
	}
	return jsonResource(req.Params.URI, body)
}

func (t *Toolkit) handleItemResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	vars, err := parseTemplateVars(itemTemplateURI, uri)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri) //nolint:wrapcheck // MCP protocol error returned as-is for SDK type matching
	}
	id := vars["item_id"]
	if id == "" {
		return nil, mcp.ResourceNotFoundError(uri) //nolint:wrapcheck // MCP protocol error returned as-is for SDK type matching
	}

	res := t.svc.GetItemByID(ctx, id)
	if res.Failed() {
		return nil, mcp.ResourceNotFoundError(uri) //nolint:wrapcheck // MCP protocol error returned as-is for SDK type matching
	}
	return jsonResource(uri, res.Data)
}

// parseTemplateVars extracts named variables from a URI using a URI template.
func parseTemplateVars(templateStr, uri string) (map[string]string, error) {
	tmpl, err := uritemplate.New(templateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid template %q: %w", templateStr, err)
	}

	match := tmpl.Match(uri)
	if match == nil {
		return nil, fmt.Errorf("uri %q does not match template %q", uri, templateStr)
	}

	result := make(map[string]string)
	for _, name := range tmpl.Varnames() {
		val := match.Get(name)
		result[name] = val.String()
	}
	return result, nil
}

func jsonResource(uri string, body any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// searchGuidance steers agents toward effective Teamcenter queries.
const searchGuidance = `When searching Teamcenter with teamcenter_search_items:

1. Log in first with teamcenter_login. Every other tool requires a session.
2. Prefer short, specific queries. The backend runs a full-text match, so
   "bracket" finds "Mounting Bracket" but "the mounting bracket part" may not.
3. Use item_type to narrow results when the user names a kind of object
   (Part, Document, Item). Call teamcenter_get_item_types to see what the
   server supports.
4. Results come back newest-first by creation date. Use limit to keep
   responses small; the default is 10 and the maximum is 100.
5. For "my items" questions, use teamcenter_get_user_owned_items instead of
   a search. For "what was created recently", use
   teamcenter_get_last_created_items.
6. Every response is a JSON envelope with either "data" or "error". An error
   with code NO_SESSION means the session expired: log in again and retry.`

func (t *Toolkit) registerPrompts(s *mcp.Server) {
	s.AddPrompt(&mcp.Prompt{
		Name:        promptSearchGuidance,
		Description: "Guidance for building effective Teamcenter searches with these tools",
	}, func(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Messages: []*mcp.PromptMessage{
				{
					Role: "user",
					Content: &mcp.TextContent{
						Text: searchGuidance,
					},
				},
			},
		}, nil
	})
}
