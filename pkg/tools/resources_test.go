package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionResource_LoggedOut(t *testing.T) {
	tk := newToolkit(t)

	req := &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: sessionResourceURI},
	}
	result, err := tk.handleSessionResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	var body sessionResourceBody
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &body))
	assert.False(t, body.LoggedIn)
	assert.Empty(t, body.UserID)
}

func TestSessionResource_LoggedIn(t *testing.T) {
	tk := newToolkit(t)
	loginToolkit(t, tk)

	req := &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: sessionResourceURI},
	}
	result, err := tk.handleSessionResource(context.Background(), req)
	require.NoError(t, err)

	var body sessionResourceBody
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &body))
	assert.True(t, body.LoggedIn)
	assert.Equal(t, "jdoe", body.UserID)
}

func TestItemResource(t *testing.T) {
	tk := newToolkit(t)
	loginToolkit(t, tk)

	req := &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "teamcenter://items/000100"},
	}
	result, err := tk.handleItemResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, "Mounting Bracket")
}

func TestItemResource_NotFound(t *testing.T) {
	tk := newToolkit(t)
	loginToolkit(t, tk)

	req := &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "teamcenter://items/999999"},
	}
	_, err := tk.handleItemResource(context.Background(), req)
	require.Error(t, err)
}

func TestItemResource_BadURI(t *testing.T) {
	tk := newToolkit(t)

	req := &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "teamcenter://nothing"},
	}
	_, err := tk.handleItemResource(context.Background(), req)
	require.Error(t, err)
}

func TestParseTemplateVars(t *testing.T) {
	vars, err := parseTemplateVars(itemTemplateURI, "teamcenter://items/000100")
	require.NoError(t, err)
	assert.Equal(t, "000100", vars["item_id"])

	_, err = parseTemplateVars(itemTemplateURI, "schema://other")
	require.Error(t, err)
}
