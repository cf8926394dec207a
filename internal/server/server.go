// Package server assembles the MCP server from configuration: it picks the
// backend (HTTP transport or embedded mock), builds the Teamcenter facade,
// and registers the tool surface.
package server

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/config"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/mock"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/soa"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/teamcenter"
	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/tools"
)

// Version is set at build time.
var Version = "dev"

// New creates the MCP server for cfg.
func New(cfg *config.Config) (*mcp.Server, *tools.Toolkit, error) {
	caller, err := newCaller(cfg)
	if err != nil {
		return nil, nil, err
	}

	svc := teamcenter.NewService(caller)
	toolkit := tools.New(svc)

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: Version,
	}, nil)
	toolkit.Register(mcpServer)

	return mcpServer, toolkit, nil
}

func newCaller(cfg *config.Config) (teamcenter.Caller, error) {
	if cfg.SOA.Mock {
		caller, err := mock.NewCaller()
		if err != nil {
			return nil, fmt.Errorf("starting mock backend: %w", err)
		}
		return caller, nil
	}
	return soa.NewClient(soa.Config{
		Endpoint:       cfg.SOA.Endpoint,
		Timeout:        cfg.SOA.Timeout,
		SessionHeaders: cfg.SOA.Headers,
	}, soa.NewCookieStore()), nil
}
