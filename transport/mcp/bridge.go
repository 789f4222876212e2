package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/roomclient/room/protocol"
)

const serverName = "Room Client"

var ErrInvalidArgument = errors.New("invalid argument")

// RoomSession is the part of a running session the bridge drives.
type RoomSession interface {
	Send(ctx context.Context, msg *protocol.Message) error
	Recent(n int) []string
}

// Bridge serves MCP tools that act on one room.
type Bridge struct {
	room      string
	session   RoomSession
	mcpServer *server.MCPServer
}

// NewBridge creates a bridge for room backed by sess.
func NewBridge(room string, sess RoomSession, version string) *Bridge {
	b := &Bridge{
		room:    room,
		session: sess,
	}

	b.initMCPServer(version)
	return b
}

// initMCPServer initializes the MCP server with all tools
func (b *Bridge) initMCPServer(version string) {
	b.mcpServer = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(fmt.Sprintf(`Room Client - MCP Interface

You are connected to room %q. Every tool sends one action message over the
live room connection; the room server decides what it does.

AVAILABLE TOOLS:
- click_aya: select a verse index
- mute_all_users: mute every participant
- mute_user: mute one participant by uuid
- move_sura: navigate to a chapter
- offer_correction: request a correction workflow for a participant
- answer_correction: answer a correction request
- recent_messages: read the latest messages the room sent`, b.room)),
	)

	b.registerTools()
}

// registerTools registers all MCP tools
func (b *Bridge) registerTools() {
	b.mcpServer.AddTool(mcp.Tool{
		Name:        "click_aya",
		Description: "Select a verse index in the room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"aya": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"description": "Verse index to select",
				},
			},
			Required: []string{"aya"},
		},
	}, b.handleClickAya)

	b.mcpServer.AddTool(mcp.Tool{
		Name:        "mute_all_users",
		Description: "Mute every participant in the room",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, b.handleMuteAllUsers)

	b.mcpServer.AddTool(mcp.Tool{
		Name:        "mute_user",
		Description: "Mute one participant",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"uuid": map[string]interface{}{
					"type":        "string",
					"description": "Participant identifier",
				},
			},
			Required: []string{"uuid"},
		},
	}, b.handleMuteUser)

	b.mcpServer.AddTool(mcp.Tool{
		Name:        "move_sura",
		Description: "Navigate the room to a chapter",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id_quran": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"description": "Chapter identifier",
				},
			},
			Required: []string{"id_quran"},
		},
	}, b.handleMoveSura)

	b.mcpServer.AddTool(mcp.Tool{
		Name:        "offer_correction",
		Description: "Request a correction workflow keyed by a participant identifier",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"uuid": map[string]interface{}{
					"type":        "string",
					"description": "Participant identifier",
				},
			},
			Required: []string{"uuid"},
		},
	}, b.handleOfferCorrection)

	b.mcpServer.AddTool(mcp.Tool{
		Name:        "answer_correction",
		Description: "Answer a correction request",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"uuid": map[string]interface{}{
					"type":        "string",
					"description": "Participant identifier the request was made for",
				},
				"result": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the correction is accepted",
				},
			},
			Required: []string{"uuid", "result"},
		},
	}, b.handleAnswerCorrection)

	b.mcpServer.AddTool(mcp.Tool{
		Name:        "recent_messages",
		Description: "List the latest messages received from the room, oldest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"description": "Maximum number of messages (0 or omitted for all kept)",
				},
			},
		},
	}, b.handleRecentMessages)
}

// GetMCPServer returns the underlying MCP server for serving
func (b *Bridge) GetMCPServer() *server.MCPServer {
	return b.mcpServer
}

// ServeStdio serves MCP over in and out until ctx is done or in is closed.
func (b *Bridge) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(b.mcpServer).Listen(ctx, in, out)
}

// Tool handlers

func (b *Bridge) handleClickAya(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	aya, err := intArg(request, "aya", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if aya < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("%v: aya must be at least 1", ErrInvalidArgument)), nil
	}
	return b.send(ctx, protocol.NewClickAya(aya))
}

func (b *Bridge) handleMuteAllUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return b.send(ctx, protocol.NewMuteAllUser())
}

func (b *Bridge) handleMuteUser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uuid, err := stringArg(request, "uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return b.send(ctx, protocol.NewMuteUser(uuid))
}

func (b *Bridge) handleMoveSura(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idQuran, err := intArg(request, "id_quran", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if idQuran < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("%v: id_quran must be at least 1", ErrInvalidArgument)), nil
	}
	return b.send(ctx, protocol.NewMoveSura(idQuran))
}

func (b *Bridge) handleOfferCorrection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uuid, err := stringArg(request, "uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return b.send(ctx, protocol.NewOfferCorrection(uuid))
}

func (b *Bridge) handleAnswerCorrection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uuid, err := stringArg(request, "uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, ok := arguments(request)["result"].(bool)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v: result must be a boolean", ErrInvalidArgument)), nil
	}
	return b.send(ctx, protocol.NewAnswerCorrection(uuid, result))
}

func (b *Bridge) handleRecentMessages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := intArg(request, "limit", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	frames := b.session.Recent(limit)
	if len(frames) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No messages received from room %s yet.", b.room)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recent messages from room %s (%d):\n", b.room, len(frames))
	for i, frame := range frames {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, frame)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (b *Bridge) send(ctx context.Context, msg *protocol.Message) (*mcp.CallToolResult, error) {
	if err := b.session.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Str("message", msg.String()).Msg("tool send failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to send %s: %v", msg.String(), err)), nil
	}
	return mcp.NewToolResultText("Sent " + msg.String()), nil
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func stringArg(request mcp.CallToolRequest, key string) (string, error) {
	value, _ := arguments(request)[key].(string)
	if value == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidArgument, key)
	}
	return value, nil
}

// intArg reads a whole number. JSON numbers arrive as float64.
func intArg(request mcp.CallToolRequest, key string, required bool) (int, error) {
	raw, present := arguments(request)[key]
	if !present || raw == nil {
		if required {
			return 0, fmt.Errorf("%w: %s is required", ErrInvalidArgument, key)
		}
		return 0, nil
	}

	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidArgument, key)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgument, key)
}
