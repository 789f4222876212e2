package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/roomclient/room/protocol"
)

type fakeSession struct {
	sent   []string
	recent []string
	err    error
}

func (f *fakeSession) Send(ctx context.Context, msg *protocol.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg.String())
	return nil
}

func (f *fakeSession) Recent(n int) []string {
	if n <= 0 || n > len(f.recent) {
		return f.recent
	}
	return f.recent[len(f.recent)-n:]
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewBridge(t *testing.T) {
	bridge := NewBridge("r", &fakeSession{}, "1.0.0")

	if bridge == nil {
		t.Fatal("Expected bridge to be created")
	}
	if bridge.room != "r" {
		t.Errorf("Expected room r, got %s", bridge.room)
	}
	if bridge.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestToolsSendMessages(t *testing.T) {
	type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	sess := &fakeSession{}
	bridge := NewBridge("r", sess, "1.0.0")

	tests := []struct {
		name     string
		handle   handler
		args     map[string]interface{}
		expected string
	}{
		{"click_aya", bridge.handleClickAya, map[string]interface{}{"aya": float64(3)}, `{"action":"ClickAya","aya":3}`},
		{"mute_all_users", bridge.handleMuteAllUsers, map[string]interface{}{}, `{"action":"MuteAllUser"}`},
		{"mute_user", bridge.handleMuteUser, map[string]interface{}{"uuid": "abdan"}, `{"action":"MuteUser","uuid":"abdan"}`},
		{"move_sura", bridge.handleMoveSura, map[string]interface{}{"id_quran": float64(2)}, `{"action":"MoveSura","id_quran":2}`},
		{"offer_correction", bridge.handleOfferCorrection, map[string]interface{}{"uuid": "abdan"}, `{"action":"OfferCorrection","uuid":"abdan"}`},
		{"answer_correction", bridge.handleAnswerCorrection, map[string]interface{}{"uuid": "X", "result": true}, `{"action":"AnswerCorrection","uuid":"X","result":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(sess.sent)
			result, err := tt.handle(context.Background(), callRequest(tt.name, tt.args))
			if err != nil {
				t.Fatalf("Handler failed: %v", err)
			}
			if result.IsError {
				t.Fatalf("Unexpected tool error: %s", resultText(t, result))
			}
			if len(sess.sent) != before+1 {
				t.Fatalf("Expected one message sent, got %d", len(sess.sent)-before)
			}
			if sess.sent[before] != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, sess.sent[before])
			}
			if !strings.Contains(resultText(t, result), tt.expected) {
				t.Errorf("Result should echo the message, got %s", resultText(t, result))
			}
		})
	}
}

func TestToolArgumentErrors(t *testing.T) {
	sess := &fakeSession{}
	bridge := NewBridge("r", sess, "1.0.0")

	tests := []struct {
		name   string
		handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args   map[string]interface{}
	}{
		{"missing aya", bridge.handleClickAya, map[string]interface{}{}},
		{"fractional aya", bridge.handleClickAya, map[string]interface{}{"aya": 1.5}},
		{"zero aya", bridge.handleClickAya, map[string]interface{}{"aya": float64(0)}},
		{"string id_quran", bridge.handleMoveSura, map[string]interface{}{"id_quran": "one"}},
		{"empty uuid", bridge.handleMuteUser, map[string]interface{}{"uuid": ""}},
		{"missing uuid", bridge.handleOfferCorrection, nil},
		{"missing result", bridge.handleAnswerCorrection, map[string]interface{}{"uuid": "X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handle(context.Background(), callRequest("tool", tt.args))
			if err != nil {
				t.Fatalf("Argument errors should be tool results, got %v", err)
			}
			if !result.IsError {
				t.Errorf("Expected tool error, got %s", resultText(t, result))
			}
		})
	}

	if len(sess.sent) != 0 {
		t.Errorf("Nothing should be sent on bad arguments, got %v", sess.sent)
	}
}

func TestToolSendFailure(t *testing.T) {
	sess := &fakeSession{err: errors.New("connection closed")}
	bridge := NewBridge("r", sess, "1.0.0")

	result, err := bridge.handleMuteAllUsers(context.Background(), callRequest("mute_all_users", nil))
	if err != nil {
		t.Fatalf("Send failures should be tool results, got %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected tool error")
	}
	if !strings.Contains(resultText(t, result), "connection closed") {
		t.Errorf("Expected cause in result, got %s", resultText(t, result))
	}
}

func TestRecentMessages(t *testing.T) {
	sess := &fakeSession{}
	bridge := NewBridge("r", sess, "1.0.0")

	result, _ := bridge.handleRecentMessages(context.Background(), callRequest("recent_messages", nil))
	if !strings.Contains(resultText(t, result), "No messages") {
		t.Errorf("Expected empty notice, got %s", resultText(t, result))
	}

	sess.recent = []string{`{"action":"ClickAya","aya":1}`, `{"action":"MuteAllUser"}`, `{"action":"Leave","uuid":"u"}`}
	result, _ = bridge.handleRecentMessages(context.Background(), callRequest("recent_messages", map[string]interface{}{"limit": float64(2)}))
	text := resultText(t, result)

	if strings.Contains(text, "ClickAya") {
		t.Errorf("Limit should drop the oldest message, got %s", text)
	}
	for _, expected := range []string{"(2)", `1. {"action":"MuteAllUser"}`, `2. {"action":"Leave","uuid":"u"}`} {
		if !strings.Contains(text, expected) {
			t.Errorf("Expected %q in result, got %s", expected, text)
		}
	}
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected int
		wantErr  bool
	}{
		{"float", float64(4), 4, false},
		{"int", 5, 5, false},
		{"int64", int64(6), 6, false},
		{"fraction", 2.5, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intArg(callRequest("t", map[string]interface{}{"n": tt.value}), "n", true)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unexpected error state: %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}

	if n, err := intArg(callRequest("t", nil), "n", false); err != nil || n != 0 {
		t.Errorf("Optional missing argument should be 0, got %d (%v)", n, err)
	}
}
