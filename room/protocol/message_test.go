package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestConstructorsEncoding(t *testing.T) {
	tests := []struct {
		name     string
		msg      *Message
		expected string
	}{
		{"click aya", NewClickAya(1), `{"action":"ClickAya","aya":1}`},
		{"mute all", NewMuteAllUser(), `{"action":"MuteAllUser"}`},
		{"mute user", NewMuteUser("abdan"), `{"action":"MuteUser","uuid":"abdan"}`},
		{"move sura", NewMoveSura(1), `{"action":"MoveSura","id_quran":1}`},
		{"offer correction", NewOfferCorrection("abdan"), `{"action":"OfferCorrection","uuid":"abdan"}`},
		{"answer correction", NewAnswerCorrection("X", true), `{"action":"AnswerCorrection","uuid":"X","result":true}`},
		{"answer correction false", NewAnswerCorrection("X", false), `{"action":"AnswerCorrection","uuid":"X","result":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.msg.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON failed: %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, data)
			}
		})
	}
}

func TestParsePreservesOrderAndUnknownFields(t *testing.T) {
	input := `{"uuid":"X","action":"OfferCorrection","extra":{"nested":[1,2]},"note":"keep"}`

	msg, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	action, ok := msg.Action()
	if !ok || action != OfferCorrection {
		t.Errorf("Expected action OfferCorrection, got %q (ok=%v)", action, ok)
	}

	expectedKeys := []string{"uuid", "action", "extra", "note"}
	if !reflect.DeepEqual(msg.Keys(), expectedKeys) {
		t.Errorf("Expected keys %v, got %v", expectedKeys, msg.Keys())
	}

	if msg.String() != input {
		t.Errorf("Expected round trip %s, got %s", input, msg.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `hello`},
		{"truncated", `{"action":"ClickAya"`},
		{"array", `[{"action":"ClickAya"}]`},
		{"string", `"ClickAya"`},
		{"null", `null`},
		{"empty", ``},
		{"missing action", `{"uuid":"X"}`},
		{"numeric action", `{"action":7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedMessage) {
				t.Errorf("Expected ErrMalformedMessage, got %v", err)
			}
		})
	}
}

func TestParseUnknownAction(t *testing.T) {
	msg, err := Parse([]byte(`{"action":"SignallingOfferSDP","value":"v"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	action, _ := msg.Action()
	if action != "SignallingOfferSDP" {
		t.Errorf("Expected open vocabulary action, got %q", action)
	}
}

func TestAnswer(t *testing.T) {
	msg, err := Parse([]byte(`{"action":"OfferCorrection","uuid":"X"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if err := Answer(msg, true); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	expected := `{"action":"AnswerCorrection","uuid":"X","result":true}`
	if msg.String() != expected {
		t.Errorf("Expected %s, got %s", expected, msg.String())
	}
}

func TestAnswerPreservesFields(t *testing.T) {
	msg, err := Parse([]byte(`{"action":"OfferCorrection","uuid":"X","result":false,"from":"master"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if err := Answer(msg, true); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	expected := `{"action":"AnswerCorrection","uuid":"X","result":true,"from":"master"}`
	if msg.String() != expected {
		t.Errorf("Expected %s, got %s", expected, msg.String())
	}
}

func TestAnswerRejectsOtherActions(t *testing.T) {
	msg := NewClickAya(3)
	err := Answer(msg, true)
	if !errors.Is(err, ErrUnexpectedAction) {
		t.Fatalf("Expected ErrUnexpectedAction, got %v", err)
	}
	if msg.String() != `{"action":"ClickAya","aya":3}` {
		t.Errorf("Message should be untouched, got %s", msg.String())
	}
}

func TestMessageGetSetDelete(t *testing.T) {
	msg := NewMessage("Custom")

	if err := msg.Set("count", 2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var count int
	ok, err := msg.Get("count", &count)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}

	var name string
	ok, err = msg.Get("count", &name)
	if !ok || err == nil {
		t.Error("Expected decode error for wrong type")
	}

	ok, _ = msg.Get("missing", &name)
	if ok {
		t.Error("Expected missing key to report false")
	}

	if err := msg.Set("bad", make(chan int)); err == nil {
		t.Error("Expected error encoding a channel")
	}

	msg.Delete("count")
	if msg.Len() != 1 {
		t.Errorf("Expected 1 field after delete, got %d", msg.Len())
	}
	if raw, ok := msg.Raw(FieldAction); !ok || string(raw) != `"Custom"` {
		t.Errorf("Unexpected raw action: %s", raw)
	}
}

func TestZeroMessage(t *testing.T) {
	var msg Message

	if msg.Len() != 0 {
		t.Errorf("Expected empty message, got %d fields", msg.Len())
	}
	if _, ok := msg.Action(); ok {
		t.Error("Zero message should have no action")
	}
	if msg.String() != "{}" {
		t.Errorf("Expected {}, got %s", msg.String())
	}

	var nilMsg *Message
	data, err := nilMsg.MarshalJSON()
	if err != nil || string(data) != "null" {
		t.Errorf("Expected null for nil message, got %s (%v)", data, err)
	}
}
