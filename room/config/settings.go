package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/roomclient/room/protocol"
	"github.com/wricardo/mcp-training/roomclient/room/script"
	"github.com/wricardo/mcp-training/roomclient/room/session"
	"github.com/wricardo/mcp-training/roomclient/transport/websocket"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// AutoParticipant asks for a random participant id.
const AutoParticipant = "auto"

// Endpoint defaults match the reference room server.
const (
	DefaultScheme    = "ws"
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 6040
	DefaultNamespace = "dssn"
)

// Settings is everything the client needs to join a room and run its script.
type Settings struct {
	Scheme    string `json:"scheme"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Namespace string `json:"namespace"`

	Participant  string `json:"participant"`
	Aya          int    `json:"aya"`
	Sura         int    `json:"sura"`
	AnswerResult bool   `json:"answer_result"`

	HandshakeTimeout Duration `json:"handshake_timeout"`
	WriteTimeout     Duration `json:"write_timeout"`
	History          int      `json:"history"`
}

// Default returns the built-in settings.
func Default() Settings {
	params := script.DefaultParams()
	return Settings{
		Scheme:           DefaultScheme,
		Host:             DefaultHost,
		Port:             DefaultPort,
		Namespace:        DefaultNamespace,
		Participant:      params.Participant,
		Aya:              params.Aya,
		Sura:             params.Sura,
		AnswerResult:     params.AnswerResult,
		HandshakeTimeout: Duration(websocket.DefaultHandshakeTimeout),
		History:          session.DefaultHistory,
	}
}

// Load reads a JSON settings file over the defaults and validates it.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}

	settings := Default()
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate checks the settings for values the client cannot run with.
func (s Settings) Validate() error {
	var problems []string

	if s.Scheme != "ws" && s.Scheme != "wss" {
		problems = append(problems, fmt.Sprintf("scheme must be ws or wss, got %q", s.Scheme))
	}
	if s.Host == "" {
		problems = append(problems, "host is required")
	}
	if s.Port < 1 || s.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", s.Port))
	}
	if s.Namespace == "" || strings.Contains(s.Namespace, "/") {
		problems = append(problems, fmt.Sprintf("namespace %q must be a single path segment", s.Namespace))
	}
	if s.Participant == "" {
		problems = append(problems, "participant is required")
	}
	if s.Aya < 1 {
		problems = append(problems, fmt.Sprintf("aya must be at least 1, got %d", s.Aya))
	}
	if s.Sura < 1 {
		problems = append(problems, fmt.Sprintf("sura must be at least 1, got %d", s.Sura))
	}
	if s.HandshakeTimeout < 0 || s.WriteTimeout < 0 {
		problems = append(problems, "timeouts must not be negative")
	}
	if s.History < 0 {
		problems = append(problems, fmt.Sprintf("history must not be negative, got %d", s.History))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ResolveParticipant replaces AutoParticipant with a random UUID.
func (s Settings) ResolveParticipant() Settings {
	if s.Participant == AutoParticipant {
		s.Participant = uuid.New().String()
	}
	return s
}

// Endpoint returns the room endpoint the settings point at.
func (s Settings) Endpoint() protocol.Endpoint {
	return protocol.Endpoint{
		Scheme:    s.Scheme,
		Host:      s.Host,
		Port:      s.Port,
		Namespace: s.Namespace,
	}
}

// Params returns the script parameters.
func (s Settings) Params() script.Params {
	return script.Params{
		Participant:  s.Participant,
		Aya:          s.Aya,
		Sura:         s.Sura,
		AnswerResult: s.AnswerResult,
	}
}

// DialOptions returns the transport options.
func (s Settings) DialOptions() websocket.Options {
	return websocket.Options{
		HandshakeTimeout: time.Duration(s.HandshakeTimeout),
		WriteTimeout:     time.Duration(s.WriteTimeout),
	}
}

// Duration is a time.Duration written as a Go duration string in JSON.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"45s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}
