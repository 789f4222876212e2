// Command roomclient joins a room server over WebSocket and plays one scripted role.
//
// It supports four modes:
//  1. "<room-id>" – initiator: sends OfferCorrection carrying the room id, then prints
//  2. "room_master <room-id>" – drives the room and answers every OfferCorrection
//  3. "user <room-id>" – sends OfferCorrection for the participant, then prints
//  4. "mcp <room-id>" – serves MCP tools over stdio that send actions to the room
//
// Every inbound message is printed verbatim. The client never reconnects:
// a refused or dropped connection or a malformed message ends the process
// with a non-zero status.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/roomclient/room/config"
	"github.com/wricardo/mcp-training/roomclient/room/protocol"
	"github.com/wricardo/mcp-training/roomclient/room/script"
	"github.com/wricardo/mcp-training/roomclient/room/session"
	"github.com/wricardo/mcp-training/roomclient/transport/mcp"
	"github.com/wricardo/mcp-training/roomclient/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Room Client"
)

// newCommand builds the command line. Flags must come before the positional
// arguments.
func newCommand() *cli.Command {
	defaults := config.Default()

	return &cli.Command{
		Name:      "roomclient",
		Usage:     "join a room server and run a scripted role",
		Version:   Version,
		ArgsUsage: "[room_master|user|mcp] <room-id>",
		Description: `Examples:
   roomclient abdan                      # initiator, offers a correction for "abdan"
   roomclient room_master dssn-1         # room master on ws://0.0.0.0:6040
   roomclient --port 9090 user dssn-1    # passive user on another port
   roomclient mcp dssn-1                 # MCP stdio bridge`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "JSON settings file",
				Sources: cli.EnvVars("ROOM_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "scheme",
				Value:   defaults.Scheme,
				Usage:   "websocket scheme (ws or wss)",
				Sources: cli.EnvVars("ROOM_SCHEME"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   defaults.Host,
				Usage:   "room server host",
				Sources: cli.EnvVars("ROOM_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   config.DefaultPort,
				Usage:   "room server port",
				Sources: cli.EnvVars("ROOM_PORT"),
			},
			&cli.StringFlag{
				Name:    "namespace",
				Value:   defaults.Namespace,
				Usage:   "join namespace in /api/room/join/<namespace>/<room-id>",
				Sources: cli.EnvVars("ROOM_NAMESPACE"),
			},
			&cli.StringFlag{
				Name:    "participant",
				Value:   defaults.Participant,
				Usage:   "participant id muted by the room master and offered by the user (\"auto\" for a random UUID)",
				Sources: cli.EnvVars("ROOM_PARTICIPANT"),
			},
			&cli.IntFlag{
				Name:    "aya",
				Value:   script.DefaultAya,
				Usage:   "verse index the room master selects",
				Sources: cli.EnvVars("ROOM_AYA"),
			},
			&cli.IntFlag{
				Name:    "sura",
				Value:   script.DefaultSura,
				Usage:   "chapter the room master moves to",
				Sources: cli.EnvVars("ROOM_SURA"),
			},
			&cli.BoolFlag{
				Name:    "answer-result",
				Value:   defaults.AnswerResult,
				Usage:   "result the room master answers corrections with",
				Sources: cli.EnvVars("ROOM_ANSWER_RESULT"),
			},
			&cli.IntFlag{
				Name:    "history",
				Value:   session.DefaultHistory,
				Usage:   "inbound messages kept for the MCP recent_messages tool",
				Sources: cli.EnvVars("ROOM_HISTORY"),
			},
			&cli.DurationFlag{
				Name:    "handshake-timeout",
				Value:   time.Duration(defaults.HandshakeTimeout),
				Usage:   "time allowed for the websocket handshake",
				Sources: cli.EnvVars("ROOM_HANDSHAKE_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:    "write-timeout",
				Value:   time.Duration(defaults.WriteTimeout),
				Usage:   "time allowed per write (0 for none)",
				Sources: cli.EnvVars("ROOM_WRITE_TIMEOUT"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("ROOM_DEBUG"),
			},
		},
		Action: run,
	}
}

// main loads .env, wires signal handling and runs the command.
func main() {
	setupLogging(os.Stderr, false)

	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("error loading .env file")
		}
	} else {
		log.Debug().Msg("loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		stop()
		log.Fatal().Err(err).Msg("room client stopped")
	}
}

// setupLogging points the global logger at w.
func setupLogging(w io.Writer, debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

// run joins the room and blocks until the connection ends.
func run(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.ErrWriter, cmd.Bool("debug"))

	inv, err := script.ParseInvocation(cmd.Args().Slice())
	if err != nil {
		return err
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	settings = settings.ResolveParticipant()

	joinURL, err := protocol.JoinURL(settings.Endpoint(), inv.Room)
	if err != nil {
		return err
	}

	log.Info().
		Str("mode", inv.Mode.String()).
		Str("room", inv.Room).
		Str("url", joinURL).
		Msgf("starting %s v%s", AppName, Version)

	conn, err := websocket.Dial(ctx, joinURL, settings.DialOptions())
	if err != nil {
		return err
	}
	defer conn.Close()

	// stdout carries MCP traffic in bridge mode.
	out := cmd.Writer
	if inv.Mode == script.Bridge {
		out = cmd.ErrWriter
	}

	params := settings.Params()
	sess := session.New(conn, session.Config{
		Opening:    script.Opening(inv, params),
		Dispatcher: script.Handlers(inv.Mode, params),
		Output:     out,
		History:    settings.History,
	})

	if inv.Mode == script.Bridge {
		err = runBridge(ctx, cmd, inv, sess)
	} else {
		err = sess.Run(ctx)
	}

	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		log.Info().Msg("shutdown complete")
		return nil
	}
	return err
}

// runBridge serves MCP over the command's stdio while the session receives.
// Whichever side stops first ends the other.
func runBridge(ctx context.Context, cmd *cli.Command, inv script.Invocation, sess *session.Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bridge := mcp.NewBridge(inv.Room, sess, Version)

	sessionDone := make(chan error, 1)
	go func() { sessionDone <- sess.Run(ctx) }()

	serveDone := make(chan error, 1)
	go func() { serveDone <- bridge.ServeStdio(ctx, cmd.Reader, cmd.Writer) }()

	log.Info().Str("room", inv.Room).Msg("MCP stdio bridge ready")

	select {
	case err := <-sessionDone:
		return err
	case err := <-serveDone:
		cancel()
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp stdio server: %w", err)
		}
		log.Info().Msg("MCP client disconnected")
		return nil
	}
}

// resolveSettings layers the settings file, then environment and flags, over
// the defaults.
func resolveSettings(cmd *cli.Command) (config.Settings, error) {
	settings := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Settings{}, err
		}
		settings = loaded
	}

	if cmd.IsSet("scheme") {
		settings.Scheme = cmd.String("scheme")
	}
	if cmd.IsSet("host") {
		settings.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		settings.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("namespace") {
		settings.Namespace = cmd.String("namespace")
	}
	if cmd.IsSet("participant") {
		settings.Participant = cmd.String("participant")
	}
	if cmd.IsSet("aya") {
		settings.Aya = int(cmd.Int("aya"))
	}
	if cmd.IsSet("sura") {
		settings.Sura = int(cmd.Int("sura"))
	}
	if cmd.IsSet("answer-result") {
		settings.AnswerResult = cmd.Bool("answer-result")
	}
	if cmd.IsSet("history") {
		settings.History = int(cmd.Int("history"))
	}
	if cmd.IsSet("handshake-timeout") {
		settings.HandshakeTimeout = config.Duration(cmd.Duration("handshake-timeout"))
	}
	if cmd.IsSet("write-timeout") {
		settings.WriteTimeout = config.Duration(cmd.Duration("write-timeout"))
	}

	if err := settings.Validate(); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}
