package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mcdev12/rangebomb/go/internal/client"
	"github.com/mcdev12/rangebomb/go/internal/game"
	"github.com/mcdev12/rangebomb/go/internal/transport"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	cfg := client.DefaultConfig()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		cfg, err = client.LoadConfig(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load config")
		}
	}

	var tp transport.Transport
	switch kind := getEnv("TRANSPORT", "nats"); kind {
	case "websocket":
		wsCfg := transport.DefaultWSConfig()
		wsCfg.URL = getEnv("GATEWAY_WS_URL", wsCfg.URL)
		tp = transport.NewWSTransport(wsCfg)
	case "nats":
		natsCfg := transport.DefaultNATSConfig()
		natsCfg.URL = getEnv("NATS_URL", nats.DefaultURL)
		tp = transport.NewNATSTransport(natsCfg)
	default:
		log.Fatal().Str("transport", kind).Msg("unknown TRANSPORT value")
	}

	eng := client.NewEngine(tp, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := eng.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect")
	}
	defer eng.Close()

	log.Info().Msg("rangebomb client ready; type 'help' for commands")

	done := make(chan struct{})
	go runPrompt(eng, done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case <-done:
	}

	log.Info().Msg("rangebomb client shutdown complete")
}

func runPrompt(eng *client.Engine, done chan<- struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			fmt.Print("> ")
			continue
		}

		var err error
		switch cmd, args := fields[0], fields[1:]; cmd {
		case "help":
			printHelp()
		case "name":
			err = eng.SetPlayerName(strings.Join(args, " "))
		case "create":
			err = eng.CreateRoom(strings.Join(args, " "))
		case "join":
			if len(args) < 2 {
				err = fmt.Errorf("usage: join <room-id> <name>")
			} else {
				err = eng.JoinRoom(args[0], strings.Join(args[1:], " "))
			}
		case "start":
			err = eng.StartGame()
		case "guess":
			var n int
			if len(args) != 1 {
				err = fmt.Errorf("usage: guess <number>")
			} else if n, err = strconv.Atoi(args[0]); err == nil {
				err = eng.MakeGuess(n)
			}
		case "kick":
			err = eng.RemovePlayer(strings.Join(args, " "))
		case "restart":
			err = eng.RestartGame()
		case "quit":
			err = eng.QuitGame()
		case "state":
			printState(eng.State())
		case "dismiss":
			eng.ClearError()
		case "exit":
			return
		default:
			fmt.Printf("unknown command %q; type 'help'\n", cmd)
		}

		if err != nil {
			fmt.Println("error:", err)
		}
		fmt.Print("> ")
	}
}

func printHelp() {
	fmt.Println(`commands:
  name <display-name>      set and save your name
  create <name>            create a room
  join <room-id> <name>    join a room
  start                    start the countdown (host)
  guess <number>           make a guess
  kick <name>              remove a player (host)
  restart                  back to lobby after a game
  quit                     leave the room
  state                    print the current snapshot
  dismiss                  clear the current error
  exit                     quit the client`)
}

func printState(st game.ClientState) {
	fmt.Printf("phase=%s connected=%v player=%q\n", st.Phase, st.Connected, st.PlayerName)
	if st.Err != "" {
		fmt.Printf("error: %s\n", st.Err)
	}
	if st.CountingDown {
		fmt.Printf("starting in %d...\n", st.Countdown)
	}
	if st.Room == nil {
		return
	}
	fmt.Printf("room %s  range %d-%d  state=%s\n", st.Room.RoomID, st.Room.MinRange, st.Room.MaxRange, st.Room.State)
	for i, p := range st.Room.Players {
		marker := " "
		if i == st.Room.CurrentPlayerIndex && st.Room.State == game.RoomStatePlaying {
			marker = "*"
		}
		host := ""
		if p.IsHost {
			host = " (host)"
		}
		fmt.Printf(" %s %s%s\n", marker, p.Name, host)
	}
	for _, turn := range st.History {
		fmt.Printf("   %s guessed %d: %s\n", turn.PlayerName, turn.Guess, turn.Result)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
