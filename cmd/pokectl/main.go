package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Belzedar94/PokeBot/internal/agent"
	"github.com/Belzedar94/PokeBot/pkg/api"
	"github.com/Belzedar94/PokeBot/pkg/logger"
)

func init() {
	logger.Init()
}

// pokectl - контроллер моста из командной строки.
// Делает то же, что делал бы настоящий агент: подключается к TCP-сокету
// моста и гоняет команды протокола.
func main() {
	addr := flag.String("addr", "127.0.0.1:53135", "Bridge address")
	flag.Parse()

	if flag.NArg() < 1 {
		printHelp()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := agent.New(*addr)
	if err := client.Connect(ctx); err != nil {
		logger.Log.Fatal(err)
	}
	defer client.Close()

	switch flag.Arg(0) {
	case "ping":
		if err := client.Ping(); err != nil {
			logger.Log.Fatal(err)
		}
		fmt.Println("pong")

	case "state":
		snap, err := client.State()
		if err != nil {
			logger.Log.Fatal(err)
		}
		printJSON(snap)

	case "events":
		events, err := client.Events()
		if err != nil {
			logger.Log.Fatal(err)
		}
		printJSON(events)

	case "watch":
		// Живой хвост событий: опрашиваем мост, пока не прервут.
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		runCtx, runCancel := context.WithCancel(context.Background())
		go func() {
			<-stop
			runCancel()
		}()

		err := client.Run(runCtx, 500*time.Millisecond, func(ev api.Event) {
			printJSON(ev)
		})
		if err != nil && runCtx.Err() == nil {
			logger.Log.Fatal(err)
		}

	case "debug":
		if flag.NArg() < 2 || (flag.Arg(1) != "on" && flag.Arg(1) != "off") {
			fmt.Println("Usage: pokectl debug on|off")
			os.Exit(1)
		}
		if err := client.SetDebug(flag.Arg(1) == "on"); err != nil {
			logger.Log.Fatal(err)
		}
		fmt.Printf("debug %s\n", flag.Arg(1))

	default:
		printHelp()
		os.Exit(1)
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Log.Fatal(err)
	}
	fmt.Println(string(data))
}

func printHelp() {
	fmt.Println(`pokectl - командная строка контроллера моста
Commands:
  ping            - проверить, что мост жив
  state           - снять свежий снимок состояния игры
  events          - забрать накопленные события (опустошает очередь)
  watch           - следить за событиями до Ctrl+C
  debug on|off    - переключить подробное логирование моста`)
}
