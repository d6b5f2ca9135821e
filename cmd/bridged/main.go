package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Belzedar94/PokeBot/internal/bridge"
	"github.com/Belzedar94/PokeBot/internal/server"
	"github.com/Belzedar94/PokeBot/internal/sim"
	"github.com/Belzedar94/PokeBot/internal/version"
	"github.com/Belzedar94/PokeBot/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed int64
	var fallback bool
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Simulated world seed (0 for random)")
	flag.BoolVar(&fallback, "fallback", false, "Drive the bridge from its own ticker instead of the frame loop")
	flag.Parse()

	logger.Log.Info("Starting PokeBot bridge...")
	logger.Log.Info(version.String())

	cfg, err := bridge.LoadConfig()
	if err != nil {
		logger.Log.Fatal("Config error:", err)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Log.Infof("🎲 Using random world seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using explicit world seed: %d", seed)
	}
	rng := rand.New(rand.NewSource(seed))

	// 2. Инициализация симулированного хоста и моста
	host := sim.NewHost()
	svc := bridge.New(host, cfg)
	svc.Start()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	// 3. Опциональный debug-сервер (читает состояние моста, ничего не меняет)
	if cfg.DebugHTTPPort != 0 {
		srv := server.New(svc, cfg.DebugHTTPPort)
		g.Go(func() error {
			return srv.Run()
		})
	}

	// 4. Кадровый цикл. В режиме -fallback мост тикает сам,
	// а цикл только двигает симуляцию.
	if fallback {
		svc.StartFallbackTicker()
	} else {
		svc.MarkHookAttached()
	}

	g.Go(func() error {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				host.Tick(rng)
				if !fallback {
					svc.Update()
				}
			}
		}
	})

	select {
	case <-stop:
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down...")
	cancel()

	svc.Stop()
	_ = g.Wait()

	logger.Log.Info("Done.")
}
