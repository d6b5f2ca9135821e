package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Belzedar94/PokeBot/internal/infrastructure/journal"
	"github.com/Belzedar94/PokeBot/internal/status"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "status":
		data, err := os.ReadFile(os.Args[2])
		if err != nil {
			fmt.Printf("Cannot read status file: %v\n", err)
			return
		}
		var rec status.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			fmt.Printf("Invalid status file: %v\n", err)
			return
		}
		fmt.Printf("kind:  %s\n", rec.Kind)
		fmt.Printf("addr:  %s:%d\n", rec.Host, rec.Port)
		fmt.Printf("when:  %s\n", time.Unix(int64(rec.T), 0).Format(time.RFC3339))
		if rec.Disabled {
			fmt.Println("state: DISABLED (bind failed, restart the host)")
		}
		if rec.Error != "" {
			fmt.Printf("error: %s\n", rec.Error)
		}
		if rec.Build != "" {
			fmt.Printf("build: %s\n", rec.Build)
		}
	case "journal":
		events, skipped, err := journal.Load(os.Args[2])
		if err != nil {
			fmt.Printf("Cannot read journal: %v\n", err)
			return
		}
		counts := map[string]int{}
		for _, ev := range events {
			counts[ev.Type]++
		}
		fmt.Printf("events: %d (skipped %d corrupt lines)\n", len(events), skipped)
		for typ, n := range counts {
			fmt.Printf("  %-18s %d\n", typ, n)
		}
		if len(events) > 0 {
			last := events[len(events)-1]
			fmt.Printf("last:   %s at %s\n", last.Type, time.Unix(int64(last.T), 0).Format(time.RFC3339))
		}
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Bridge Stat - инспекция диагностики моста
Commands:
  status <file>   - расшифровать pokebot_status.json
  journal <file>  - сводка по JSONL-журналу событий`)
}
