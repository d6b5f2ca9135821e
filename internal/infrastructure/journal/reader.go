package journal

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/Belzedar94/PokeBot/pkg/api"
)

// Load читает журнал событий обратно.
// Битые строки (обычно одна последняя, от упавшего процесса)
// пропускаются; их количество возвращается вторым значением.
func Load(path string) ([]api.Event, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var events []api.Event
	skipped := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev api.Event
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			skipped++
			continue
		}
		events = append(events, ev)
	}

	if err := scanner.Err(); err != nil {
		return events, skipped, err
	}
	return events, skipped, nil
}
