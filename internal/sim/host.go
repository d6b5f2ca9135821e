// Package sim это "игра-заглушка": минимальный хост, реализующий
// ВСЕ способности из internal/host, включая наблюдательские.
//
// Этот код - пример того, что мост ожидает от настоящего хоста.
// Он позволяет запускать и прогонять мост целиком без самой игры
// (cmd/bridged) и служит полнофункциональным хостом в тестах.
package sim

import (
	"math/rand"
	"sync"

	"github.com/Belzedar94/PokeBot/internal/host"
)

// Pokemon это одно существо команды симулятора.
type Pokemon struct {
	PID       int64
	SpeciesID string
	NickName  string
	Lvl       int
	HPNow     int
	HPMax     int
	Condition string // "", "PSN", "PAR", "SLP", ...
}

// --- host.Creature ---

func (p *Pokemon) PersonalID() (int64, bool) { return p.PID, p.PID != 0 }
func (p *Pokemon) Species() string           { return p.SpeciesID }
func (p *Pokemon) Name() string              { return p.NickName }
func (p *Pokemon) Level() int                { return p.Lvl }
func (p *Pokemon) HP() (int, int)            { return p.HPNow, p.HPMax }
func (p *Pokemon) Status() string            { return p.Condition }

// Host это состояние симулируемой игры.
// Все мутации и чтения идут под одним мьютексом: настоящая игра
// однопоточна, но симулятор могут дергать из разных горутин.
type Host struct {
	mu sync.Mutex

	scene    string
	mapID    int
	x, y     int
	dir      int
	badges   []bool
	money    int
	party    []*Pokemon
	inBattle bool
	message  string

	creatureFns []func(host.Creature)
	badgeFns    []func(int)

	nextPID int64
}

// NewHost создает симулятор в начальном состоянии игры.
func NewHost() *Host {
	return &Host{
		scene:   "Scene_Map",
		mapID:   1,
		x:       7,
		y:       5,
		dir:     2,
		badges:  make([]bool, 8),
		money:   3000,
		nextPID: 1000,
	}
}

// --- Способности чтения ---

func (h *Host) SceneName() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scene, nil
}

func (h *Host) MapID() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mapID, nil
}

func (h *Host) PlayerPosition() (int, int, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.x, h.y, h.dir, nil
}

func (h *Host) BadgeFlags() ([]bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]bool, len(h.badges))
	copy(out, h.badges)
	return out, nil
}

func (h *Host) Money() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.money, nil
}

func (h *Host) Party() ([]host.Creature, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]host.Creature, len(h.party))
	for i, p := range h.party {
		out[i] = p
	}
	return out, nil
}

func (h *Host) InBattle() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inBattle, nil
}

func (h *Host) MessageText() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.message, nil
}

// --- Наблюдательские способности ---

func (h *Host) OnCreatureStored(fn func(host.Creature)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.creatureFns = append(h.creatureFns, fn)
}

func (h *Host) OnBadgeGranted(fn func(int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.badgeFns = append(h.badgeFns, fn)
}

// --- Мутации (то, что в настоящей игре делает сама игра) ---

// Walk перемещает игрока на шаг в направлении dir.
func (h *Host) Walk(dir int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dir = dir
	switch dir {
	case 2:
		h.y++
	case 4:
		h.x--
	case 6:
		h.x++
	case 8:
		h.y--
	}
}

// EnterMap переносит игрока на другую карту.
func (h *Host) EnterMap(mapID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mapID = mapID
	h.x, h.y = 5, 5
}

// Catch добавляет существо в команду и уведомляет наблюдателей.
// Уведомление идет ПОСЛЕ успешного добавления - так же обязан
// вести себя настоящий хост.
func (h *Host) Catch(species, name string, level int) *Pokemon {
	h.mu.Lock()
	h.nextPID++
	p := &Pokemon{
		PID:       h.nextPID,
		SpeciesID: species,
		NickName:  name,
		Lvl:       level,
		HPNow:     level * 3,
		HPMax:     level * 3,
	}
	h.party = append(h.party, p)
	fns := append([]func(host.Creature){}, h.creatureFns...)
	h.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
	return p
}

// GrantBadge выставляет очередной флаг значка и уведомляет наблюдателей.
func (h *Host) GrantBadge() {
	h.mu.Lock()
	count := 0
	for i, b := range h.badges {
		if !b {
			h.badges[i] = true
			break
		}
	}
	for _, b := range h.badges {
		if b {
			count++
		}
	}
	fns := append([]func(int){}, h.badgeFns...)
	h.mu.Unlock()

	for _, fn := range fns {
		fn(count)
	}
}

// Damage наносит урон существу по индексу (hp не уходит ниже нуля).
func (h *Host) Damage(idx, amount int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if idx < 0 || idx >= len(h.party) {
		return
	}
	p := h.party[idx]
	p.HPNow -= amount
	if p.HPNow < 0 {
		p.HPNow = 0
	}
}

// Heal полностью лечит команду (Покецентр).
func (h *Host) Heal() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.party {
		p.HPNow = p.HPMax
		p.Condition = ""
	}
}

// SetBattle переключает флаг боя и сцену.
func (h *Host) SetBattle(in bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inBattle = in
	if in {
		h.scene = "Scene_Battle"
	} else {
		h.scene = "Scene_Map"
	}
}

// SetMessage выставляет текст игрового окна ("" - окно закрыто).
func (h *Host) SetMessage(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.message = text
}

// AddMoney изменяет деньги игрока.
func (h *Host) AddMoney(delta int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.money += delta
	if h.money < 0 {
		h.money = 0
	}
}

// PartySize возвращает размер команды.
func (h *Host) PartySize() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.party)
}

// Tick делает один случайный "игровой шаг" для демо-прогона:
// ходьба, переходы карт, поимки, бои с уроном, редкие значки.
func (h *Host) Tick(rng *rand.Rand) {
	switch n := rng.Intn(100); {
	case n < 60:
		h.Walk(2 + 2*rng.Intn(4)) // 2/4/6/8
	case n < 70:
		h.EnterMap(1 + rng.Intn(20))
	case n < 80:
		if h.PartySize() < 6 {
			species := starters[rng.Intn(len(starters))]
			h.Catch(species, species, 3+rng.Intn(30))
		}
	case n < 90:
		if size := h.PartySize(); size > 0 {
			h.Damage(rng.Intn(size), 5+rng.Intn(40))
		}
	case n < 95:
		h.Heal()
	case n < 98:
		h.SetBattle(rng.Intn(2) == 0)
	default:
		h.GrantBadge()
	}
}

var starters = []string{
	"BULBASAUR", "CHARMANDER", "SQUIRTLE",
	"PIKACHU", "EEVEE", "RIOLU", "GIBLE",
}
