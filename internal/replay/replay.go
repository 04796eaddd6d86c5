// Package replay реализует проигрывание схемы игроков на поле:
// маркеры переключаются между стартовыми и конечными координатами.
package replay

import (
	"sync"
	"time"

	"jrc-server/internal/model"
)

// State - состояние проигрывания.
type State string

const (
	StateIdle    State = "idle"
	StatePlaying State = "playing"
)

// DefaultDuration - длительность визуального перехода между позициями.
const DefaultDuration = 2500 * time.Millisecond

// Marker - отображаемая позиция игрока в текущем состоянии.
type Marker struct {
	ID    string     `json:"id"`
	Team  model.Team `json:"team"`
	Label string     `json:"label"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
}

// Snapshot - состояние реплея для клиента.
type Snapshot struct {
	PlanID    string   `json:"planId"`
	State     State    `json:"state"`
	Token     uint64   `json:"token"`
	Animating bool     `json:"animating"`
	Markers   []Marker `json:"markers"`
}

// Replay - машина состояний Idle/Playing одного плана.
// Каждый сброс выдаёт новый токен: таймер, запущенный со старым токеном, игнорируется.
type Replay struct {
	planID   string
	players  []model.PlayerPosition
	duration time.Duration

	mu        sync.Mutex
	state     State
	token     uint64
	animating bool
	timer     *time.Timer
	closed    bool
}

// New создаёт реплей в состоянии Idle. Координаты копируются.
func New(planID string, players []model.PlayerPosition, duration time.Duration) *Replay {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Replay{
		planID:   planID,
		players:  append([]model.PlayerPosition(nil), players...),
		duration: duration,
		state:    StateIdle,
	}
}

// Play переводит Idle в Playing и запускает таймер анимации. В Playing ничего не делает.
func (r *Replay) Play() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playLocked()
	return r.snapshotLocked()
}

// Reset возвращает маркеры на старт и инвалидирует контекст анимации.
func (r *Replay) Reset() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
	return r.snapshotLocked()
}

// Toggle - одна кнопка: Play из Idle, Reset из Playing.
// Проверка состояния и переход выполняются под одной блокировкой.
func (r *Replay) Toggle() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StatePlaying {
		r.resetLocked()
	} else {
		r.playLocked()
	}
	return r.snapshotLocked()
}

func (r *Replay) playLocked() {
	if r.closed || r.state == StatePlaying {
		return
	}
	r.state = StatePlaying
	r.animating = true
	token := r.token
	r.timer = time.AfterFunc(r.duration, func() { r.finish(token) })
}

func (r *Replay) resetLocked() {
	if r.closed || r.state == StateIdle {
		return
	}
	r.stopTimerLocked()
	r.token++
	r.state = StateIdle
	r.animating = false
}

// Snapshot возвращает текущее состояние.
func (r *Replay) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Markers возвращает позиции: старт в Idle, конец в Playing.
func (r *Replay) Markers() []Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.markersLocked()
}

// Close останавливает таймер. После Close переходы не выполняются.
func (r *Replay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTimerLocked()
	r.token++
	r.animating = false
	r.closed = true
}

func (r *Replay) finish(token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token != r.token || r.state != StatePlaying {
		return
	}
	r.animating = false
	r.timer = nil
}

func (r *Replay) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Replay) snapshotLocked() Snapshot {
	return Snapshot{
		PlanID:    r.planID,
		State:     r.state,
		Token:     r.token,
		Animating: r.animating,
		Markers:   r.markersLocked(),
	}
}

func (r *Replay) markersLocked() []Marker {
	markers := make([]Marker, 0, len(r.players))
	for _, p := range r.players {
		m := Marker{ID: p.ID, Team: p.Team, Label: p.Label, X: p.StartX, Y: p.StartY}
		if r.state == StatePlaying {
			m.X, m.Y = p.EndX, p.EndY
		}
		markers = append(markers, m)
	}
	return markers
}
