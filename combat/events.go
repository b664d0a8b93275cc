package combat

// Faction identifies teams for friendly-fire checks.
type Faction int

const (
	FactionNeutral Faction = iota
	FactionPlayer
	FactionEnemy
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionEnemy:
		return "enemy"
	default:
		return "neutral"
	}
}

// CanHit reports whether an attacker of faction f may damage target.
// Neutral attackers hit everything.
func (f Faction) CanHit(target Faction) bool {
	if f == FactionNeutral || target == FactionNeutral {
		return true
	}
	return f != target
}

type EventType string

const (
	EventHit     EventType = "hit"
	EventBlocked EventType = "blocked"
	EventHealed  EventType = "healed"
	EventDeath   EventType = "death"
	EventStun    EventType = "stun"
	EventBuff    EventType = "buff"
)

// Event describes something presentation or logging may care about. The
// damage pipeline never emits; callers translate outcomes.
type Event struct {
	Type     EventType
	Source   Source
	Attacker string
	Target   string
	Amount   int
	Detail   string
}

type EventHandler func(evt Event)

type Emitter struct {
	Handlers []EventHandler
}

func (e *Emitter) Subscribe(h EventHandler) {
	if e == nil || h == nil {
		return
	}
	e.Handlers = append(e.Handlers, h)
}

func (e *Emitter) Emit(evt Event) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}

// EventFor translates a pipeline outcome. ok is false for ignored hits.
func EventFor(out Outcome, evt AttackEvent, attacker, target string) (Event, bool) {
	base := Event{Source: evt.Source, Attacker: attacker, Target: target, Amount: out.Amount}
	switch out.Kind {
	case Blocked:
		base.Type = EventBlocked
	case Healed:
		base.Type = EventHealed
	case Applied:
		base.Type = EventHit
		if out.Killed {
			base.Type = EventDeath
		}
	default:
		return Event{}, false
	}
	return base, true
}
