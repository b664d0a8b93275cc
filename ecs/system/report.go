package system

import (
	"github.com/milk9111/rpgcore/combat"
	"github.com/sirupsen/logrus"
)

const attackerPlayer = "player"

// Reporter turns resolved hits into debug log lines and combat events.
// A nil Reporter drops everything.
type Reporter struct {
	Log     *logrus.Entry
	Emitter *combat.Emitter
}

func NewReporter(log *logrus.Entry, em *combat.Emitter) *Reporter {
	return &Reporter{Log: log, Emitter: em}
}

// Report records outs as hits by attacker. Ignored outcomes are skipped.
func (r *Reporter) Report(attacker, target string, source combat.Source, outs ...combat.Outcome) {
	if r == nil {
		return
	}
	for _, out := range outs {
		evt, ok := combat.EventFor(out, combat.Hit(out.Amount, source), attacker, target)
		if !ok {
			continue
		}
		if r.Log != nil {
			r.Log.WithFields(logrus.Fields{
				"attacker": attacker,
				"source":   source.String(),
				"outcome":  out.String(),
			}).Debug("combat: hit")
		}
		r.Emitter.Emit(evt)
	}
}

func (r *Reporter) debug(msg string, fields logrus.Fields) {
	if r == nil || r.Log == nil {
		return
	}
	r.Log.WithFields(fields).Debug(msg)
}
