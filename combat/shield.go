package combat

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/common"
)

// Shield is a blocking cone centred on Facing. Owners recompute Facing every
// tick from their aim or movement direction.
type Shield struct {
	ArcDegrees float64
	Raised     bool
	Facing     cp.Vector
}

// Blocks reports whether a hit from origin against a defender at pos lands
// inside the raised arc. The boundary angle itself is not blocked.
func (s *Shield) Blocks(pos, origin cp.Vector) bool {
	if s == nil || !s.Raised || s.ArcDegrees <= 0 {
		return false
	}
	facing := common.SafeNormalize(s.Facing)
	toAttacker := common.Direction(pos, origin)
	if facing == (cp.Vector{}) || toAttacker == (cp.Vector{}) {
		return false
	}
	return common.AngleBetween(facing, toAttacker) < s.ArcDegrees/2
}
