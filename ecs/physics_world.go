package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rpgcore/common"
)

const (
	categoryWall uint = 1 << iota
	categoryBreakable
	categoryActor
)

const (
	wallThickness = 1.0
	// moveSkin keeps truncated movement a hair short of the wall surface.
	moveSkin = 1e-3
	// queryPad widens broadphase boxes to cover motion since the last step.
	queryPad = 0.5
)

var (
	wallFilter      = cp.NewShapeFilter(cp.NO_GROUP, categoryWall, cp.ALL_CATEGORIES)
	breakableFilter = cp.NewShapeFilter(cp.NO_GROUP, categoryBreakable, cp.ALL_CATEGORIES)
	actorFilter     = cp.NewShapeFilter(cp.NO_GROUP, categoryActor, cp.ALL_CATEGORIES)

	solidMask = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryWall|categoryBreakable)
	hitMask   = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryActor|categoryBreakable)
)

// WallHit describes the first static surface along a swept path.
type WallHit struct {
	Point  cp.Vector
	Normal cp.Vector
	Alpha  float64
	// Breakable is the cracked wall entity, or zero for solid geometry.
	Breakable Entity
}

// PhysicsWorld owns the Chipmunk space. Walls are static boxes; actors are
// kinematic sensor circles positioned from component.Body every tick and
// used only for spatial queries.
type PhysicsWorld struct {
	space *cp.Space
	room  common.Room

	walls         []cp.BB
	actors        map[Entity]*cp.Shape
	breakables    map[Entity]*cp.Shape
	shapeToEntity map[*cp.Shape]Entity
}

// NewPhysicsWorld creates a space enclosed by the room's four walls.
func NewPhysicsWorld(room common.Room) *PhysicsWorld {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})

	pw := &PhysicsWorld{
		space:         space,
		room:          room,
		actors:        make(map[Entity]*cp.Shape),
		breakables:    make(map[Entity]*cp.Shape),
		shapeToEntity: make(map[*cp.Shape]Entity),
	}
	pw.buildBoundary()
	return pw
}

func (pw *PhysicsWorld) buildBoundary() {
	r := pw.room
	t := wallThickness
	pw.AddWall(cp.BB{L: r.Min.X - t, B: r.Min.Y - t, R: r.Max.X + t, T: r.Min.Y})
	pw.AddWall(cp.BB{L: r.Min.X - t, B: r.Max.Y, R: r.Max.X + t, T: r.Max.Y + t})
	pw.AddWall(cp.BB{L: r.Min.X - t, B: r.Min.Y, R: r.Min.X, T: r.Max.Y})
	pw.AddWall(cp.BB{L: r.Max.X, B: r.Min.Y, R: r.Max.X + t, T: r.Max.Y})
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) Room() common.Room {
	if pw == nil {
		return common.Room{}
	}
	return pw.room
}

// AddWall adds an indestructible box.
func (pw *PhysicsWorld) AddWall(bb cp.BB) {
	if pw == nil {
		return
	}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetFilter(wallFilter)
	pw.space.AddShape(shape)
	pw.walls = append(pw.walls, bb)
}

// Walls returns the solid boxes for drawing.
func (pw *PhysicsWorld) Walls() []cp.BB {
	if pw == nil {
		return nil
	}
	return append([]cp.BB(nil), pw.walls...)
}

// AddBreakable adds a wall owned by entity e that blocks movement until
// removed.
func (pw *PhysicsWorld) AddBreakable(e Entity, bb cp.BB) {
	if pw == nil || !e.Valid() {
		return
	}
	pw.RemoveBreakable(e)
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetFilter(breakableFilter)
	shape.UserData = e
	pw.space.AddShape(shape)
	pw.breakables[e] = shape
	pw.shapeToEntity[shape] = e
}

func (pw *PhysicsWorld) RemoveBreakable(e Entity) bool {
	if pw == nil {
		return false
	}
	shape, ok := pw.breakables[e]
	if !ok {
		return false
	}
	pw.space.RemoveShape(shape)
	delete(pw.breakables, e)
	delete(pw.shapeToEntity, shape)
	return true
}

// SyncActor creates or moves the query circle for e.
func (pw *PhysicsWorld) SyncActor(e Entity, pos cp.Vector, radius float64) {
	if pw == nil || !e.Valid() {
		return
	}
	shape, ok := pw.actors[e]
	if ok {
		if c, isCircle := shape.Class.(*cp.Circle); isCircle && math.Abs(c.Radius()-radius) > 1e-9 {
			pw.RemoveActor(e)
			ok = false
		}
	}
	if !ok {
		body := pw.space.AddBody(cp.NewKinematicBody())
		body.SetPosition(pos)
		shape = cp.NewCircle(body, math.Max(radius, 0.01), cp.Vector{})
		shape.SetSensor(true)
		shape.SetFilter(actorFilter)
		shape.UserData = e
		pw.space.AddShape(shape)
		pw.actors[e] = shape
		pw.shapeToEntity[shape] = e
		return
	}
	body := shape.Body()
	if body.Position() == pos {
		return
	}
	body.SetPosition(pos)
	// re-adding refreshes the broadphase box now rather than at the next Step
	pw.space.RemoveShape(shape)
	pw.space.AddShape(shape)
}

func (pw *PhysicsWorld) RemoveActor(e Entity) {
	if pw == nil {
		return
	}
	shape, ok := pw.actors[e]
	if !ok {
		return
	}
	body := shape.Body()
	pw.space.RemoveShape(shape)
	pw.space.RemoveBody(body)
	delete(pw.actors, e)
	delete(pw.shapeToEntity, shape)
}

// Step advances the space so kinematic shapes are reindexed at their new
// positions.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

// QueryCircle returns actors and breakables whose broadphase boxes touch the
// circle. Callers do the exact distance test against live positions.
func (pw *PhysicsWorld) QueryCircle(center cp.Vector, radius float64) []Entity {
	if pw == nil {
		return nil
	}
	var out []Entity
	seen := make(map[Entity]struct{})
	bb := cp.NewBBForCircle(center, radius+queryPad)
	pw.space.BBQuery(bb, hitMask, func(shape *cp.Shape, _ interface{}) {
		e, ok := pw.shapeToEntity[shape]
		if !ok {
			return
		}
		if _, dup := seen[e]; dup {
			return
		}
		if _, isWall := pw.breakables[e]; isWall && shape.PointQuery(center).Distance > radius {
			return
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}, nil)
	return out
}

// SweepWalls casts a circle of radius from a to b against walls and
// breakables. Surfaces the circle is already moving away from are ignored.
func (pw *PhysicsWorld) SweepWalls(a, b cp.Vector, radius float64) (WallHit, bool) {
	if pw == nil {
		return WallHit{}, false
	}
	delta := b.Sub(a)
	if delta.LengthSq() < 1e-18 {
		return WallHit{}, false
	}
	best := WallHit{Alpha: math.Inf(1)}
	found := false
	// the space's segment query tests the thin centre line against the
	// broadphase, so gather candidates from the swept box instead.
	swept := cp.NewBBForExtents(a, radius, radius).Merge(cp.NewBBForExtents(b, radius, radius))
	pw.space.BBQuery(swept, solidMask, func(shape *cp.Shape, _ interface{}) {
		var info cp.SegmentQueryInfo
		if !shape.SegmentQuery(a, b, radius, &info) {
			return
		}
		if delta.Dot(info.Normal) >= 0 || info.Alpha >= best.Alpha {
			return
		}
		best = WallHit{Point: info.Point, Normal: info.Normal, Alpha: info.Alpha, Breakable: pw.shapeToEntity[shape]}
		found = true
	}, nil)
	return best, found
}

// Move returns where a circle travelling from a to b comes to rest, and
// whether a wall cut the move short.
func (pw *PhysicsWorld) Move(a, b cp.Vector, radius float64) (cp.Vector, bool) {
	hit, ok := pw.SweepWalls(a, b, radius)
	if !ok {
		return b, false
	}
	delta := b.Sub(a)
	length := delta.Length()
	travel := math.Max(0, hit.Alpha*length-moveSkin)
	stop := a.Add(delta.Mult(travel / length))

	// slide along the surface with whatever motion remains
	rest := b.Sub(stop)
	slide := rest.Sub(hit.Normal.Mult(rest.Dot(hit.Normal)))
	if slide.LengthSq() > 1e-12 {
		if _, blocked := pw.SweepWalls(stop, stop.Add(slide), radius); !blocked {
			stop = stop.Add(slide)
		}
	}
	return stop, true
}
