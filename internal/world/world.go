package world

import (
	"sort"

	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/collision"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/shape"
	"github.com/curtisalleynesr/reactphysics3d/internal/solver"
)

// motionEpsilon is the net per-step motion below which a body is not
// flagged as moved.
const motionEpsilon scalar.Real = 1e-5

// JointHandle is a stable reference to a joint slot.
type JointHandle struct {
	Index      uint32
	Generation uint32
}

// Observer is notified after every completed step, in registration order.
// Observers must not mutate the world; mutating entry points return
// ErrWorldLocked while a step is in progress.
type Observer interface {
	OnStep(w *World, step uint64, t scalar.Real)
}

type bodySlot struct {
	body       *body.RigidBody
	generation uint32
	active     bool
}

type jointSlot struct {
	joint      solver.Joint
	generation uint32
	active     bool
}

// World owns every body, joint, pair and manifold of one simulation and
// advances them one fixed timestep per Update call. It is not safe for
// concurrent use.
type World struct {
	settings Settings
	running  bool
	locked   bool

	slots    []bodySlot
	freeList []uint32

	jointSlots []jointSlot
	jointFree  []uint32

	broad    *collision.SweepPrune
	pairs    map[collision.PairKey]*collision.Pair
	pairKeys []collision.PairKey

	contactSolver    *solver.ContactSolver
	constraintSolver *solver.ConstraintSolver
	vel              solver.Velocities
	infos            []solver.BodyInfo
	denseIndex       []int
	touched          []uint32
	contactEntries   []solver.Entry
	jointEntries     []solver.JointEntry

	observers []Observer
	steps     uint64
	time      scalar.Real
}

// New creates an empty world in the Stopped state.
func New(settings Settings) (*World, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &World{
		settings:         settings,
		broad:            collision.NewSweepPrune(),
		pairs:            make(map[collision.PairKey]*collision.Pair),
		contactSolver:    solver.NewContactSolver(),
		constraintSolver: solver.NewConstraintSolver(),
	}, nil
}

// Start switches the world to Running. Update calls before Start are
// no-ops.
func (w *World) Start() error {
	if w.locked {
		return ErrWorldLocked
	}
	w.running = true
	return nil
}

// Stop switches the world back to Stopped. It does not touch any body
// state; a later Start resumes where the simulation left off.
func (w *World) Stop() error {
	if w.locked {
		return ErrWorldLocked
	}
	w.running = false
	return nil
}

// Running reports whether Update currently advances the simulation.
func (w *World) Running() bool { return w.running }

// AddObserver registers a step observer.
func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// CreateBody adds a dynamic rigid body and returns its handle. The shape's
// local inertia tensor for the given mass is used.
func (w *World) CreateBody(transform body.Transform, mass scalar.Real, s shape.Shape) (body.Handle, error) {
	return w.CreateBodyWithInertia(transform, mass, s.LocalInertiaTensor(mass), s)
}

// CreateBodyWithInertia adds a dynamic rigid body with an explicit local
// inertia tensor, for mass distributions the collision shape does not
// describe.
func (w *World) CreateBodyWithInertia(transform body.Transform, mass scalar.Real, inertiaLocal scalar.Mat3, s shape.Shape) (body.Handle, error) {
	if w.locked {
		return body.Handle{}, ErrWorldLocked
	}
	rb, err := body.New(transform, mass, inertiaLocal, s)
	if err != nil {
		return body.Handle{}, err
	}
	h := w.allocSlot(rb)
	w.broad.UpdateProxy(h.Index, collision.BoundsOf(rb))
	return h, nil
}

// CreateStaticBody adds an immovable body: it collides but never moves,
// and the solver sees zero inverse mass and inertia.
func (w *World) CreateStaticBody(transform body.Transform, s shape.Shape) (body.Handle, error) {
	if w.locked {
		return body.Handle{}, ErrWorldLocked
	}
	rb, err := body.New(transform, 1, scalar.Ident3(), s)
	if err != nil {
		return body.Handle{}, err
	}
	rb.MotionEnabled = false
	h := w.allocSlot(rb)
	w.broad.UpdateProxy(h.Index, collision.BoundsOf(rb))
	return h, nil
}

func (w *World) allocSlot(rb *body.RigidBody) body.Handle {
	if n := len(w.freeList); n > 0 {
		index := w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
		slot := &w.slots[index]
		slot.generation++
		slot.body = rb
		slot.active = true
		return body.Handle{Index: index, Generation: slot.generation}
	}
	w.slots = append(w.slots, bodySlot{body: rb, active: true})
	return body.Handle{Index: uint32(len(w.slots) - 1)}
}

// DestroyBody removes a body, its broad-phase proxy and every joint
// attached to it. The handle is invalid afterward.
func (w *World) DestroyBody(h body.Handle) error {
	if w.locked {
		return ErrWorldLocked
	}
	if _, err := w.resolve(h); err != nil {
		return err
	}
	slot := &w.slots[h.Index]
	slot.body = nil
	slot.active = false
	w.freeList = append(w.freeList, h.Index)
	// ending the pairs now, not on the next sweep, keeps a body created into
	// the recycled slot from inheriting the destroyed body's manifold and
	// its warm-start impulses
	w.broad.RemoveProxy(h.Index, w)

	for i := range w.jointSlots {
		js := &w.jointSlots[i]
		if !js.active {
			continue
		}
		a, b := js.joint.Bodies()
		if a == h || b == h {
			js.joint = nil
			js.active = false
			w.jointFree = append(w.jointFree, uint32(i))
		}
	}
	return nil
}

// CreateJoint registers a joint between two live bodies.
func (w *World) CreateJoint(j solver.Joint) (JointHandle, error) {
	if w.locked {
		return JointHandle{}, ErrWorldLocked
	}
	a, b := j.Bodies()
	if _, err := w.resolve(a); err != nil {
		return JointHandle{}, err
	}
	if _, err := w.resolve(b); err != nil {
		return JointHandle{}, err
	}
	if n := len(w.jointFree); n > 0 {
		index := w.jointFree[n-1]
		w.jointFree = w.jointFree[:n-1]
		slot := &w.jointSlots[index]
		slot.generation++
		slot.joint = j
		slot.active = true
		return JointHandle{Index: index, Generation: slot.generation}, nil
	}
	w.jointSlots = append(w.jointSlots, jointSlot{joint: j, active: true})
	return JointHandle{Index: uint32(len(w.jointSlots) - 1)}, nil
}

// DestroyJoint removes a joint. The handle is invalid afterward.
func (w *World) DestroyJoint(h JointHandle) error {
	if w.locked {
		return ErrWorldLocked
	}
	if int(h.Index) >= len(w.jointSlots) || w.jointSlots[h.Index].generation != h.Generation {
		return ErrInvalidHandle
	}
	slot := &w.jointSlots[h.Index]
	if !slot.active {
		return ErrDestroyedHandle
	}
	slot.joint = nil
	slot.active = false
	w.jointFree = append(w.jointFree, h.Index)
	return nil
}

func (w *World) resolve(h body.Handle) (*body.RigidBody, error) {
	if int(h.Index) >= len(w.slots) || w.slots[h.Index].generation != h.Generation {
		return nil, ErrInvalidHandle
	}
	if !w.slots[h.Index].active {
		return nil, ErrDestroyedHandle
	}
	return w.slots[h.Index].body, nil
}

// ApplyImpulse applies an instantaneous impulse at a world point, waking
// the body.
func (w *World) ApplyImpulse(h body.Handle, impulse, worldPoint scalar.Vec3) error {
	if w.locked {
		return ErrWorldLocked
	}
	rb, err := w.resolve(h)
	if err != nil {
		return err
	}
	rb.ApplyImpulse(impulse, worldPoint)
	return nil
}

// SetLinearVelocity overrides a body's linear velocity, waking it.
func (w *World) SetLinearVelocity(h body.Handle, v scalar.Vec3) error {
	if w.locked {
		return ErrWorldLocked
	}
	rb, err := w.resolve(h)
	if err != nil {
		return err
	}
	rb.Wake()
	rb.LinearVelocity = v
	return nil
}

// SetRestitution sets a body's bounciness, clamped to [0, 1].
func (w *World) SetRestitution(h body.Handle, r scalar.Real) error {
	if w.locked {
		return ErrWorldLocked
	}
	rb, err := w.resolve(h)
	if err != nil {
		return err
	}
	rb.Restitution = scalar.Clamp(r, 0, 1)
	return nil
}

// SetFriction sets a body's friction coefficient, floored at zero.
func (w *World) SetFriction(h body.Handle, f scalar.Real) error {
	if w.locked {
		return ErrWorldLocked
	}
	rb, err := w.resolve(h)
	if err != nil {
		return err
	}
	rb.Friction = scalar.Max(f, 0)
	return nil
}

// SetGravity replaces the gravity vector.
func (w *World) SetGravity(g scalar.Vec3) error {
	if w.locked {
		return ErrWorldLocked
	}
	if !finiteVec(g) {
		return ErrInvalidGravity
	}
	w.settings.Gravity = g
	return nil
}

// SetIterations replaces the solver iteration count.
func (w *World) SetIterations(n int) error {
	if w.locked {
		return ErrWorldLocked
	}
	if n <= 0 {
		return ErrInvalidIterations
	}
	w.settings.Iterations = n
	return nil
}

// SetSleepEnabled toggles the deactivation pass. Disabling wakes every
// sleeping body.
func (w *World) SetSleepEnabled(enabled bool) error {
	if w.locked {
		return ErrWorldLocked
	}
	w.settings.SleepEnabled = enabled
	if !enabled {
		for i := range w.slots {
			if w.slots[i].active {
				w.slots[i].body.Wake()
			}
		}
	}
	return nil
}

// SetGravityEnabled toggles gravity application without touching the
// gravity vector.
func (w *World) SetGravityEnabled(enabled bool) error {
	if w.locked {
		return ErrWorldLocked
	}
	w.settings.GravityEnabled = enabled
	return nil
}

// SetSplitImpulse toggles the split position-correction channel.
func (w *World) SetSplitImpulse(enabled bool) error {
	if w.locked {
		return ErrWorldLocked
	}
	w.settings.SplitImpulse = enabled
	return nil
}

// SetFrictionAtCenter switches between solving friction once per manifold
// center and once per contact point.
func (w *World) SetFrictionAtCenter(enabled bool) error {
	if w.locked {
		return ErrWorldLocked
	}
	w.settings.FrictionAtCenter = enabled
	return nil
}

// SetErrorCorrection toggles the Baumgarte penetration-recovery bias.
func (w *World) SetErrorCorrection(enabled bool) error {
	if w.locked {
		return ErrWorldLocked
	}
	w.settings.ErrorCorrection = enabled
	return nil
}

// Gravity returns the current gravity vector.
func (w *World) Gravity() scalar.Vec3 { return w.settings.Gravity }

// GravityEnabled reports whether gravity is applied each step.
func (w *World) GravityEnabled() bool { return w.settings.GravityEnabled }

// Timestep returns the fixed step size.
func (w *World) Timestep() scalar.Real { return w.settings.Timestep }

// Steps returns how many steps have completed.
func (w *World) Steps() uint64 { return w.steps }

// Time returns the accumulated simulated time.
func (w *World) Time() scalar.Real { return w.time }

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	n := 0
	for i := range w.slots {
		if w.slots[i].active {
			n++
		}
	}
	return n
}

// AwakeBodyCount returns the number of live bodies that are not sleeping.
func (w *World) AwakeBodyCount() int {
	n := 0
	for i := range w.slots {
		if w.slots[i].active && !w.slots[i].body.IsSleeping {
			n++
		}
	}
	return n
}

// ManifoldCount returns the number of pairs currently carrying at least one
// contact point.
func (w *World) ManifoldCount() int {
	n := 0
	for _, p := range w.pairs {
		if p.Manifold.Count > 0 {
			n++
		}
	}
	return n
}

// MaxPenetration returns the deepest penetration over all current contact
// points, or zero without contacts.
func (w *World) MaxPenetration() scalar.Real {
	var deepest scalar.Real
	for _, p := range w.pairs {
		m := p.Manifold
		for i := 0; i < m.Count; i++ {
			deepest = scalar.Max(deepest, m.Points[i].Penetration)
		}
	}
	return deepest
}

// Transform returns a snapshot of a body's placement.
func (w *World) Transform(h body.Handle) (body.Transform, error) {
	rb, err := w.resolve(h)
	if err != nil {
		return body.Transform{}, err
	}
	return rb.Transform, nil
}

// Velocity returns a snapshot of a body's linear and angular velocity.
func (w *World) Velocity(h body.Handle) (linear, angular scalar.Vec3, err error) {
	rb, err := w.resolve(h)
	if err != nil {
		return scalar.Vec3{}, scalar.Vec3{}, err
	}
	return rb.LinearVelocity, rb.AngularVelocity, nil
}

// Sleeping reports whether a body is asleep.
func (w *World) Sleeping(h body.Handle) (bool, error) {
	rb, err := w.resolve(h)
	if err != nil {
		return false, err
	}
	return rb.IsSleeping, nil
}

// ForEachBody calls fn with a copy of every live body in slot order.
func (w *World) ForEachBody(fn func(h body.Handle, rb body.RigidBody)) {
	for i := range w.slots {
		if w.slots[i].active {
			fn(body.Handle{Index: uint32(i), Generation: w.slots[i].generation}, *w.slots[i].body)
		}
	}
}

// OnPairAdded creates the persistent pair and wakes both bodies; a new
// overlap is an external disturbance for a sleeping body.
func (w *World) OnPairAdded(key collision.PairKey) {
	w.pairs[key] = collision.NewPair(key)
	w.slots[key.A].body.Wake()
	w.slots[key.B].body.Wake()
}

// OnPairRemoved drops the pair and its manifold, discarding the
// accumulated impulses with it.
func (w *World) OnPairRemoved(key collision.PairKey) {
	delete(w.pairs, key)
}

// Update advances the simulation by exactly one fixed timestep. It is a
// silent no-op while the world is Stopped and returns ErrWorldLocked when
// called reentrantly.
func (w *World) Update() error {
	if w.locked {
		return ErrWorldLocked
	}
	if !w.running {
		return nil
	}
	w.locked = true
	defer func() { w.locked = false }()

	dt := w.settings.Timestep

	w.collide()

	for i := range w.slots {
		if w.slots[i].active {
			w.slots[i].body.HasMoved = false
		}
	}

	if w.settings.GravityEnabled {
		g := w.settings.Gravity.Mul(dt)
		for i := range w.slots {
			rb := w.slots[i].body
			if w.slots[i].active && rb.MotionEnabled && !rb.IsSleeping {
				rb.LinearVelocity = rb.LinearVelocity.Add(g)
			}
		}
	}

	w.buildConstraintState()
	w.solve(dt)
	w.integrate(dt)

	if w.settings.SleepEnabled {
		for i := range w.slots {
			if w.slots[i].active {
				w.slots[i].body.AccumulateSleepTime(dt,
					w.settings.SleepLinearVelocity,
					w.settings.SleepAngularVelocity,
					w.settings.TimeBeforeSleep)
			}
		}
	}

	w.steps++
	w.time += dt
	for _, o := range w.observers {
		o.OnStep(w, w.steps, w.time)
	}
	return nil
}

// collide refreshes the broad phase and regenerates contacts for every
// overlapping pair in deterministic key order.
func (w *World) collide() {
	w.broad.ComputePairs(w)

	w.pairKeys = w.pairKeys[:0]
	for key := range w.pairs {
		w.pairKeys = append(w.pairKeys, key)
	}
	sort.Slice(w.pairKeys, func(i, j int) bool { return w.pairKeys[i].Less(w.pairKeys[j]) })

	for _, key := range w.pairKeys {
		pair := w.pairs[key]
		a := w.slots[key.A].body
		b := w.slots[key.B].body
		if !simActive(a) && !simActive(b) {
			continue
		}

		// neither body displaced since the last narrow phase: the cached
		// points still describe the contact, skip the refresh and the query
		if !a.HasMoved && !b.HasMoved {
			continue
		}

		m := pair.Manifold
		m.Refresh(a.Transform, b.Transform)
		if contact, ok := collision.TestOverlap(a, b); ok {
			m.Add(collision.MakeContactPoint(contact, a.Transform, b.Transform))
		}
	}
}

// buildConstraintState assigns a dense index to every body touched by a
// contact or joint and snapshots its state for the solvers.
func (w *World) buildConstraintState() {
	if cap(w.denseIndex) < len(w.slots) {
		w.denseIndex = make([]int, len(w.slots))
	}
	w.denseIndex = w.denseIndex[:len(w.slots)]
	for i := range w.denseIndex {
		w.denseIndex[i] = -1
	}
	w.touched = w.touched[:0]
	w.contactEntries = w.contactEntries[:0]
	w.jointEntries = w.jointEntries[:0]

	for _, key := range w.pairKeys {
		pair := w.pairs[key]
		if pair.Manifold.Count == 0 {
			continue
		}
		a := w.slots[key.A].body
		b := w.slots[key.B].body
		if !simActive(a) && !simActive(b) {
			continue
		}
		// one side moving keeps the whole contact awake
		if a.IsSleeping {
			a.Wake()
		}
		if b.IsSleeping {
			b.Wake()
		}
		w.contactEntries = append(w.contactEntries, solver.Entry{
			Manifold: pair.Manifold,
			IndexA:   w.denseFor(key.A),
			IndexB:   w.denseFor(key.B),
		})
	}

	for i := range w.jointSlots {
		if !w.jointSlots[i].active {
			continue
		}
		j := w.jointSlots[i].joint
		ha, hb := j.Bodies()
		a, errA := w.resolve(ha)
		b, errB := w.resolve(hb)
		if errA != nil || errB != nil {
			continue
		}
		if !simActive(a) && !simActive(b) {
			continue
		}
		if a.IsSleeping {
			a.Wake()
		}
		if b.IsSleeping {
			b.Wake()
		}
		w.jointEntries = append(w.jointEntries, solver.JointEntry{
			Joint:  j,
			IndexA: w.denseFor(ha.Index),
			IndexB: w.denseFor(hb.Index),
		})
	}

	w.vel.Reset(len(w.touched))
	if cap(w.infos) < len(w.touched) {
		w.infos = make([]solver.BodyInfo, len(w.touched))
	}
	w.infos = w.infos[:len(w.touched)]
	for dense, slotIndex := range w.touched {
		rb := w.slots[slotIndex].body
		w.vel.Linear[dense] = rb.LinearVelocity
		w.vel.Angular[dense] = rb.AngularVelocity
		w.infos[dense] = solver.BodyInfo{
			Transform:   rb.Transform,
			InvMass:     rb.EffectiveInverseMass(),
			InvInertia:  rb.WorldInverseInertia(),
			Restitution: rb.Restitution,
			Friction:    rb.Friction,
		}
	}
}

// simActive reports whether a body takes part in solving this step:
// immovable and sleeping bodies are passive until something wakes them.
func simActive(rb *body.RigidBody) bool {
	return rb.MotionEnabled && !rb.IsSleeping
}

func (w *World) denseFor(slotIndex uint32) int {
	if w.denseIndex[slotIndex] >= 0 {
		return w.denseIndex[slotIndex]
	}
	dense := len(w.touched)
	w.denseIndex[slotIndex] = dense
	w.touched = append(w.touched, slotIndex)
	return dense
}

func (w *World) solve(dt scalar.Real) {
	if len(w.touched) == 0 {
		return
	}
	cfg := solver.Config{
		Iterations:       w.settings.Iterations,
		SplitImpulse:     w.settings.SplitImpulse,
		FrictionAtCenter: w.settings.FrictionAtCenter,
		ErrorCorrection:  w.settings.ErrorCorrection,
		Timestep:         dt,
	}
	w.contactSolver.Build(w.contactEntries, w.infos, &w.vel, cfg)
	w.constraintSolver.Build(w.jointEntries, w.infos, cfg)
	w.contactSolver.WarmStart(w.infos, &w.vel, cfg)
	w.constraintSolver.WarmStart(w.infos, &w.vel)
	w.contactSolver.Iterate(w.infos, &w.vel, cfg)
	w.constraintSolver.Iterate(w.infos, &w.vel, cfg)
	w.contactSolver.Store()
}

// integrate copies the constrained velocities back and advances every
// awake body; the split channel moves positions without touching the
// externally visible velocities.
func (w *World) integrate(dt scalar.Real) {
	for dense, slotIndex := range w.touched {
		rb := w.slots[slotIndex].body
		if !rb.MotionEnabled || rb.IsSleeping {
			continue
		}
		rb.LinearVelocity = w.vel.Linear[dense]
		rb.AngularVelocity = w.vel.Angular[dense]
	}

	for i := range w.slots {
		if !w.slots[i].active {
			continue
		}
		rb := w.slots[i].body
		if rb.IntegrateTransform(dt, motionEpsilon) {
			w.broad.UpdateProxy(uint32(i), collision.BoundsOf(rb))
		}
	}

	if !w.settings.SplitImpulse {
		return
	}
	for dense, slotIndex := range w.touched {
		rb := w.slots[slotIndex].body
		if !rb.MotionEnabled || rb.IsSleeping {
			continue
		}
		lin := w.vel.SplitLinear[dense]
		ang := w.vel.SplitAngular[dense]
		if lin == (scalar.Vec3{}) && ang == (scalar.Vec3{}) {
			continue
		}
		rb.Transform.Position = rb.Transform.Position.Add(lin.Mul(dt))
		omega := scalar.Quat{W: 0, V: ang}
		qDot := omega.Mul(rb.Transform.Orientation).Scale(0.5)
		rb.Transform.Orientation = rb.Transform.Orientation.Add(qDot.Scale(dt)).Normalize()
		rb.HasMoved = true
		w.broad.UpdateProxy(slotIndex, collision.BoundsOf(rb))
	}
}
