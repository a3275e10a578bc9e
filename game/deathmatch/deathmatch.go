package deathmatch

import (
	"context"
	"sort"

	"github.com/ByteArena/box2d"
	"github.com/codetanks/codetanks/arenaserver/agent"
	"github.com/codetanks/codetanks/common/types/mapcontainer"
	"github.com/codetanks/codetanks/common/utils/vector"
	"github.com/codetanks/codetanks/game"
	"github.com/pkg/errors"
)

const (
	velocityIterations = 8
	positionIterations = 3
)

type DeathmatchGame struct {
	matchID string
	ticknum uint32
	rules   Rules
	arena   mapcontainer.MapContainer

	world *World
	log   *DeathmatchGameLog

	PhysicalWorld     *box2d.B2World
	collisionListener *collisionListener

	finished bool
}

// NewDeathmatchGame lays out the arena and spawns one tank per agent, in order.
// An arena without size takes the one of the rules.
func NewDeathmatchGame(matchID string, arena mapcontainer.MapContainer, rules Rules, agents []agent.AgentProxy) (*DeathmatchGame, error) {
	if arena.Width <= 0 {
		arena.Width = rules.ArenaWidth
	}

	if arena.Height <= 0 {
		arena.Height = rules.ArenaHeight
	}

	rules.ArenaWidth = arena.Width
	rules.ArenaHeight = arena.Height

	if err := rules.Validate(); err != nil {
		return nil, err
	}

	if len(agents) == 0 {
		return nil, errors.New("a match needs at least one tank")
	}

	spawns, err := spawnPoints(arena, rules, len(agents))
	if err != nil {
		return nil, err
	}

	gravity := box2d.MakeB2Vec2(0.0, 0.0) // gravity 0: the simulation is seen from the top
	world := box2d.MakeB2World(gravity)

	deathmatch := &DeathmatchGame{
		matchID: matchID,
		rules:   rules,
		arena:   arena,

		world: NewWorld(),
		log:   NewDeathmatchGameLog(),

		PhysicalWorld:     &world,
		collisionListener: newCollisionListener(rules.PixelsPerMeter),
	}

	deathmatch.PhysicalWorld.SetContactListener(deathmatch.collisionListener)
	deathmatch.PhysicalWorld.SetContactFilter(newCollisionFilter(deathmatch))

	if err := initPhysicalWorld(deathmatch); err != nil {
		return nil, err
	}

	for i, ag := range agents {
		deathmatch.NewEntityTank(ag, spawns[i], 0)
	}

	return deathmatch, nil
}

func initPhysicalWorld(deathmatch *DeathmatchGame) error {
	if _, err := deathmatch.NewEntityWall(deathmatch.arena.Boundary(), "boundary"); err != nil {
		return err
	}

	for _, obstacle := range deathmatch.arena.Obstacles {
		if _, err := deathmatch.NewEntityWall(obstacle.Polygon, obstacle.Id); err != nil {
			return err
		}
	}

	return nil
}

// spawnPoints uses the arena starts when there are some; otherwise tanks are
// lined up on the x axis, SpawnSpacing apart and centered on the origin.
func spawnPoints(arena mapcontainer.MapContainer, rules Rules, n int) ([]vector.Vector2, error) {
	points := make([]vector.Vector2, n)

	if len(arena.Starts) > 0 {
		if len(arena.Starts) < n {
			return nil, errors.Errorf("%d spawn points for %d tanks", len(arena.Starts), n)
		}

		for i := 0; i < n; i++ {
			points[i] = arena.Starts[i].Point.ToVector2()
		}
	} else {
		for i := 0; i < n; i++ {
			offset := float64(i) - float64(n-1)/2
			points[i] = vector.MakeVector2(rules.SpawnSpacing*offset, 0)
		}
	}

	for i, point := range points {
		if !arena.Contains(mapcontainer.MapPoint{X: point.GetX(), Y: point.GetY()}, rules.TankRadius) {
			return nil, errors.Errorf("spawn point %s of tank #%d is outside the arena", point, i)
		}

		for j := 0; j < i; j++ {
			if point.Sub(points[j]).Mag() < 2*rules.TankRadius {
				return nil, errors.Errorf("tanks #%d and #%d would spawn overlapping", j, i)
			}
		}
	}

	return points, nil
}

func (deathmatch *DeathmatchGame) GetWorld() *World {
	return deathmatch.world
}

func (deathmatch *DeathmatchGame) GetRules() Rules {
	return deathmatch.rules
}

func (deathmatch *DeathmatchGame) GetTick() uint32 {
	return deathmatch.ticknum
}

func (deathmatch *DeathmatchGame) GetLog() *DeathmatchGameLog {
	return deathmatch.log
}

func (deathmatch *DeathmatchGame) IsFinished() bool {
	return deathmatch.finished
}

// <GameInterface>

// Step runs one tick. Stages run in a fixed order and each one completes
// before the next starts; only acquisition waits on the network.
// A returned error is an invariant violation: the match must be aborted.
func (deathmatch *DeathmatchGame) Step(ctx context.Context, tc game.TickContext) (game.TickReport, error) {
	report := game.TickReport{Tick: tc.Tick}

	if deathmatch.finished {
		return report, ErrMatchFinished
	}

	deathmatch.ticknum = tc.Tick
	deathmatch.log.Reset()

	///////////////////////////////////////////////////////////////////////////
	// Agents are asked for their intents
	///////////////////////////////////////////////////////////////////////////
	systemAcquisition(ctx, deathmatch, tc, &report)

	///////////////////////////////////////////////////////////////////////////
	// Intents are turned into impulses, rotations and bullets
	///////////////////////////////////////////////////////////////////////////
	systemCommands(deathmatch)

	///////////////////////////////////////////////////////////////////////////
	// Box2D moves everything and reports contacts
	///////////////////////////////////////////////////////////////////////////
	contacts, err := systemPhysics(deathmatch)
	if err != nil {
		return report, errors.Wrapf(err, "tick %d", tc.Tick)
	}

	///////////////////////////////////////////////////////////////////////////
	// Contacts become events in the sinks of the tanks they concern
	///////////////////////////////////////////////////////////////////////////
	if err := systemCollisions(deathmatch, contacts); err != nil {
		return report, errors.Wrapf(err, "tick %d", tc.Tick)
	}

	///////////////////////////////////////////////////////////////////////////
	// Hits cost health and credit the shooter
	///////////////////////////////////////////////////////////////////////////
	if err := systemHealth(deathmatch, &report); err != nil {
		return report, errors.Wrapf(err, "tick %d", tc.Tick)
	}

	///////////////////////////////////////////////////////////////////////////
	// Bullets flying for too long are spent
	///////////////////////////////////////////////////////////////////////////
	systemLifecycle(deathmatch)

	///////////////////////////////////////////////////////////////////////////
	// Entities flagged during the tick are purged at its boundary
	///////////////////////////////////////////////////////////////////////////
	if err := systemDeath(deathmatch, &report); err != nil {
		return report, errors.Wrapf(err, "tick %d", tc.Tick)
	}

	///////////////////////////////////////////////////////////////////////////
	// Is the match over?
	///////////////////////////////////////////////////////////////////////////
	systemOutcome(deathmatch, &report)

	report.Shots = deathmatch.log.Count(EVENT_SHOT_FIRED)
	report.Hits = deathmatch.log.Count(EVENT_TANK_HIT)

	return report, nil
}

// Result summarizes the match; only a completed match can have a winner.
func (deathmatch *DeathmatchGame) Result(status game.ResultStatus, cause error) game.Result {
	result := game.Result{
		Match:  deathmatch.matchID,
		Status: status,
		Ticks:  deathmatch.ticknum,
		Tanks:  make([]game.TankResult, 0),
	}

	if cause != nil {
		result.Error = cause.Error()
	}

	records := append(deathmatch.world.Tanks(), deathmatch.world.FallenTanks()...)
	sortTanks(records)

	for _, tank := range records {
		tankResult := game.TankResult{
			ID:            uint64(tank.ID),
			Name:          tank.Agent.GetName(),
			Container:     tank.Agent.GetContainer(),
			Health:        tank.Health.GetLife(),
			DamageDealt:   tank.DamageDealt,
			Alive:         tank.IsAlive(),
			AgentFailures: tank.AgentFailures,
		}

		if !tank.IsAlive() {
			tankResult.DestroyedAtTick = tank.Lifecycle.GetDeath()
		}

		result.Tanks = append(result.Tanks, tankResult)
	}

	if status == game.ResultStatusCompleted && deathmatch.world.AliveCount() == 1 {
		winner := uint64(deathmatch.world.Tanks()[0].ID)
		result.Winner = &winner
	}

	return result
}

// </GameInterface>

func (deathmatch *DeathmatchGame) destroyBody(body *PhysicalBody) {
	if body == nil || body.GetBody() == nil {
		return
	}

	deathmatch.PhysicalWorld.DestroyBody(body.GetBody())
	body.body = nil
}

func (deathmatch *DeathmatchGame) tickSeconds() float64 {
	return deathmatch.rules.TickDuration.Seconds()
}

func sortTanks(tanks []*Tank) {
	sort.Slice(tanks, func(i, j int) bool { return tanks[i].ID < tanks[j].ID })
}
