package deathmatch

import (
	"sort"

	"github.com/pkg/errors"
)

type EntityID uint64

// table keeps entities addressable by ID and iterable in ID order.
type table[E any] struct {
	byID  map[EntityID]E
	order []EntityID
}

func newTable[E any]() table[E] {
	return table[E]{byID: make(map[EntityID]E)}
}

func (t *table[E]) insert(id EntityID, e E) {
	t.byID[id] = e

	// IDs are allocated in increasing order, appending keeps order sorted
	if n := len(t.order); n > 0 && t.order[n-1] > id {
		t.order = append(t.order, id)
		sort.Slice(t.order, func(i, j int) bool { return t.order[i] < t.order[j] })
		return
	}

	t.order = append(t.order, id)
}

func (t *table[E]) get(id EntityID) (E, bool) {
	e, ok := t.byID[id]
	return e, ok
}

func (t *table[E]) remove(id EntityID) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}

	delete(t.byID, id)

	i := sort.Search(len(t.order), func(i int) bool { return t.order[i] >= id })
	t.order = append(t.order[:i], t.order[i+1:]...)

	return true
}

func (t *table[E]) values() []E {
	res := make([]E, 0, len(t.order))
	for _, id := range t.order {
		res = append(res, t.byID[id])
	}

	return res
}

func (t *table[E]) len() int {
	return len(t.order)
}

// World owns every entity of a match. Tanks are removed at the tick boundary
// and kept as fallen so their final stats remain available.
type World struct {
	nextID  EntityID
	tanks   table[*Tank]
	fallen  table[*Tank]
	bullets table[*Bullet]
	walls   table[*Wall]
}

func NewWorld() *World {
	return &World{
		tanks:   newTable[*Tank](),
		fallen:  newTable[*Tank](),
		bullets: newTable[*Bullet](),
		walls:   newTable[*Wall](),
	}
}

func (w *World) allocateID() EntityID {
	w.nextID++
	return w.nextID
}

func notFound(kind string, id EntityID) error {
	return errors.Wrapf(ErrEntityNotFound, "%s #%d", kind, id)
}

func (w *World) InsertTank(tank *Tank) {
	w.tanks.insert(tank.ID, tank)
}

// Tank returns a live tank.
func (w *World) Tank(id EntityID) (*Tank, error) {
	if tank, ok := w.tanks.get(id); ok {
		return tank, nil
	}

	return nil, notFound("tank", id)
}

// TankRecord returns a tank, live or fallen.
func (w *World) TankRecord(id EntityID) (*Tank, error) {
	if tank, ok := w.tanks.get(id); ok {
		return tank, nil
	}

	if tank, ok := w.fallen.get(id); ok {
		return tank, nil
	}

	return nil, notFound("tank", id)
}

// RemoveTank moves the tank to the fallen table. Its gun, radar and pending
// command go with it; bullets it already fired stay in the world.
func (w *World) RemoveTank(id EntityID) (*Tank, error) {
	tank, ok := w.tanks.get(id)
	if !ok {
		return nil, notFound("tank", id)
	}

	w.tanks.remove(id)
	tank.Commands.Clear()
	w.fallen.insert(id, tank)

	return tank, nil
}

func (w *World) Tanks() []*Tank {
	return w.tanks.values()
}

func (w *World) FallenTanks() []*Tank {
	return w.fallen.values()
}

func (w *World) AliveCount() int {
	return w.tanks.len()
}

func (w *World) InsertBullet(bullet *Bullet) {
	w.bullets.insert(bullet.ID, bullet)
}

func (w *World) Bullet(id EntityID) (*Bullet, error) {
	if bullet, ok := w.bullets.get(id); ok {
		return bullet, nil
	}

	return nil, notFound("bullet", id)
}

func (w *World) RemoveBullet(id EntityID) (*Bullet, error) {
	bullet, ok := w.bullets.get(id)
	if !ok {
		return nil, notFound("bullet", id)
	}

	w.bullets.remove(id)
	return bullet, nil
}

func (w *World) Bullets() []*Bullet {
	return w.bullets.values()
}

func (w *World) InsertWall(wall *Wall) {
	w.walls.insert(wall.ID, wall)
}

func (w *World) Wall(id EntityID) (*Wall, error) {
	if wall, ok := w.walls.get(id); ok {
		return wall, nil
	}

	return nil, notFound("wall", id)
}

func (w *World) Walls() []*Wall {
	return w.walls.values()
}
