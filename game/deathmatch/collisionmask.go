package deathmatch

import (
	commontypes "github.com/codetanks/codetanks/common/types"
)

type CollisionMask uint16

func (m CollisionMask) Has(other CollisionMask) bool {
	return m&other != 0
}

var CollisionGroup = struct {
	None   CollisionMask
	Tank   CollisionMask
	Radar  CollisionMask
	Bullet CollisionMask
	Wall   CollisionMask
}{
	None:   0,
	Tank:   1 << 0,
	Radar:  1 << 1,
	Bullet: 1 << 2,
	Wall:   1 << 3,
}

func BuildMask(masks ...CollisionMask) CollisionMask {
	var res CollisionMask
	for _, m := range masks {
		res |= m
	}

	return res
}

// Collidable is the membership of a body and the groups it accepts contacts with.
type Collidable struct {
	Member CollisionMask
	Filter CollisionMask
	Sensor bool
}

var (
	tankCollidable = Collidable{
		Member: CollisionGroup.Tank,
		Filter: BuildMask(CollisionGroup.Tank, CollisionGroup.Bullet, CollisionGroup.Wall, CollisionGroup.Radar),
	}

	radarCollidable = Collidable{
		Member: CollisionGroup.Radar,
		Filter: BuildMask(CollisionGroup.Tank, CollisionGroup.Bullet, CollisionGroup.Wall),
		Sensor: true,
	}

	bulletCollidable = Collidable{
		Member: CollisionGroup.Bullet,
		Filter: BuildMask(CollisionGroup.Tank, CollisionGroup.Wall),
	}

	wallCollidable = Collidable{
		Member: CollisionGroup.Wall,
		Filter: BuildMask(CollisionGroup.Tank, CollisionGroup.Bullet, CollisionGroup.Radar),
	}

	// guns never carry a body, their group is NONE
	gunCollidable = Collidable{
		Member: CollisionGroup.None,
		Filter: CollisionGroup.None,
	}
)

func collidableOf(descriptor commontypes.PhysicalBodyDescriptor) (Collidable, bool) {
	switch descriptor.Type {
	case commontypes.PhysicalBodyDescriptorType.Tank:
		return tankCollidable, true
	case commontypes.PhysicalBodyDescriptorType.Radar:
		return radarCollidable, true
	case commontypes.PhysicalBodyDescriptorType.Bullet:
		return bulletCollidable, true
	case commontypes.PhysicalBodyDescriptorType.Wall:
		return wallCollidable, true
	}

	return gunCollidable, false
}

// Accepts tells whether a and b may generate a contact. A sensor decides on
// its own filter; two solid bodies must accept each other.
func (a Collidable) Accepts(b Collidable) bool {
	if a.Member == CollisionGroup.None || b.Member == CollisionGroup.None {
		return false
	}

	switch {
	case a.Sensor && b.Sensor:
		return false
	case a.Sensor:
		return a.Filter.Has(b.Member)
	case b.Sensor:
		return b.Filter.Has(a.Member)
	}

	return a.Filter.Has(b.Member) && b.Filter.Has(a.Member)
}
