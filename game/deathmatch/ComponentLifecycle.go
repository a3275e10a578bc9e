package deathmatch

type Lifecycle struct {
	tickBirth uint32
	tickDeath uint32
	maxAge    int // 0: immortal
	dead      bool
}

func NewLifecycle(birth uint32, maxAge int) *Lifecycle {
	return &Lifecycle{
		tickBirth: birth,
		maxAge:    maxAge,
	}
}

func (lc Lifecycle) GetBirth() uint32 {
	return lc.tickBirth
}

func (lc Lifecycle) GetDeath() uint32 {
	return lc.tickDeath
}

func (lc Lifecycle) IsDead() bool {
	return lc.dead
}

// SetDeath flags the entity Destroyed; the first death tick wins.
func (lc *Lifecycle) SetDeath(tick uint32) *Lifecycle {
	if !lc.dead {
		lc.dead = true
		lc.tickDeath = tick
	}

	return lc
}

func (lc Lifecycle) IsExpired(tick uint32) bool {
	return lc.maxAge > 0 && int(tick-lc.tickBirth) >= lc.maxAge
}
