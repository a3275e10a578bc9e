package deathmatch

// Impactor is the damage a bullet deals when it hits a tank.
type Impactor struct {
	damage float64
}

func (o Impactor) GetDamage() float64 {
	return o.damage
}
