package deathmatch

type Shooting struct {
	ShootCooldown int // Const; number of ticks to wait after a shot
	cooldown      int // Ticks left before the next shot is allowed
}

func NewShooting(cooldown int) *Shooting {
	return &Shooting{
		ShootCooldown: cooldown,
		cooldown:      0,
	}
}

func (shooting Shooting) GetCooldown() int {
	return shooting.cooldown
}

func (shooting Shooting) CanShoot() bool {
	return shooting.cooldown == 0
}

func (shooting *Shooting) Shot() {
	shooting.cooldown = shooting.ShootCooldown
}

func (shooting *Shooting) Cool() {
	if shooting.cooldown > 0 {
		shooting.cooldown--
	}
}
