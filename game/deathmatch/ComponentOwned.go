package deathmatch

type Owned struct {
	owner EntityID
}

func (o Owned) GetOwner() EntityID {
	return o.owner
}
