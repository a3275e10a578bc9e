package types

// PhysicalBodyDescriptor is set as UserData on Box2D Physical bodies to be able to determine collider and collidee from Box2D contact callbacks
type PhysicalBodyDescriptor struct {
	Type _physicaltype
	ID   uint64
}

type _physicaltype string

func (t _physicaltype) String() string {
	switch t {
	case PhysicalBodyDescriptorType.Tank:
		return "Tank"
	case PhysicalBodyDescriptorType.Radar:
		return "Radar"
	case PhysicalBodyDescriptorType.Bullet:
		return "Bullet"
	case PhysicalBodyDescriptorType.Wall:
		return "Wall"
	}

	return "UnkownType"
}

var PhysicalBodyDescriptorType = struct {
	Tank   _physicaltype
	Radar  _physicaltype
	Bullet _physicaltype
	Wall   _physicaltype
}{
	Tank:   _physicaltype("t"),
	Radar:  _physicaltype("r"),
	Bullet: _physicaltype("b"),
	Wall:   _physicaltype("w"),
}

func MakePhysicalBodyDescriptor(type_ _physicaltype, id uint64) PhysicalBodyDescriptor {
	return PhysicalBodyDescriptor{
		Type: type_,
		ID:   id,
	}
}

// IsPair reports whether a and b are one typeA and one typeB body, in any order.
func IsPair(a, b PhysicalBodyDescriptor, typeA, typeB _physicaltype) bool {
	return (a.Type == typeA && b.Type == typeB) || (a.Type == typeB && b.Type == typeA)
}
