package deathmatch

import (
	"fmt"

	"github.com/ByteArena/box2d"
	commontypes "github.com/codetanks/codetanks/common/types"
	"github.com/codetanks/codetanks/common/types/mapcontainer"
	"github.com/pkg/errors"
)

type Wall struct {
	ID   EntityID
	Name string

	physicalBody *PhysicalBody
}

func (wall *Wall) GetPhysicalBody() *PhysicalBody {
	return wall.physicalBody
}

func (deathmatch *DeathmatchGame) NewEntityWall(polygon mapcontainer.MapPolygon, name string) (wall *Wall, err error) {
	rules := deathmatch.rules

	if len(polygon.Points) < 3 {
		return nil, errors.Errorf("wall %s needs at least 3 vertices, got %d", name, len(polygon.Points))
	}

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_staticBody

	body := deathmatch.PhysicalWorld.CreateBody(&bodydef)
	vertices := make([]box2d.B2Vec2, len(polygon.Points))

	for i := 0; i < len(polygon.Points); i++ {
		vertices[i].Set(rules.toMeters(polygon.Points[i].X), rules.toMeters(polygon.Points[i].Y))
	}

	defer func() {
		if r := recover(); r != nil {
			deathmatch.PhysicalWorld.DestroyBody(body)
			wall = nil
			err = errors.New(fmt.Sprintf("wall %s is not valid; perhaps some vertices are duplicated? (%v)", name, r))
		}
	}()

	shape := box2d.MakeB2ChainShape()
	shape.CreateLoop(vertices, len(vertices))
	body.CreateFixture(&shape, 0.0)

	id := deathmatch.world.allocateID()
	body.SetUserData(commontypes.MakePhysicalBodyDescriptor(
		commontypes.PhysicalBodyDescriptorType.Wall,
		uint64(id),
	))

	wall = &Wall{
		ID:   id,
		Name: name,
		physicalBody: &PhysicalBody{
			body:           body,
			pixelsPerMeter: rules.PixelsPerMeter,
			static:         true,
		},
	}

	deathmatch.world.InsertWall(wall)

	return wall, nil
}
