package mapcontainer

import (
	"encoding/json"
	"fmt"

	"github.com/codetanks/codetanks/common/utils/number"
	"github.com/codetanks/codetanks/common/utils/vector"
	"gopkg.in/yaml.v3"
)

// MapContainer describes the arena geometry in pixels, origin at the arena center.
type MapContainer struct {
	Width     float64       `yaml:"width" json:"width"`
	Height    float64       `yaml:"height" json:"height"`
	Starts    []MapStart    `yaml:"starts" json:"starts"`
	Obstacles []MapObstacle `yaml:"obstacles" json:"obstacles"`
}

type MapPoint struct {
	X float64
	Y float64
}

func (p MapPoint) ToVector2() vector.Vector2 {
	return vector.MakeVector2(p.X, p.Y)
}

func (p MapPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{
		number.ToFixed(p.X, 5),
		number.ToFixed(p.Y, 5),
	})
}

func (a *MapPoint) UnmarshalJSON(b []byte) error {
	var floats []float64
	if err := json.Unmarshal(b, &floats); err != nil {
		return err
	}

	return a.set(floats)
}

func (a *MapPoint) UnmarshalYAML(value *yaml.Node) error {
	var floats []float64
	if err := value.Decode(&floats); err != nil {
		return err
	}

	return a.set(floats)
}

func (a *MapPoint) set(floats []float64) error {
	if len(floats) != 2 {
		return fmt.Errorf("a point has exactly 2 coordinates, got %d", len(floats))
	}

	a.X = floats[0]
	a.Y = floats[1]

	return nil
}

type MapPolygon struct {
	Points []MapPoint
}

func (p MapPolygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Points)
}

func (a *MapPolygon) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &a.Points)
}

func (a *MapPolygon) UnmarshalYAML(value *yaml.Node) error {
	return value.Decode(&a.Points)
}

type MapStart struct {
	Id    string   `yaml:"id" json:"id"`
	Point MapPoint `yaml:"point" json:"point"`
}

type MapObstacle struct {
	Id      string     `yaml:"id" json:"id"`
	Polygon MapPolygon `yaml:"polygon" json:"polygon"`
}

// Contains reports whether p lies strictly inside the arena bounds, at least margin away from them.
func (m MapContainer) Contains(p MapPoint, margin float64) bool {
	halfW := m.Width/2 - margin
	halfH := m.Height/2 - margin

	return p.X > -halfW && p.X < halfW && p.Y > -halfH && p.Y < halfH
}

// Boundary returns the arena outline as a counter-clockwise loop.
func (m MapContainer) Boundary() MapPolygon {
	halfW := m.Width / 2
	halfH := m.Height / 2

	return MapPolygon{Points: []MapPoint{
		{X: -halfW, Y: -halfH},
		{X: halfW, Y: -halfH},
		{X: halfW, Y: halfH},
		{X: -halfW, Y: halfH},
	}}
}
