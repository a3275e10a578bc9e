package types

import (
	"os"

	"github.com/codetanks/codetanks/common/types/mapcontainer"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"gopkg.in/yaml.v3"
)

type GameDescriptionInterface interface {
	GetId() string
	GetName() string
	GetTps() int
	GetMaxTicks() int
	GetContestants() []Contestant
	GetMapContainer() *mapcontainer.MapContainer
}

// Contestant is one provisioned tank: the agent lives in Container, reachable at Endpoint when given.
type Contestant struct {
	Name      string `yaml:"name" json:"name"`
	Container string `yaml:"container" json:"container"`
	Endpoint  string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
}

// GameDescription is the match description handed over by the provisioning side.
type GameDescription struct {
	Id          string                    `yaml:"id"`
	Name        string                    `yaml:"name"`
	Tps         int                       `yaml:"tps"`
	MaxTicks    int                       `yaml:"max_ticks"`
	Contestants []Contestant              `yaml:"tanks"`
	Arena       mapcontainer.MapContainer `yaml:"arena"`
}

func ParseGameDescription(data []byte) (*GameDescription, error) {
	var desc GameDescription

	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(err, "could not parse match description")
	}

	if desc.Id == "" {
		desc.Id = uuid.NewV4().String()
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}

	return &desc, nil
}

func LoadGameDescription(path string) (*GameDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read match description "+path)
	}

	return ParseGameDescription(data)
}

func (d *GameDescription) Validate() error {
	if len(d.Contestants) == 0 {
		return errors.New("match description lists no tank")
	}

	if d.Tps < 0 || d.MaxTicks < 0 {
		return errors.New("tps and max_ticks cannot be negative")
	}

	if d.Arena.Width < 0 || d.Arena.Height < 0 {
		return errors.New("arena size cannot be negative")
	}

	seen := make(map[string]bool, len(d.Contestants))
	for i, contestant := range d.Contestants {
		if contestant.Name == "" {
			return errors.Errorf("tank #%d has no name", i)
		}

		if seen[contestant.Name] {
			return errors.Errorf("tank name %q is used twice", contestant.Name)
		}
		seen[contestant.Name] = true

		if contestant.Container == "" && contestant.Endpoint == "" {
			return errors.Errorf("tank %q has neither container nor endpoint", contestant.Name)
		}
	}

	if len(d.Arena.Starts) > 0 && len(d.Arena.Starts) < len(d.Contestants) {
		return errors.Errorf("%d spawn points for %d tanks", len(d.Arena.Starts), len(d.Contestants))
	}

	return nil
}

func (d *GameDescription) GetId() string {
	return d.Id
}

func (d *GameDescription) GetName() string {
	return d.Name
}

func (d *GameDescription) GetTps() int {
	return d.Tps
}

func (d *GameDescription) GetMaxTicks() int {
	return d.MaxTicks
}

func (d *GameDescription) GetContestants() []Contestant {
	return d.Contestants
}

func (d *GameDescription) GetMapContainer() *mapcontainer.MapContainer {
	return &d.Arena
}
