package protocol

import (
	"bytes"
	_ "embed"
	"encoding/json"

	"github.com/codetanks/codetanks/common/utils/number"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Intent is what an agent wants its tank to do during one tick.
// Rotations are in radians, move is a throttle in [-1, 1].
type Intent struct {
	Move      float64 `json:"move"`
	Rotate    float64 `json:"rotate,omitempty"`
	TurnGun   float64 `json:"turn_gun"`
	TurnRadar float64 `json:"turn_radar"`
	Fire      bool    `json:"fire"`
	LockGun   *bool   `json:"lock_gun,omitempty"`
	LockRadar *bool   `json:"lock_radar,omitempty"`
}

//go:embed intent.schema.json
var intentSchemaSource string

var intentSchema = jsonschema.MustCompileString("intent.schema.json", intentSchemaSource)

var ErrInvalidIntent = errors.New("invalid intent")

// DecodeIntent validates raw against the intent schema before decoding it.
func DecodeIntent(raw []byte) (Intent, error) {
	var intent Intent

	var doc interface{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return intent, errors.Wrap(ErrInvalidIntent, err.Error())
	}

	if err := intentSchema.Validate(doc); err != nil {
		return intent, errors.Wrap(ErrInvalidIntent, err.Error())
	}

	if err := json.Unmarshal(raw, &intent); err != nil {
		return intent, errors.Wrap(ErrInvalidIntent, err.Error())
	}

	return intent, nil
}

// Validate rejects intents carrying NaN or infinite values.
func (intent Intent) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"move", intent.Move},
		{"rotate", intent.Rotate},
		{"turn_gun", intent.TurnGun},
		{"turn_radar", intent.TurnRadar},
	}

	for _, field := range fields {
		if !number.IsFinite(field.value) {
			return errors.Wrapf(ErrInvalidIntent, "%s is not a finite number", field.name)
		}
	}

	return nil
}

func Bool(b bool) *bool {
	return &b
}
