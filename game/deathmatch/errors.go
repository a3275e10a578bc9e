package deathmatch

import "github.com/pkg/errors"

var (
	// ErrEntityNotFound means the store was asked for an entity it does not hold; the match cannot go on.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrPhysicsDegenerate means a body left the realm of finite numbers.
	ErrPhysicsDegenerate = errors.New("physics produced a non-finite state")

	ErrMatchFinished = errors.New("match is already finished")
)
