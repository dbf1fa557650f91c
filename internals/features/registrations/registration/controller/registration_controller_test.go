// file: internals/features/registrations/registration/controller/registration_controller_test.go
package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capp(v int) *int { return &v }

func TestCapacityReached(t *testing.T) {
	// nil capacity = unlimited
	assert.False(t, capacityReached(nil, 1_000_000))

	assert.False(t, capacityReached(capp(10), 9))
	assert.True(t, capacityReached(capp(10), 10))
	assert.True(t, capacityReached(capp(10), 11))
	assert.True(t, capacityReached(capp(0), 0))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, isDuplicateKey(nil))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))

	assert.True(t, isDuplicateKey(errors.New(`duplicate key value violates unique constraint "uq_registration_event_user"`)))
	assert.True(t, isDuplicateKey(errors.New("ERROR: 23505")))
}
