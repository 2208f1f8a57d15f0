// Copyright (c) 2026 Driftline. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/platform/sec"
)

/*
TestPasswordHashing covers hashing and verification of credentials.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("hang-ten-2026")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "hang-ten-2026", hash)

	assert.True(t, sec.CheckPasswordHash("hang-ten-2026", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
}
