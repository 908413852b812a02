// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var testParams = Argon2Params{
	Time:    1,
	Memory:  8 * 1024,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(testParams)
	require.NoError(t, err)

	hash, err := h.Hash("correct horse battery")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))

	ok, err := h.Verify("correct horse battery", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPasswordHasher_VerifyTimingSafe(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(testParams)
	require.NoError(t, err)

	valid, rehash, err := h.VerifyTimingSafe("anything", "")
	require.NoError(t, err)
	require.False(t, valid)
	require.Empty(t, rehash)

	old, err := NewPasswordHasher(Argon2Params{Time: 2, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	require.NoError(t, err)

	oldHash, err := old.Hash("secret-password")
	require.NoError(t, err)

	valid, rehash, err = h.VerifyTimingSafe("secret-password", oldHash)
	require.NoError(t, err)
	require.True(t, valid)
	require.NotEmpty(t, rehash)
	require.False(t, h.NeedsRehash(rehash))
}

func TestPasswordHasher_RejectsMalformedHash(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(testParams)
	require.NoError(t, err)

	for _, bad := range []string{"", "plain", "$bcrypt$v=1$x$y$z", "$argon2id$v=1$m=1,t=1,p=1$AA$AA"} {
		_, err := h.Verify("pw", bad)
		require.Error(t, err, bad)
	}
}

func TestGenerateNumericCode(t *testing.T) {
	t.Parallel()

	for range 200 {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.NotEqual(t, byte('0'), code[0])
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9')
		}
	}

	_, err := GenerateNumericCode(0)
	require.Error(t, err)
}

func TestGenerateHexTokenAndHash(t *testing.T) {
	t.Parallel()

	a, err := GenerateHexToken(32)
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := GenerateHexToken(32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	require.Equal(t, HashToken(a), HashToken(a))
	require.NotEqual(t, HashToken(a), HashToken(b))
	require.True(t, ConstantTimeEqual(a, a))
	require.False(t, ConstantTimeEqual(a, b))
}
