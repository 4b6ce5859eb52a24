package session

import (
	"context"
	"testing"

	"aviorie-web/internal/role"
	"aviorie-web/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() user.User {
	return user.User{ID: "u1", FullName: "A B", Email: "a@b.com", Role: "admin", IsApproved: true, IsActive: true}
}

func TestNew(t *testing.T) {
	s, err := New("t1", testUser())
	require.NoError(t, err)
	assert.Equal(t, "t1", s.Token)
	assert.Equal(t, "u1", s.User.ID)

	r, ok := s.Role()
	assert.True(t, ok)
	assert.Equal(t, role.Admin{}, r)

	_, err = New("", testUser())
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	_, ok = FromContext(WithSession(context.Background(), nil))
	assert.False(t, ok)

	s, _ := New("t1", testUser())
	got, ok := FromContext(WithSession(context.Background(), &s))
	require.True(t, ok)
	assert.Equal(t, "t1", got.Token)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "v1")
	assert.ErrorIs(t, err, ErrNotFound)

	s, _ := New("t1", testUser())
	require.NoError(t, store.Save(ctx, "v1", s))

	got, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, s, *got)

	// Sessions are isolated per visitor.
	_, err = store.Load(ctx, "v2")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Clear(ctx, "v1"))
	_, err = store.Load(ctx, "v1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RejectsPartialSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Save(ctx, "v1", Session{User: testUser()})
	assert.ErrorIs(t, err, ErrEmptyToken)

	_, err = store.Load(ctx, "v1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecode_Corrupt(t *testing.T) {
	_, err := decode([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrCorruptValue)

	_, err = decode([]byte(`{"user":{"id":"u1"}}`))
	assert.ErrorIs(t, err, ErrCorruptValue)
}
