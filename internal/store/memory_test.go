package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/slingshot/slingshot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCredentials(t *testing.T) {
	s := NewMemoryStore()

	t.Run("get missing credential", func(t *testing.T) {
		_, ok := s.GetCredential("nobody", models.ProviderGoogle)
		assert.False(t, ok)
	})

	t.Run("set and get", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).UTC()
		err := s.SetCredential(&models.Credential{
			UserID:       "u1",
			Provider:     models.ProviderGoogle,
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresAt:    &exp,
		})
		require.NoError(t, err)

		cred, ok := s.GetCredential("u1", models.ProviderGoogle)
		require.True(t, ok)
		assert.Equal(t, "access-1", cred.AccessToken)
		assert.Equal(t, "refresh-1", cred.RefreshToken)
		require.NotNil(t, cred.ExpiresAt)
		assert.False(t, cred.UpdatedAt.IsZero())
	})

	t.Run("upsert is last write wins", func(t *testing.T) {
		err := s.SetCredential(&models.Credential{
			UserID:      "u1",
			Provider:    models.ProviderGoogle,
			AccessToken: "access-2",
		})
		require.NoError(t, err)

		cred, ok := s.GetCredential("u1", models.ProviderGoogle)
		require.True(t, ok)
		assert.Equal(t, "access-2", cred.AccessToken)
		assert.Equal(t, 1, s.Stats().CredentialCount)
	})

	t.Run("returned credential is a copy", func(t *testing.T) {
		cred, ok := s.GetCredential("u1", models.ProviderGoogle)
		require.True(t, ok)
		cred.AccessToken = "mutated"

		again, ok := s.GetCredential("u1", models.ProviderGoogle)
		require.True(t, ok)
		assert.Equal(t, "access-2", again.AccessToken)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteCredential("u1", models.ProviderGoogle))
		_, ok := s.GetCredential("u1", models.ProviderGoogle)
		assert.False(t, ok)

		// Deleting a missing credential is not an error.
		require.NoError(t, s.DeleteCredential("u1", models.ProviderGoogle))
	})
}

func TestMemoryStoreOAuthStates(t *testing.T) {
	s := NewMemoryStore()

	t.Run("take unknown state", func(t *testing.T) {
		_, ok := s.TakeOAuthState("missing")
		assert.False(t, ok)
	})

	t.Run("state is single use", func(t *testing.T) {
		require.NoError(t, s.PutOAuthState("st-1", "u1", time.Now().Add(10*time.Minute)))

		userID, ok := s.TakeOAuthState("st-1")
		require.True(t, ok)
		assert.Equal(t, "u1", userID)

		_, ok = s.TakeOAuthState("st-1")
		assert.False(t, ok)
	})

	t.Run("expired state is rejected and consumed", func(t *testing.T) {
		require.NoError(t, s.PutOAuthState("st-2", "u2", time.Now().Add(-time.Second)))

		_, ok := s.TakeOAuthState("st-2")
		assert.False(t, ok)
		assert.Equal(t, 0, s.Stats().StateCount)
	})
}

func TestMemoryStoreClearAndStats(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.SetCredential(&models.Credential{UserID: "u1", Provider: models.ProviderGoogle, AccessToken: "a"}))
	require.NoError(t, s.PutOAuthState("st", "u1", time.Now().Add(time.Minute)))

	stats := s.Stats()
	assert.Equal(t, 1, stats.CredentialCount)
	assert.Equal(t, 1, stats.StateCount)

	s.Clear()
	stats = s.Stats()
	assert.Equal(t, 0, stats.CredentialCount)
	assert.Equal(t, 0, stats.StateCount)

	assert.NoError(t, s.Close())
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n%5)
			_ = s.SetCredential(&models.Credential{
				UserID:      userID,
				Provider:    models.ProviderGoogle,
				AccessToken: fmt.Sprintf("token-%d", n),
			})
			s.GetCredential(userID, models.ProviderGoogle)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, s.Stats().CredentialCount)
}
