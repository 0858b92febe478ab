package memorystorage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/shortlinks/internal/db/storage"
)

func TestSaveShortLinkRejectsDuplicateKey(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, theStorage.SaveShortLink(ctx, "https://example.com/one", "abc1234", nil))

	err = theStorage.SaveShortLink(ctx, "https://example.com/two", "abc1234", nil)
	assert.ErrorIs(t, err, storage.ErrShortKeyExists)

	link, found, err := theStorage.FindShortLinkByKey(ctx, "abc1234")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "https://example.com/one", link.FullURL, "the first insert must not be overwritten")
}

func TestGetAndIncrementClicksIsAtomic(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, theStorage.SaveShortLink(ctx, "https://example.com/page", "abc1234", nil))

	const amountOfClicks = 50
	var wg sync.WaitGroup
	for i := 0; i < amountOfClicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := theStorage.GetAndIncrementClicks(ctx, "abc1234")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	link, found, err := theStorage.FindShortLinkByKey(ctx, "abc1234")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(amountOfClicks), link.Clicks)
}

func TestGetAndIncrementClicksUnknownKey(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	_, found, err := theStorage.GetAndIncrementClicks(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	usr, err := theStorage.CreateUser(ctx, "Alice", "alice@example.com", "hash-one")
	require.NoError(t, err)
	require.NotEmpty(t, usr.ID)

	_, err = theStorage.CreateUser(ctx, "Impostor", "alice@example.com", "hash-two")
	assert.ErrorIs(t, err, storage.ErrEmailExists)
}

func TestFindUserByID(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	created, err := theStorage.CreateUser(ctx, "Alice", "alice@example.com", "the-hash")
	require.NoError(t, err)

	usr, found, err := theStorage.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alice@example.com", usr.Email)
	assert.Empty(t, usr.PasswordHash)

	_, found, err = theStorage.FindUserByID(ctx, "no-such-id")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindUserByEmailHidesPasswordHash(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	_, err = theStorage.CreateUser(ctx, "Alice", "alice@example.com", "the-hash")
	require.NoError(t, err)

	usr, found, err := theStorage.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, usr.PasswordHash)

	usr, found, err = theStorage.FindUserByEmailWithPassword(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "the-hash", usr.PasswordHash)
}

func TestGetUserLinksFiltersByOwner(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	alice := "user-alice"
	bob := "user-bob"

	require.NoError(t, theStorage.SaveShortLink(ctx, "https://example.com/a", "aaaaaaa", &alice))
	require.NoError(t, theStorage.SaveShortLink(ctx, "https://example.com/b", "bbbbbbb", &bob))
	require.NoError(t, theStorage.SaveShortLink(ctx, "https://example.com/c", "ccccccc", nil))

	links, err := theStorage.GetUserLinks(ctx, alice)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "aaaaaaa", links[0].ShortURL)
}
