package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gheider394-beep/2-sub000/internal/db"
	"github.com/gheider394-beep/2-sub000/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestUpsertThenFindThenDelete(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	ref := db.PostRef(42)

	require.NoError(t, repo.Upsert(ctx, ref, 7, db.KindLove))

	found, err := repo.Find(ctx, ref, 7)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, db.KindLove, found.Kind)

	require.NoError(t, repo.Delete(ctx, found.ID))

	found, err = repo.Find(ctx, ref, 7)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUpsertMergesDuplicateRows(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	ref := db.PostRef(42)

	// two inserts for the same (subject, user) must land on one row
	require.NoError(t, repo.Upsert(ctx, ref, 7, db.KindLove))
	require.NoError(t, repo.Upsert(ctx, ref, 7, db.KindAwesome))

	var count int64
	require.NoError(t, dbase.Model(&db.Reaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.Find(ctx, ref, 7)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, db.KindAwesome, found.Kind)
}

func TestUpdateKindInPlace(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	ref := db.CommentRef(9)
	require.NoError(t, repo.Upsert(ctx, ref, 3, db.KindLove))

	found, err := repo.Find(ctx, ref, 3)
	require.NoError(t, err)
	require.NotNil(t, found)

	require.NoError(t, repo.UpdateKind(ctx, found.ID, db.KindIncredible))

	found, err = repo.Find(ctx, ref, 3)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, db.KindIncredible, found.Kind)
}

func TestPostAndCommentSubjectsDoNotCollide(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	// same numeric id, different subject spaces
	require.NoError(t, repo.Upsert(ctx, db.PostRef(5), 7, db.KindLove))
	require.NoError(t, repo.Upsert(ctx, db.CommentRef(5), 7, db.KindLove))

	postCount, err := repo.Count(ctx, db.PostRef(5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), postCount)

	commentCount, err := repo.Count(ctx, db.CommentRef(5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), commentCount)
}

func TestCountPerSubject(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewReactionRepository(dbase)

	for userID := uint64(1); userID <= 3; userID++ {
		require.NoError(t, repo.Upsert(ctx, db.PostRef(42), userID, db.KindLove))
	}
	require.NoError(t, repo.Upsert(ctx, db.PostRef(43), 1, db.KindAwesome))

	count, err := repo.Count(ctx, db.PostRef(42))
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
