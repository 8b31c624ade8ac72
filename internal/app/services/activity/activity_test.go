package activity_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dalemusser/threadhub/internal/app/services/activity"
	"github.com/dalemusser/threadhub/internal/app/services/threads"
	"github.com/dalemusser/threadhub/internal/app/system/revalidate"
	"github.com/dalemusser/threadhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// A posts "hello", B replies "hi".
func TestScenario_HelloHi(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	threadSvc := threads.New(db, &revalidate.Recorder{}, zap.NewNop())
	svc := activity.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateUser(ctx, "user_a", "a", "User A")
	b := fx.CreateUser(ctx, "user_b", "b", "User B")

	t1, err := threadSvc.CreateThread(ctx, threads.CreateThreadParams{Text: "hello", AuthorID: a.ID, Path: "/"})
	require.NoError(t, err)
	_, err = threadSvc.AddCommentToThread(ctx, t1.ID, "hi", b.ID, "/thread/"+t1.ID.Hex())
	require.NoError(t, err)

	view, err := threadSvc.FetchThreadByID(ctx, t1.ID)
	require.NoError(t, err)
	require.Len(t, view.Children, 1)
	assert.Equal(t, "hi", view.Children[0].Text)
	require.NotNil(t, view.Children[0].Author)
	assert.Equal(t, b.ID, view.Children[0].Author.ID)

	forA, err := svc.GetActivity(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, forA, 1)
	assert.Equal(t, "hi", forA[0].Text)
	require.NotNil(t, forA[0].Author)
	assert.Equal(t, "User B", forA[0].Author.Name)
	assert.Equal(t, "user_b", forA[0].Author.IdentityID)

	forB, err := svc.GetActivity(ctx, b.ID)
	require.NoError(t, err)
	assert.NotNil(t, forB)
	assert.Empty(t, forB)
}

func TestGetActivity_ExcludesSelfReplies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	svc := activity.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "me", "me", "Me")
	other := fx.CreateUser(ctx, "other", "other", "Other")

	root := fx.CreateThread(ctx, me.ID, "root", nil)
	fx.CreateReply(ctx, root.ID, me.ID, "talking to myself")
	theirs := fx.CreateReply(ctx, root.ID, other.ID, "first")
	// A reply to my own reply still counts: my replies are threads I authored.
	myReply := fx.CreateReply(ctx, theirs.ID, me.ID, "answer")
	nested := fx.CreateReply(ctx, myReply.ID, other.ID, "follow-up")

	got, err := svc.GetActivity(ctx, me.ID)
	require.NoError(t, err)

	var texts []string
	for _, v := range got {
		assert.NotEqual(t, me.ID, v.AuthorID, "activity must not include own threads")
		texts = append(texts, v.Text)
	}
	assert.ElementsMatch(t, []string{"first", nested.Text}, texts)
}

func TestGetActivity_NoThreads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := activity.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := svc.GetActivity(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetActivity_PersistenceError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := activity.New(db, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := svc.GetActivity(ctx, primitive.NewObjectID())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, strings.HasPrefix(err.Error(), "Error fetching activity: "), err.Error())
}
