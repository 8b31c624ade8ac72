package threads_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/threadhub/internal/app/services/threads"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/revalidate"
	"github.com/dalemusser/threadhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*threads.Service, *revalidate.Recorder, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	rec := &revalidate.Recorder{}
	return threads.New(db, rec, zap.NewNop()), rec, testutil.NewFixtures(t, db)
}

func TestCreateThread_LinksAuthor(t *testing.T) {
	svc, rec, fx := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "user_a", "alice", "Alice")

	th, err := svc.CreateThread(ctx, threads.CreateThreadParams{Text: " hello ", AuthorID: alice.ID, Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, " hello ", th.Text, "text is stored as given")
	assert.Nil(t, th.ParentID)
	assert.Nil(t, th.Community)

	var u struct {
		Threads []primitive.ObjectID `bson:"threads"`
	}
	require.NoError(t, fx.DB().Collection("users").FindOne(ctx, bson.M{"_id": alice.ID}).Decode(&u))
	assert.Equal(t, []primitive.ObjectID{th.ID}, u.Threads)
	assert.Equal(t, []string{"/"}, rec.Paths())

	var stored struct {
		Text string `bson:"text"`
	}
	require.NoError(t, fx.DB().Collection("threads").FindOne(ctx, bson.M{"_id": th.ID}).Decode(&stored))
	assert.Equal(t, " hello ", stored.Text)
}

func TestCreateAndComment_RevalidateGivenPathEvenWhenEmpty(t *testing.T) {
	svc, rec, fx := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "user_a", "alice", "Alice")

	th, err := svc.CreateThread(ctx, threads.CreateThreadParams{Text: "no page", AuthorID: alice.ID})
	require.NoError(t, err)
	_, err = svc.AddCommentToThread(ctx, th.ID, "\tindented reply\n", alice.ID, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"", ""}, rec.Paths())

	view, err := svc.FetchThreadByID(ctx, th.ID)
	require.NoError(t, err)
	require.Len(t, view.Children, 1)
	assert.Equal(t, "\tindented reply\n", view.Children[0].Text)
}

func TestCreateThread_InCommunity(t *testing.T) {
	svc, _, fx := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "user_a", "alice", "Alice")
	gophers := fx.CreateCommunity(ctx, "org_go", "Gophers")

	th, err := svc.CreateThread(ctx, threads.CreateThreadParams{Text: "hi gophers", AuthorID: alice.ID, CommunityID: "org_go"})
	require.NoError(t, err)
	require.NotNil(t, th.Community)
	assert.Equal(t, gophers.ID, *th.Community)

	var c struct {
		Threads []primitive.ObjectID `bson:"threads"`
	}
	require.NoError(t, fx.DB().Collection("communities").FindOne(ctx, bson.M{"_id": gophers.ID}).Decode(&c))
	assert.Equal(t, []primitive.ObjectID{th.ID}, c.Threads)
}

func TestCreateThread_UnknownCommunity(t *testing.T) {
	svc, rec, fx := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "user_a", "alice", "Alice")

	_, err := svc.CreateThread(ctx, threads.CreateThreadParams{Text: "x", AuthorID: alice.ID, CommunityID: "org_missing", Path: "/"})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Community not found", err.Error())
	assert.EqualValues(t, 0, fx.CountThreads(ctx))
	assert.Empty(t, rec.Paths())
}

func TestCreateThread_DanglingAuthorAllowed(t *testing.T) {
	svc, _, fx := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ghost := primitive.NewObjectID()
	th, err := svc.CreateThread(ctx, threads.CreateThreadParams{Text: "boo", AuthorID: ghost})
	require.NoError(t, err)

	view, err := svc.FetchThreadByID(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, ghost, view.AuthorID)
	assert.Nil(t, view.Author)
	assert.EqualValues(t, 1, fx.CountThreads(ctx))
}

func TestCreateThread_Invalid(t *testing.T) {
	svc, _, _ := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := svc.CreateThread(ctx, threads.CreateThreadParams{Text: "   ", AuthorID: primitive.NewObjectID()})
	assert.True(t, apperr.IsInvalid(err))
	_, err = svc.CreateThread(ctx, threads.CreateThreadParams{Text: "x"})
	assert.True(t, apperr.IsInvalid(err))
}

func TestAddCommentToThread_AppendsOneChild(t *testing.T) {
	svc, rec, fx := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "user_a", "alice", "Alice")
	bob := fx.CreateUser(ctx, "user_b", "bob", "Bob")
	root := fx.CreateThread(ctx, alice.ID, "root", nil)
	fx.CreateReply(ctx, root.ID, alice.ID, "first")

	before, err := svc.FetchThreadByID(ctx, root.ID)
	require.NoError(t, err)

	reply, err := svc.AddCommentToThread(ctx, root.ID, "second", bob.ID, "/thread/"+root.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	after, err := svc.FetchThreadByID(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, after.Children, len(before.Children)+1)

	added := after.Children[len(after.Children)-1]
	assert.Equal(t, "second", added.Text)
	require.NotNil(t, added.Author)
	assert.Equal(t, bob.ID, added.Author.ID)
	assert.Equal(t, []string{"/thread/" + root.ID.Hex()}, rec.Paths())
}

func TestAddCommentToThread_MissingParent(t *testing.T) {
	svc, rec, fx := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bob := fx.CreateUser(ctx, "user_b", "bob", "Bob")

	_, err := svc.AddCommentToThread(ctx, primitive.NewObjectID(), "hi", bob.ID, "/")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Thread not found", err.Error())
	assert.EqualValues(t, 0, fx.CountThreads(ctx))
	assert.Empty(t, rec.Paths())
}

func TestAddCommentToThread_ConcurrentRepliesAllKept(t *testing.T) {
	svc, _, fx := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "user_a", "alice", "Alice")
	root := fx.CreateThread(ctx, alice.ID, "root", nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddCommentToThread(ctx, root.ID, "reply", alice.ID, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	view, err := svc.FetchThreadByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Len(t, view.Children, n)
}

func TestAddCommentToThread_PersistenceError(t *testing.T) {
	svc, _, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AddCommentToThread(ctx, primitive.NewObjectID(), "hi", primitive.NewObjectID(), "/")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Error adding comment to thread: "), err.Error())
}

func TestFetchThreadByID_Absent(t *testing.T) {
	svc, _, _ := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v, err := svc.FetchThreadByID(ctx, primitive.NewObjectID())
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestFetchThreadByID_PersistenceError(t *testing.T) {
	svc, _, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.FetchThreadByID(ctx, primitive.NewObjectID())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Error fetching thread: "), err.Error())
}

func TestFetchThreads(t *testing.T) {
	svc, _, fx := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "user_a", "alice", "Alice")
	old := fx.CreateThread(ctx, alice.ID, "old", nil)
	fx.CreateReply(ctx, old.ID, alice.ID, "reply")
	fx.CreateThread(ctx, alice.ID, "new", nil)

	page, err := svc.FetchThreads(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Threads, 1)
	assert.Equal(t, "new", page.Threads[0].Text)
	assert.True(t, page.HasNextPage)

	page, err = svc.FetchThreads(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Threads, 1)
	assert.Equal(t, "old", page.Threads[0].Text)
	assert.False(t, page.HasNextPage)
	require.Len(t, page.Threads[0].Children, 1)
	require.NotNil(t, page.Threads[0].Children[0].Author)
}
