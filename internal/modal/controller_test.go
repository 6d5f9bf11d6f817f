package modal

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeadmin/internal/cache"
	"storeadmin/internal/resource"
	"storeadmin/internal/validate"
)

type fakeAPI struct {
	createCalls int32
	updateCalls int32

	createPath string
	updatePath string
	lastSent   resource.Record

	createResp resource.Record
	updateResp resource.Record
	err        error

	// when set, calls block until the channel is closed
	block chan struct{}
}

func (f *fakeAPI) Create(ctx context.Context, path string, entity resource.Record) (resource.Record, error) {
	atomic.AddInt32(&f.createCalls, 1)
	f.createPath = path
	f.lastSent = entity
	if f.block != nil {
		<-f.block
	}
	return f.createResp, f.err
}

func (f *fakeAPI) Update(ctx context.Context, path string, entity resource.Record) (resource.Record, error) {
	atomic.AddInt32(&f.updateCalls, 1)
	f.updatePath = path
	f.lastSent = entity
	if f.block != nil {
		<-f.block
	}
	return f.updateResp, f.err
}

func (f *fakeAPI) calls() int32 {
	return atomic.LoadInt32(&f.createCalls) + atomic.LoadInt32(&f.updateCalls)
}

func newTestController(t *testing.T, schema resource.Schema, api Submitter, coll Collection) *Controller {
	t.Helper()
	c := NewController(schema, validate.NewGate(10*time.Millisecond), api, coll, nil)
	c.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	c.newID = func() string { return "tmp-1" }
	return c
}

func TestOpenBlank_DraftHasTempIDAndGateIsReset(t *testing.T) {
	c := newTestController(t, resource.Products, &fakeAPI{}, cache.New())

	c.Open(nil)

	assert.True(t, c.IsOpen())
	assert.False(t, c.Editing())
	assert.Equal(t, "tmp-1", c.TempID())
	assert.False(t, c.gate.CanSubmit(), "empty form is provisionally invalid")
}

func TestSubmit_InvalidDraftMakesNoNetworkCall(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	c := newTestController(t, resource.Products, api, cache.New())

	c.Open(nil)
	_, err := c.Submit(ctx)

	assert.ErrorIs(t, err, ErrDraftNotReady)
	assert.Equal(t, int32(0), api.calls())
	assert.True(t, c.IsOpen())
}

func TestSubmit_PendingValidationBlocks(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	c := newTestController(t, resource.Users, api, cache.New())

	c.Open(nil)
	require.NoError(t, c.SetField("name", "Ana"))
	require.NoError(t, c.SetField("email", "ana@example.org"))

	// debounce has not fired yet
	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrDraftNotReady)
	assert.Equal(t, int32(0), api.calls())
}

func TestEditScenario_NegativeAmountRejected(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	c := newTestController(t, resource.Products, api, cache.New())

	c.Open(resource.Record{"id": "7", "name": "Ana", "amount": 5, "price": 2.0})
	require.NoError(t, c.SetField("amount", "-1"))

	st := c.Wait(ctx)
	assert.False(t, st.Valid)

	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrDraftNotReady)
	assert.Equal(t, int32(0), api.calls(), "no network call for an invalid draft")
}

func TestSubmit_EditMergesSeedAndDraft(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	coll := cache.New()
	coll.ApplyCreate(resource.Record{"_id": "7", "name": "Ana", "email": "ana@example.org", "role": "admin"})

	c := newTestController(t, resource.Users, api, coll)
	c.Open(resource.Record{"_id": "7", "name": "Ana", "email": "ana@example.org", "role": "admin"})
	require.NoError(t, c.SetField("name", "Ana María"))

	require.True(t, c.Wait(ctx).Valid)

	entity, err := c.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, "/api/update/7", api.updatePath)
	assert.Equal(t, "Ana María", api.lastSent["name"])
	assert.Equal(t, "admin", api.lastSent["role"], "seed fields outside the form survive the merge")

	assert.False(t, c.IsOpen())
	assert.Equal(t, "admin", entity["role"])

	rec, ok := coll.Get("7")
	require.True(t, ok)
	assert.Equal(t, "Ana María", rec["name"])
	assert.Equal(t, "admin", rec["role"])
}

func TestSubmit_CreateProductFlow(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{createResp: resource.Record{
		"_id": "9", "name": "Pen", "price": 1.5, "amount": 10, "createDate": "2024-01-01",
	}}
	coll := cache.New("productList", "products")

	c := newTestController(t, resource.Products, api, coll)
	c.Open(nil)
	require.NoError(t, c.SetField("name", "Pen"))
	require.NoError(t, c.SetField("price", "1.5"))
	require.NoError(t, c.SetField("amount", "10"))

	require.True(t, c.Wait(ctx).Valid)

	entity, err := c.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, "/api/crearp", api.createPath)
	assert.Equal(t, "2024-01-01T00:00:00Z", api.lastSent["createDate"])
	assert.Equal(t, true, api.lastSent["status"], "defaulted status is a strict bool")

	assert.Equal(t, "9", resource.PrimaryID(entity))
	assert.Equal(t, 1, coll.Len(), "cache gains exactly one entity")
	_, ok := coll.Get("9")
	assert.True(t, ok)
	assert.False(t, c.IsOpen())
}

func TestSubmit_CreateUserUnwrapsEnvelope(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{createResp: resource.Record{
		"user": map[string]any{"_id": "5", "name": "Bo", "email": "bo@example.org"},
	}}
	coll := cache.New("userList", "users")

	c := newTestController(t, resource.Users, api, coll)
	c.Open(nil)
	require.NoError(t, c.SetField("name", "Bo"))
	require.NoError(t, c.SetField("email", "bo@example.org"))
	require.True(t, c.Wait(ctx).Valid)

	entity, err := c.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, "5", resource.PrimaryID(entity))
	_, ok := coll.Get("5")
	assert.True(t, ok)
}

func TestSubmit_CreateUserBadEnvelopeKeepsDialogOpen(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{createResp: resource.Record{"unexpected": "shape"}}
	coll := cache.New("userList", "users")

	c := newTestController(t, resource.Users, api, coll)
	c.Open(nil)
	require.NoError(t, c.SetField("name", "Bo"))
	require.NoError(t, c.SetField("email", "bo@example.org"))
	require.True(t, c.Wait(ctx).Valid)

	_, err := c.Submit(ctx)
	require.Error(t, err)
	assert.True(t, c.IsOpen())
	assert.Equal(t, 0, coll.Len())
}

func TestSubmit_FailureKeepsDraftIntact(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{err: errors.New("boom")}
	coll := cache.New()

	c := newTestController(t, resource.Orders, api, coll)
	c.Open(nil)
	require.NoError(t, c.SetField("user", "u-1"))
	require.NoError(t, c.SetField("subtotal", "5"))
	require.NoError(t, c.SetField("total", "6"))
	require.True(t, c.Wait(ctx).Valid)

	_, err := c.Submit(ctx)
	require.Error(t, err)

	assert.True(t, c.IsOpen(), "dialog stays open for retry")
	assert.Equal(t, "u-1", c.Draft()["user"])
	assert.Equal(t, 0, coll.Len(), "no optimistic insert before confirmation")
}

func TestCancel_MidValidationIsSafe(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(t, resource.Users, api, cache.New())

	c.Open(nil)
	require.NoError(t, c.SetField("name", "Ana"))
	c.Cancel() // before the debounce fires

	time.Sleep(40 * time.Millisecond)
	assert.False(t, c.IsOpen())
	assert.Equal(t, validate.State{}, c.gate.State(), "no late writes after closing")

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubmit_ResponseAfterCancelIsDropped(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{
		block:      make(chan struct{}),
		createResp: resource.Record{"_id": "9", "name": "Pen"},
	}
	coll := cache.New()

	c := newTestController(t, resource.Products, api, coll)
	c.Open(nil)
	require.NoError(t, c.SetField("name", "Pen"))
	require.NoError(t, c.SetField("price", "1.5"))
	require.NoError(t, c.SetField("amount", "10"))
	require.True(t, c.Wait(ctx).Valid)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return api.calls() == 1 }, time.Second, 5*time.Millisecond)
	c.Cancel()
	close(api.block)

	assert.ErrorIs(t, <-done, ErrCancelled)
	assert.Equal(t, 0, coll.Len(), "dropped result must not touch the cache")
}

func TestSetField_ParseAndUnknownErrors(t *testing.T) {
	c := newTestController(t, resource.Products, &fakeAPI{}, cache.New())
	c.Open(nil)

	assert.Error(t, c.SetField("amount", "lots"))
	assert.ErrorIs(t, c.SetField("nope", "x"), resource.ErrUnknownField)
}

func TestOpenSeeded_PrimeCatchesIncompleteSeed(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	c := newTestController(t, resource.Users, api, cache.New())

	// seed lost its email somewhere upstream
	c.Open(resource.Record{"_id": "7", "name": "Ana"})

	st := c.Wait(ctx)
	assert.False(t, st.Valid, "stale seed data is still caught")

	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrDraftNotReady)
	assert.Equal(t, int32(0), api.calls())
}
