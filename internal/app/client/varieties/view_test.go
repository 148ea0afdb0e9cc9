package varieties

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"grapetracker/internal/app/client/manifest"
	"grapetracker/internal/domain/user"
	"grapetracker/internal/domain/variety"
)

var (
	ana  = user.User{ID: 1, Name: "Ana", Email: "ana@example.com"}
	bob  = user.User{ID: 2, Name: "Bob", Email: "bob@example.com"}
	base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

type fakeStore struct {
	mu sync.Mutex

	pages     [][]variety.Variety
	findErr   error
	findCalls int
	findGate  chan struct{}

	created     variety.Variety
	createErr   error
	createCalls int
	createGate  chan struct{}
	lastPayload variety.Payload

	deleteErr   map[int]error
	deleteCalls []int

	photo       variety.Photo
	uploadErr   error
	uploadCalls int
}

func (f *fakeStore) FindPage(ctx context.Context, page, perPage int) ([]variety.Variety, bool, error) {
	f.mu.Lock()
	f.findCalls++
	gate := f.findGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.findErr != nil {
		return nil, false, f.findErr
	}
	if page > len(f.pages) {
		return nil, false, nil
	}
	return f.pages[page-1], page < len(f.pages), nil
}

func (f *fakeStore) Create(ctx context.Context, p variety.Payload) (variety.Variety, error) {
	f.mu.Lock()
	f.createCalls++
	f.lastPayload = p
	gate := f.createGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.createErr != nil {
		return variety.Variety{}, f.createErr
	}
	return f.created, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr[id]
}

func (f *fakeStore) UploadPhoto(ctx context.Context, a *variety.Attachment) (variety.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	return f.photo, f.uploadErr
}

func (f *fakeStore) calls() (find, create int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findCalls, f.createCalls
}

func rec(id int, name string, grower user.User, age time.Duration) variety.Variety {
	g := grower
	return variety.Variety{
		ID:        id,
		Name:      name,
		Color:     variety.ColorRed,
		Grower:    &g,
		CreatedAt: base.Add(-age),
	}
}

func ids(items []variety.Variety) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func newTestView(store Store, confirm Confirmer) *View {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewView(store, ana, Options{PageSize: 2, Confirmer: confirm}, log)
}

func yes() Confirmer { return ConfirmFunc(func(string) bool { return true }) }

func loadedView(t *testing.T, store *fakeStore, confirm Confirmer) *View {
	t.Helper()
	v := newTestView(store, confirm)
	require.NoError(t, v.Load(context.Background()))
	return v
}

func TestView_Load(t *testing.T) {
	t.Run("all pages newest first", func(t *testing.T) {
		store := &fakeStore{pages: [][]variety.Variety{
			{rec(3, "Merlot", ana, 2*time.Hour), rec(5, "Syrah", bob, time.Minute)},
			{rec(4, "Riesling", ana, time.Hour), rec(1, "Gamay", bob, 5*time.Hour)},
		}}

		v := loadedView(t, store, nil)

		if diff := cmp.Diff([]int{5, 4, 3, 1}, ids(v.Items())); diff != "" {
			t.Errorf("unexpected order (-want +got):\n%s", diff)
		}
		find, _ := store.calls()
		assert.Equal(t, 2, find)
		assert.NoError(t, v.LastError())
		assert.False(t, v.Loading())
	})

	t.Run("equal timestamps keep backend order", func(t *testing.T) {
		store := &fakeStore{pages: [][]variety.Variety{
			{rec(8, "A", ana, 0), rec(9, "B", ana, 0), rec(7, "C", ana, 0)},
		}}
		v := loadedView(t, store, nil)
		assert.Equal(t, []int{8, 9, 7}, ids(v.Items()))
	})

	t.Run("failure empties the list", func(t *testing.T) {
		store := &fakeStore{pages: [][]variety.Variety{{rec(1, "Gamay", ana, 0)}}}
		v := loadedView(t, store, nil)
		require.Len(t, v.Items(), 1)

		store.findErr = errors.New("connection refused")
		err := v.Load(context.Background())
		require.Error(t, err)

		assert.Empty(t, v.Items())
		assert.ErrorIs(t, v.LastError(), store.findErr)
	})

	t.Run("failure is logged with its error", func(t *testing.T) {
		var buf bytes.Buffer
		store := &fakeStore{findErr: errors.New("connection refused")}
		v := NewView(store, ana, Options{}, slog.New(slog.NewJSONHandler(&buf, nil)))

		require.Error(t, v.Load(context.Background()))

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "failed to load varieties", entry["msg"])
		assert.Equal(t, "varieties", entry["component"])
		assert.Equal(t, "fetch page 1: connection refused", entry["error"])
	})

	t.Run("replaces the list wholesale", func(t *testing.T) {
		store := &fakeStore{pages: [][]variety.Variety{{rec(1, "Gamay", ana, 0)}}}
		v := loadedView(t, store, nil)

		store.pages = [][]variety.Variety{{rec(2, "Syrah", ana, 0)}}
		require.NoError(t, v.Load(context.Background()))
		assert.Equal(t, []int{2}, ids(v.Items()))
	})
}

func TestView_Load_Concurrent(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeStore{
		pages:    [][]variety.Variety{{rec(1, "Gamay", ana, 0)}},
		findGate: gate,
	}
	v := newTestView(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, v.Load(context.Background()))
		}()
	}

	require.Eventually(t, v.Loading, time.Second, time.Millisecond)
	// даем остальным горутинам присоединиться к запросу в полете
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	find, _ := store.calls()
	assert.Equal(t, 1, find)
	assert.Equal(t, []int{1}, ids(v.Items()))
}

func TestView_Load_OverlappingMutations(t *testing.T) {
	t.Run("create during load survives", func(t *testing.T) {
		gate := make(chan struct{})
		store := &fakeStore{
			pages:    [][]variety.Variety{{rec(1, "Gamay", ana, time.Hour)}},
			findGate: gate,
			created:  variety.Variety{ID: 42, Name: "Pinot Noir", Color: variety.ColorRed, CreatedAt: base},
		}
		v := newTestView(store, nil)

		done := make(chan error, 1)
		go func() { done <- v.Load(context.Background()) }()
		require.Eventually(t, v.Loading, time.Second, time.Millisecond)

		d := variety.NewDraft()
		d.Name = "Pinot Noir"
		_, err := v.Create(context.Background(), d)
		require.NoError(t, err)
		assert.Equal(t, []int{42}, ids(v.Items()))

		close(gate)
		require.NoError(t, <-done)
		assert.Equal(t, []int{42, 1}, ids(v.Items()))
	})

	t.Run("delete during load stays deleted", func(t *testing.T) {
		store := &fakeStore{pages: [][]variety.Variety{
			{rec(5, "Merlot", ana, time.Minute), rec(7, "Syrah", bob, time.Hour)},
		}}
		v := loadedView(t, store, yes())

		gate := make(chan struct{})
		store.mu.Lock()
		store.findGate = gate
		store.mu.Unlock()

		done := make(chan error, 1)
		go func() { done <- v.Load(context.Background()) }()
		require.Eventually(t, v.Loading, time.Second, time.Millisecond)

		require.NoError(t, v.Delete(context.Background(), 5))

		close(gate)
		require.NoError(t, <-done)
		assert.Equal(t, []int{7}, ids(v.Items()))
	})
}

func TestView_Load_CallerCancel(t *testing.T) {
	gate := make(chan struct{})
	store := &fakeStore{
		pages:    [][]variety.Variety{{rec(1, "Gamay", ana, 0)}},
		findGate: gate,
	}
	v := newTestView(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- v.Load(ctx) }()
	require.Eventually(t, v.Loading, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- v.Load(context.Background()) }()
	// даем второму вызову присоединиться к запросу в полете
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-first:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller still waiting")
	}
	assert.True(t, v.Loading())

	close(gate)
	require.NoError(t, <-second)
	assert.NoError(t, v.LastError())
	assert.Equal(t, []int{1}, ids(v.Items()))

	find, _ := store.calls()
	assert.Equal(t, 1, find)
}

func TestView_Create(t *testing.T) {
	t.Run("empty name is rejected locally", func(t *testing.T) {
		store := &fakeStore{pages: [][]variety.Variety{{rec(1, "Gamay", ana, 0)}}}
		v := loadedView(t, store, nil)

		for _, name := range []string{"", "   ", "\t\n"} {
			d := variety.NewDraft()
			d.Name = name
			_, err := v.Create(context.Background(), d)
			assert.ErrorIs(t, err, ErrNameRequired)
			assert.Equal(t, MsgNameRequired, Message(err))
		}

		_, create := store.calls()
		assert.Zero(t, create)
		assert.Equal(t, []int{1}, ids(v.Items()))
	})

	t.Run("success prepends and resets the form", func(t *testing.T) {
		store := &fakeStore{
			pages:   [][]variety.Variety{{rec(10, "Gamay", ana, time.Hour), rec(11, "Syrah", bob, 2*time.Hour)}},
			created: variety.Variety{ID: 42, Name: "Pinot Noir", Color: variety.ColorRed, CreatedAt: base},
			photo:   variety.Photo{"thumbnail": "https://cdn/pinot-thumb.jpg"},
		}
		v := loadedView(t, store, nil)

		d := variety.NewDraft()
		d.Name = "Pinot Noir"
		d.Origin = "Burgundy"
		d.Photo = variety.NewAttachment("/tmp/pinot.jpg", []byte("jpeg"))
		v.SetForm(d)

		created, err := v.CreateForm(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, created.ID)
		require.NotNil(t, created.Grower)
		assert.Equal(t, ana.ID, created.Grower.ID)

		assert.Equal(t, []int{42, 10, 11}, ids(v.Items()))
		if diff := cmp.Diff(variety.NewDraft(), v.Form()); diff != "" {
			t.Errorf("form not reset (-want +got):\n%s", diff)
		}
		assert.Nil(t, v.Form().Photo)

		assert.Equal(t, 1, store.uploadCalls)
		assert.Equal(t, "Pinot Noir", store.lastPayload.Name)
		assert.Equal(t, variety.ColorRed, store.lastPayload.Color)
		assert.Equal(t, "https://cdn/pinot-thumb.jpg", store.lastPayload.Photo["thumbnail"])
	})

	t.Run("failure keeps list and form", func(t *testing.T) {
		store := &fakeStore{
			pages:     [][]variety.Variety{{rec(10, "Gamay", ana, 0)}},
			createErr: &manifest.APIError{Status: 500, Message: "boom"},
		}
		v := loadedView(t, store, nil)

		d := variety.NewDraft()
		d.Name = "Cabernet"
		d.Color = variety.ColorBlack

		_, err := v.Create(context.Background(), d)
		assert.ErrorIs(t, err, ErrCreateFailed)
		assert.Equal(t, MsgCreateFailed, Message(err))
		assert.Equal(t, []int{10}, ids(v.Items()))
		assert.Equal(t, d, v.Form())
		assert.False(t, v.Submitting())
	})

	t.Run("upload failure aborts create", func(t *testing.T) {
		store := &fakeStore{uploadErr: errors.New("too large")}
		v := loadedView(t, store, nil)

		d := variety.NewDraft()
		d.Name = "Cabernet"
		d.Photo = variety.NewAttachment("big.png", []byte("png"))

		_, err := v.Create(context.Background(), d)
		assert.ErrorIs(t, err, ErrCreateFailed)
		_, create := store.calls()
		assert.Zero(t, create)
	})

	t.Run("double submission", func(t *testing.T) {
		gate := make(chan struct{})
		store := &fakeStore{
			created:    variety.Variety{ID: 50, Name: "Gamay"},
			createGate: gate,
		}
		v := loadedView(t, store, nil)

		d := variety.NewDraft()
		d.Name = "Gamay"

		done := make(chan error, 1)
		go func() {
			_, err := v.Create(context.Background(), d)
			done <- err
		}()

		require.Eventually(t, v.Submitting, time.Second, time.Millisecond)
		_, err := v.Create(context.Background(), d)
		assert.ErrorIs(t, err, ErrSubmitting)

		close(gate)
		require.NoError(t, <-done)
		assert.Equal(t, []int{50}, ids(v.Items()))
		_, create := store.calls()
		assert.Equal(t, 1, create)
	})
}

func TestView_Delete(t *testing.T) {
	items := func() [][]variety.Variety {
		return [][]variety.Variety{{
			rec(5, "Gamay", ana, time.Minute),
			rec(7, "Syrah", bob, time.Hour),
			rec(9, "Merlot", ana, 2*time.Hour),
		}}
	}

	t.Run("success removes only that record", func(t *testing.T) {
		store := &fakeStore{pages: items()}
		v := loadedView(t, store, yes())
		before := v.Items()

		require.NoError(t, v.Delete(context.Background(), 5))

		want := before[1:]
		if diff := cmp.Diff(want, v.Items()); diff != "" {
			t.Errorf("unexpected list (-want +got):\n%s", diff)
		}
	})

	t.Run("permission error leaves list unchanged", func(t *testing.T) {
		store := &fakeStore{
			pages:     items(),
			deleteErr: map[int]error{7: &manifest.APIError{Status: 403, Message: "Forbidden resource"}},
		}
		v := loadedView(t, store, yes())
		before := v.Items()

		err := v.Delete(context.Background(), 7)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Equal(t, MsgPermissionDenied, Message(err))

		if diff := cmp.Diff(before, v.Items()); diff != "" {
			t.Errorf("list changed (-want +got):\n%s", diff)
		}
	})

	t.Run("unauthorized counts as permission error", func(t *testing.T) {
		store := &fakeStore{
			pages:     items(),
			deleteErr: map[int]error{7: &manifest.APIError{Status: 401}},
		}
		v := loadedView(t, store, yes())
		assert.ErrorIs(t, v.Delete(context.Background(), 7), ErrPermissionDenied)
	})

	t.Run("other failure", func(t *testing.T) {
		store := &fakeStore{
			pages:     items(),
			deleteErr: map[int]error{9: errors.New("timeout")},
		}
		v := loadedView(t, store, yes())

		err := v.Delete(context.Background(), 9)
		assert.ErrorIs(t, err, ErrDeleteFailed)
		assert.NotErrorIs(t, err, ErrPermissionDenied)
		assert.Len(t, v.Items(), 3)
	})

	t.Run("declined confirmation", func(t *testing.T) {
		var prompt string
		store := &fakeStore{pages: items()}
		v := loadedView(t, store, ConfirmFunc(func(p string) bool {
			prompt = p
			return false
		}))

		assert.ErrorIs(t, v.Delete(context.Background(), 5), ErrDeleteCancelled)
		assert.Equal(t, MsgConfirmDelete, prompt)
		assert.Empty(t, store.deleteCalls)
		assert.Len(t, v.Items(), 3)
	})

	t.Run("no confirmer declines", func(t *testing.T) {
		store := &fakeStore{pages: items()}
		v := loadedView(t, store, nil)

		assert.ErrorIs(t, v.Delete(context.Background(), 5), ErrDeleteCancelled)
		assert.Empty(t, store.deleteCalls)
	})
}

func TestView_Render(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		v := loadedView(t, &fakeStore{}, nil)

		var buf bytes.Buffer
		require.NoError(t, v.Render(&buf))
		assert.Equal(t, MsgEmpty+"\n", buf.String())
	})

	t.Run("loading", func(t *testing.T) {
		gate := make(chan struct{})
		store := &fakeStore{findGate: gate}
		v := newTestView(store, nil)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = v.Load(context.Background())
		}()
		require.Eventually(t, v.Loading, time.Second, time.Millisecond)

		var buf bytes.Buffer
		require.NoError(t, v.Render(&buf))
		assert.Equal(t, MsgLoading+"\n", buf.String())

		close(gate)
		<-done
	})

	t.Run("items", func(t *testing.T) {
		withPhoto := rec(3, "Riesling", bob, 0)
		withPhoto.Photo = variety.Photo{"thumbnail": "https://cdn/riesling.jpg"}
		withPhoto.Origin = "Mosel"
		withPhoto.Notes = "Steep slate slopes"
		withPhoto.Color = variety.ColorWhite

		store := &fakeStore{pages: [][]variety.Variety{{withPhoto, rec(2, "Gamay", ana, time.Hour)}}}
		v := loadedView(t, store, nil)

		var buf bytes.Buffer
		require.NoError(t, v.Render(&buf))
		out := buf.String()

		assert.Contains(t, out, "Riesling")
		assert.Contains(t, out, "White")
		assert.Contains(t, out, "https://cdn/riesling.jpg")
		assert.Contains(t, out, "Mosel")
		assert.Contains(t, out, "Steep slate slopes")
		assert.Contains(t, out, "by Bob")
		assert.Contains(t, out, variety.PlaceholderThumbnail)
		assert.Contains(t, out, "(yours)")
	})
}
