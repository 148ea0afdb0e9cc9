package varieties

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"

	"grapetracker/internal/app/client/manifest"
	"grapetracker/internal/domain/user"
	"grapetracker/internal/domain/variety"
	"grapetracker/internal/utils/logger"
)

const (
	defaultPageSize    = 100
	defaultLoadTimeout = 2 * time.Minute
	// страховка от бэкенда, который никогда не отдает последнюю страницу
	maxPages = 1000
)

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type Options struct {
	PageSize  int
	Confirmer Confirmer
	// LoadTimeout bounds a whole Load, all pages included.
	LoadTimeout time.Duration
}

// mutation is a Create or Delete that finished while a Load was in flight.
type mutation struct {
	created   *variety.Variety
	deletedID int
}

// View is the dashboard list of grape varieties plus the create form.
type View struct {
	store       Store
	confirm     Confirmer
	user        user.User
	pageSize    int
	loadTimeout time.Duration
	log         *slog.Logger
	loads       singleflight.Group

	mu         sync.Mutex
	items      []variety.Variety
	form       variety.Draft
	loading    bool
	lastErr    error
	submitting bool
	deleting   map[int]struct{}
	// пока идет Load, мутации копятся здесь и накладываются на ответ
	tracking bool
	journal  []mutation
}

// NewView creates the list for u. Without a Confirmer every delete is declined.
func NewView(store Store, u user.User, opts Options, log *slog.Logger) *View {
	if opts.PageSize < 1 {
		opts.PageSize = defaultPageSize
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	if opts.Confirmer == nil {
		opts.Confirmer = ConfirmFunc(func(string) bool { return false })
	}

	return &View{
		store:       store,
		confirm:     opts.Confirmer,
		user:        u,
		pageSize:    opts.PageSize,
		loadTimeout: opts.LoadTimeout,
		log:         log.With("component", "varieties"),
		form:        variety.NewDraft(),
		deleting:    make(map[int]struct{}),
	}
}

// Load replaces the list with every variety, newest first.
// Concurrent calls share a single backend round trip. Cancelling ctx only
// stops this caller from waiting; the shared fetch keeps running for the others.
func (v *View) Load(ctx context.Context) error {
	ch := v.loads.DoChan("load", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.loadTimeout)
		defer cancel()
		return nil, v.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			v.log.Debug("load shared with in-flight request")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *View) load(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.tracking = true
	v.journal = nil
	v.mu.Unlock()

	items, err := v.fetchAll(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	journal := v.journal
	v.tracking = false
	v.journal = nil

	if err != nil {
		v.log.Error("failed to load varieties", logger.Err(err))
		v.lastErr = err
		if !errors.Is(err, context.Canceled) {
			v.items = nil
		}
		return err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	v.items = replay(items, journal)
	v.lastErr = nil
	v.log.Debug("varieties loaded", "count", len(items))
	return nil
}

func (v *View) fetchAll(ctx context.Context) ([]variety.Variety, error) {
	var all []variety.Variety
	for page := 1; page <= maxPages; page++ {
		items, more, err := v.store.FindPage(ctx, page, v.pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		all = append(all, items...)
		if !more {
			return all, nil
		}
	}
	return nil, fmt.Errorf("fetch varieties: more than %d pages", maxPages)
}

// Create submits d and prepends the created record.
// The form is reset on success and kept for correction on failure.
func (v *View) Create(ctx context.Context, d variety.Draft) (variety.Variety, error) {
	if err := d.Validate(); err != nil {
		return variety.Variety{}, err
	}

	v.mu.Lock()
	if v.submitting {
		v.mu.Unlock()
		return variety.Variety{}, ErrSubmitting
	}
	v.submitting = true
	v.form = d
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.submitting = false
		v.mu.Unlock()
	}()

	var photo variety.Photo
	if d.Photo != nil {
		p, err := v.store.UploadPhoto(ctx, d.Photo)
		if err != nil {
			v.log.Error("failed to upload photo", logger.Err(err))
			return variety.Variety{}, fmt.Errorf("%w: %w", ErrCreateFailed, err)
		}
		photo = p
	}

	created, err := v.store.Create(ctx, d.Payload(photo))
	if err != nil {
		v.log.Error("failed to create variety", logger.Err(err))
		return variety.Variety{}, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	// бэкенд назначает grower сам, но в ответе на create связь не раскрыта
	if created.Grower == nil && !v.user.IsZero() {
		u := v.user
		created.Grower = &u
	}

	v.mu.Lock()
	v.items = append([]variety.Variety{created}, v.items...)
	v.form = variety.NewDraft()
	if v.tracking {
		rec := created
		v.journal = append(v.journal, mutation{created: &rec})
	}
	v.mu.Unlock()

	v.log.Info("variety created", "id", created.ID)
	return created, nil
}

// Delete removes the variety after confirmation. Nothing changes locally on failure.
func (v *View) Delete(ctx context.Context, id int) error {
	if !v.confirm.Confirm(MsgConfirmDelete) {
		return ErrDeleteCancelled
	}

	v.mu.Lock()
	if _, busy := v.deleting[id]; busy {
		v.mu.Unlock()
		return ErrSubmitting
	}
	v.deleting[id] = struct{}{}
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		delete(v.deleting, id)
		v.mu.Unlock()
	}()

	if err := v.store.Delete(ctx, id); err != nil {
		v.log.Error("failed to delete variety", "id", id, logger.Err(err))
		if manifest.IsPermission(err) {
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	v.mu.Lock()
	v.items = removeID(v.items, id)
	if v.tracking {
		v.journal = append(v.journal, mutation{deletedID: id})
	}
	v.mu.Unlock()

	v.log.Info("variety deleted", "id", id)
	return nil
}

// Items returns a copy of the current list.
func (v *View) Items() []variety.Variety {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]variety.Variety, len(v.items))
	copy(out, v.items)
	return out
}

func (v *View) Find(id int) (variety.Variety, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, it := range v.items {
		if it.ID == id {
			return it, true
		}
	}
	return variety.Variety{}, false
}

func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *View) Submitting() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submitting
}

// LastError is the error of the most recent Load, nil after a successful one.
func (v *View) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

func (v *View) Form() variety.Draft {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

func (v *View) SetForm(d variety.Draft) {
	v.mu.Lock()
	v.form = d
	v.mu.Unlock()
}

// CreateForm submits the current form.
func (v *View) CreateForm(ctx context.Context) (variety.Variety, error) {
	return v.Create(ctx, v.Form())
}

// User is the grower the view was created for.
func (v *View) User() user.User {
	return v.user
}

// replay applies mutations that finished during a fetch on top of its result.
func replay(items []variety.Variety, journal []mutation) []variety.Variety {
	for _, m := range journal {
		if m.created == nil {
			items = removeID(items, m.deletedID)
			continue
		}
		if !containsID(items, m.created.ID) {
			items = append([]variety.Variety{*m.created}, items...)
		}
	}
	return items
}

func removeID(items []variety.Variety, id int) []variety.Variety {
	kept := items[:0:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return kept
}

func containsID(items []variety.Variety, id int) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
