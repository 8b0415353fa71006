package explorer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"softfocus/internal/domain"
)

// Status is the user-visible workspace state: "ready", "working" during a
// blocking operation, or "error" with a short message. The contract is
// busy -> ready | error, never stuck busy.
type Status struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

const (
	StateReady   = "ready"
	StateWorking = "working"
	StateError   = "error"
)

// PlotSession is the per-dataset plotting state nested within a workspace:
// the exclusively-owned loaded columns, the axis selections, and an optional
// row-filter expression. At most one exists per dataset.
type PlotSession struct {
	DatasetID string
	Table     *domain.Table
	Config    domain.PlotConfig
	// Transform is a Starlark row-filter expression applied when building
	// the plot spec; empty means no filtering.
	Transform string
	CreatedAt time.Time
}

// Workspace is one user session's mutable exploration state: filter,
// selection, and ordered plot sessions. All mutations are serialized by a
// mutex scoped to this workspace only, so a blocking load stalls no other
// user session and not the cleanup scheduler.
type Workspace struct {
	ID string

	mu        sync.Mutex
	filter    *FilterState
	selection string // dataset id, "" when none
	sessions  map[string]*PlotSession
	order     []string // dataset ids in session-creation order
	active    string   // focused session's dataset id, "" = catalog view
	status    Status

	loader domain.DatasetLoader
	logger *slog.Logger

	createdAt time.Time
	lastUsed  atomic.Value // stores time.Time
	closing   atomic.Bool
}

func newWorkspace(id string, index []domain.DatasetDescriptor, loader domain.DatasetLoader, logger *slog.Logger) *Workspace {
	now := time.Now()
	w := &Workspace{
		ID:        id,
		filter:    NewFilterState(index),
		sessions:  make(map[string]*PlotSession),
		status:    Status{State: StateReady},
		loader:    loader,
		logger:    logger,
		createdAt: now,
	}
	w.setLastUsed(now)
	return w
}

func (w *Workspace) getLastUsed() time.Time {
	if v := w.lastUsed.Load(); v != nil {
		return v.(time.Time)
	}
	return w.createdAt
}

func (w *Workspace) setLastUsed(t time.Time) {
	w.lastUsed.Store(t)
}

// Status returns the current user-visible state.
func (w *Workspace) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// run executes one named user action under the workspace lock, driving the
// status through working -> ready | error and logging failures with enough
// context to diagnose. Errors are returned to the caller, never escalated.
func (w *Workspace) run(action string, fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setLastUsed(time.Now())

	w.status = Status{State: StateWorking}
	if err := fn(); err != nil {
		w.logger.Warn("action failed", "action", action, "workspace", w.ID, "error", err)
		w.status = Status{State: StateError, Message: err.Error()}
		return err
	}
	w.status = Status{State: StateReady}
	return nil
}

// invalidateSelection clears the selection when the filtered view no longer
// contains it. Caller holds the lock.
func (w *Workspace) invalidateSelection() {
	if w.selection != "" && !w.filter.Contains(w.selection) {
		w.selection = ""
	}
}

// SetDateRange updates the filter's date bounds and recomputes the view.
func (w *Workspace) SetDateRange(from, to time.Time) error {
	return w.run("set_date_range", func() error {
		if err := w.filter.SetDateRange(from, to); err != nil {
			return err
		}
		w.invalidateSelection()
		return nil
	})
}

// SetSizeSpec updates the size constraint; bad input keeps the prior spec.
func (w *Workspace) SetSizeSpec(input string) error {
	return w.run("set_size_spec", func() error {
		if err := w.filter.SetSizeSpec(input); err != nil {
			return err
		}
		w.invalidateSelection()
		return nil
	})
}

// SetNameFilter updates the name substring filter.
func (w *Workspace) SetNameFilter(text string) error {
	return w.run("set_name_filter", func() error {
		w.filter.SetNameFilter(text)
		w.invalidateSelection()
		return nil
	})
}

// Filter returns the current filter predicate state.
func (w *Workspace) Filter() domain.CatalogFilter {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filter.Filter()
}

// View returns the current filtered catalog view.
func (w *Workspace) View() []domain.DatasetDescriptor {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setLastUsed(time.Now())
	return w.filter.View()
}

// Select picks one catalog row. The dataset must be present in the current
// filtered view.
func (w *Workspace) Select(datasetID string) error {
	return w.run("select", func() error {
		if !w.filter.Contains(datasetID) {
			return domain.ErrNotFound("dataset %s is not in the current view", datasetID)
		}
		w.selection = datasetID
		return nil
	})
}

// Deselect clears the selection.
func (w *Workspace) Deselect() error {
	return w.run("deselect", func() error {
		w.selection = ""
		return nil
	})
}

// Selection returns the selected dataset id, or false when none.
func (w *Workspace) Selection() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection, w.selection != ""
}

// CanPlot reports whether a plot can be opened (a selection exists).
func (w *Workspace) CanPlot() bool {
	_, ok := w.Selection()
	return ok
}

// OpenSession opens the plotting session for the selected dataset. It
// requires a selection matching datasetID. If a session for the dataset
// already exists it is reused without re-loading — reopening never
// duplicates a tab. Default axes: x = first column, y = second column,
// secondary y = none.
func (w *Workspace) OpenSession(ctx context.Context, datasetID string) (*PlotSession, error) {
	var out *PlotSession
	err := w.run("open_session", func() error {
		if w.selection == "" {
			return domain.ErrNoSelection("no dataset selected")
		}
		if w.selection != datasetID {
			return domain.ErrNoSelection("selection is %s, not %s", w.selection, datasetID)
		}

		if s, ok := w.sessions[datasetID]; ok {
			w.active = datasetID
			out = s
			return nil
		}

		table, err := w.loader.Load(ctx, datasetID)
		if err != nil {
			return err
		}
		if w.closing.Load() {
			// Workspace was reaped while loading; the result is discarded.
			return domain.ErrNotFound("workspace %s is closing", w.ID)
		}
		cols := table.ColumnNames()
		if len(cols) < 1 {
			return domain.ErrLoad(datasetID, errNoColumns)
		}
		cfg := domain.PlotConfig{X: cols[0], YPrimary: cols[0], YSecondary: domain.NoneColumn}
		if len(cols) > 1 {
			cfg.YPrimary = cols[1]
		}
		s := &PlotSession{
			DatasetID: datasetID,
			Table:     table,
			Config:    cfg,
			CreatedAt: time.Now(),
		}
		w.sessions[datasetID] = s
		w.order = append(w.order, datasetID)
		w.active = datasetID
		w.logger.Info("session opened", "workspace", w.ID, "dataset", datasetID, "columns", len(cols))
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CloseSession removes the session and frees its loaded data. A missing
// session is a no-op, not an error. Closing preserves the relative order of
// the remaining sessions; when the active session is closed, focus falls
// back to the catalog view.
func (w *Workspace) CloseSession(datasetID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setLastUsed(time.Now())

	if _, ok := w.sessions[datasetID]; !ok {
		return
	}
	delete(w.sessions, datasetID)
	for i, id := range w.order {
		if id == datasetID {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.active == datasetID {
		w.active = ""
	}
	w.logger.Info("session closed", "workspace", w.ID, "dataset", datasetID)
}

// Session returns the session for the dataset, or false when absent.
func (w *Workspace) Session(datasetID string) (*PlotSession, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sessions[datasetID]
	return s, ok
}

// Sessions returns the open sessions in creation order.
func (w *Workspace) Sessions() []*PlotSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*PlotSession, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.sessions[id])
	}
	return out
}

// ActiveSession returns the focused session, or false when the catalog view
// has focus. Axis changes and exports are routed here so callers need not
// pass an id.
func (w *Workspace) ActiveSession() (*PlotSession, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == "" {
		return nil, false
	}
	s, ok := w.sessions[w.active]
	return s, ok
}

// SetActive moves focus to the named session, or to the catalog view when
// datasetID is empty.
func (w *Workspace) SetActive(datasetID string) error {
	return w.run("set_active", func() error {
		if datasetID == "" {
			w.active = ""
			return nil
		}
		if _, ok := w.sessions[datasetID]; !ok {
			return domain.ErrNotFound("no open session for %s", datasetID)
		}
		w.active = datasetID
		return nil
	})
}
