package explorer

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softfocus/internal/domain"
	"softfocus/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testTable(datasetID string) *domain.Table {
	return &domain.Table{
		DatasetID: datasetID,
		Columns: []domain.Column{
			{Name: "time", Values: []string{"1", "2", "3", "4"}},
			{Name: "temp", Values: []string{"20.5", "21.0", "bad", "22.5"}},
			{Name: "pressure", Values: []string{"3.1", "3.2", "3.3", "3.4"}},
		},
	}
}

func testLoader() *testutil.MockDatasetLoader {
	return &testutil.MockDatasetLoader{
		LoadFn: func(_ context.Context, datasetID string) (*domain.Table, error) {
			return testTable(datasetID), nil
		},
	}
}

func testWorkspace(loader domain.DatasetLoader) *Workspace {
	return newWorkspace(domain.NewID(), testIndex(), loader, discardLogger())
}

func openAlpha(t *testing.T, w *Workspace) *PlotSession {
	t.Helper()
	require.NoError(t, w.Select("alpha.csv"))
	s, err := w.OpenSession(context.Background(), "alpha.csv")
	require.NoError(t, err)
	return s
}

func TestWorkspaceSelectionInvalidation(t *testing.T) {
	t.Parallel()

	w := testWorkspace(testLoader())
	require.NoError(t, w.Select("alpha.csv"))
	assert.True(t, w.CanPlot())

	// A filter that excludes the selected dataset resets the selection and
	// disables plot-opening.
	require.NoError(t, w.SetNameFilter("gamma"))
	_, ok := w.Selection()
	assert.False(t, ok)
	assert.False(t, w.CanPlot())

	// A filter that keeps the selection leaves it alone.
	require.NoError(t, w.SetNameFilter(""))
	require.NoError(t, w.Select("beta.csv"))
	require.NoError(t, w.SetSizeSpec("100"))
	sel, ok := w.Selection()
	require.True(t, ok)
	assert.Equal(t, "beta.csv", sel)
}

func TestWorkspaceSelectNotInView(t *testing.T) {
	t.Parallel()

	w := testWorkspace(testLoader())
	require.NoError(t, w.SetNameFilter("alpha"))

	err := w.Select("beta.csv")
	var nferr *domain.NotFoundError
	require.ErrorAs(t, err, &nferr)
	assert.False(t, w.CanPlot())
}

func TestWorkspaceOpenSessionDefaults(t *testing.T) {
	t.Parallel()

	w := testWorkspace(testLoader())
	s := openAlpha(t, w)

	assert.Equal(t, "alpha.csv", s.DatasetID)
	assert.Equal(t, "time", s.Config.X, "x defaults to first column")
	assert.Equal(t, "temp", s.Config.YPrimary, "primary y defaults to second column")
	assert.Equal(t, domain.NoneColumn, s.Config.YSecondary)

	active, ok := w.ActiveSession()
	require.True(t, ok)
	assert.Same(t, s, active)
}

func TestWorkspaceOpenSessionIdempotent(t *testing.T) {
	t.Parallel()

	loader := testLoader()
	w := testWorkspace(loader)
	first := openAlpha(t, w)

	// Reopening reuses the session without re-loading — never a second tab.
	again, err := w.OpenSession(context.Background(), "alpha.csv")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Len(t, w.Sessions(), 1)
	assert.Equal(t, []string{"alpha.csv"}, loader.Calls, "data loaded exactly once")
}

func TestWorkspaceOpenSessionErrors(t *testing.T) {
	t.Parallel()

	t.Run("no selection", func(t *testing.T) {
		t.Parallel()
		w := testWorkspace(testLoader())
		_, err := w.OpenSession(context.Background(), "alpha.csv")
		var nserr *domain.NoSelectionError
		require.ErrorAs(t, err, &nserr)
	})

	t.Run("selection mismatch", func(t *testing.T) {
		t.Parallel()
		w := testWorkspace(testLoader())
		require.NoError(t, w.Select("beta.csv"))
		_, err := w.OpenSession(context.Background(), "alpha.csv")
		var nserr *domain.NoSelectionError
		require.ErrorAs(t, err, &nserr)
	})

	t.Run("load failure surfaces and creates no session", func(t *testing.T) {
		t.Parallel()
		loader := &testutil.MockDatasetLoader{
			LoadFn: func(_ context.Context, datasetID string) (*domain.Table, error) {
				return nil, domain.ErrLoad(datasetID, fmt.Errorf("disk gone"))
			},
		}
		w := testWorkspace(loader)
		require.NoError(t, w.Select("alpha.csv"))
		_, err := w.OpenSession(context.Background(), "alpha.csv")
		var lerr *domain.LoadError
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, "alpha.csv", lerr.DatasetID)
		assert.Empty(t, w.Sessions())
		assert.Equal(t, StateError, w.Status().State)
	})
}

func TestWorkspaceCloseSessionOrderAndFocus(t *testing.T) {
	t.Parallel()

	w := testWorkspace(testLoader())
	for _, id := range []string{"alpha.csv", "beta.csv", "gamma.csv"} {
		require.NoError(t, w.Select(id))
		_, err := w.OpenSession(context.Background(), id)
		require.NoError(t, err)
	}

	// gamma was opened last and has focus. Closing beta keeps the relative
	// order of the others and does not move focus.
	w.CloseSession("beta.csv")
	sessions := w.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "alpha.csv", sessions[0].DatasetID)
	assert.Equal(t, "gamma.csv", sessions[1].DatasetID)
	active, ok := w.ActiveSession()
	require.True(t, ok)
	assert.Equal(t, "gamma.csv", active.DatasetID)

	// Closing the active session falls back to the catalog view.
	w.CloseSession("gamma.csv")
	_, ok = w.ActiveSession()
	assert.False(t, ok)

	// Closing a session that does not exist is a no-op.
	w.CloseSession("gamma.csv")
	assert.Len(t, w.Sessions(), 1)
}

func TestWorkspaceStatusTransitions(t *testing.T) {
	t.Parallel()

	w := testWorkspace(testLoader())
	assert.Equal(t, StateReady, w.Status().State)

	openAlpha(t, w)
	assert.Equal(t, StateReady, w.Status().State, "busy reverts to ready on success")

	err := w.SetSizeSpec("nope")
	require.Error(t, err)
	st := w.Status()
	assert.Equal(t, StateError, st.State)
	assert.NotEmpty(t, st.Message)

	// The next successful action clears the error.
	require.NoError(t, w.SetNameFilter(""))
	assert.Equal(t, StateReady, w.Status().State)
}

func TestWorkspaceSetActive(t *testing.T) {
	t.Parallel()

	w := testWorkspace(testLoader())
	openAlpha(t, w)

	require.NoError(t, w.SetActive(""))
	_, ok := w.ActiveSession()
	assert.False(t, ok, "catalog view has focus")

	require.NoError(t, w.SetActive("alpha.csv"))
	active, ok := w.ActiveSession()
	require.True(t, ok)
	assert.Equal(t, "alpha.csv", active.DatasetID)

	err := w.SetActive("missing.csv")
	var nferr *domain.NotFoundError
	require.ErrorAs(t, err, &nferr)
}

func TestWorkspaceOrderedMutations(t *testing.T) {
	t.Parallel()

	// Mutations within one workspace are serialized; concurrent calls from
	// multiple goroutines must not race or corrupt state.
	w := testWorkspace(testLoader())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = w.SetNameFilter("alpha")
			_ = w.SetNameFilter("")
		}
	}()
	for i := 0; i < 50; i++ {
		_ = w.View()
		_, _ = w.Selection()
	}
	<-done

	require.NoError(t, w.SetNameFilter(""))
	assert.Len(t, w.View(), 3)
}
