package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softfocus/internal/domain"
)

func TestSetTransformValidation(t *testing.T) {
	t.Parallel()

	w := testWorkspace(testLoader())
	openAlpha(t, w)

	require.NoError(t, w.SetTransform("alpha.csv", "pressure > 3.15"))
	expr, err := w.TransformOf("alpha.csv")
	require.NoError(t, err)
	assert.Equal(t, "pressure > 3.15", expr)

	// A non-parsing expression is rejected and the prior one retained.
	err = w.SetTransform("alpha.csv", "pressure >")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	expr, err = w.TransformOf("alpha.csv")
	require.NoError(t, err)
	assert.Equal(t, "pressure > 3.15", expr)

	// Empty clears the filter.
	require.NoError(t, w.SetTransform("alpha.csv", ""))
	expr, err = w.TransformOf("alpha.csv")
	require.NoError(t, err)
	assert.Empty(t, expr)
}

func TestBuildPlotSpecWithRowFilter(t *testing.T) {
	t.Parallel()

	w := testWorkspace(testLoader())
	openAlpha(t, w)
	require.NoError(t, w.SetAxis("alpha.csv", domain.AxisYPrimary, "pressure"))
	require.NoError(t, w.SetTransform("alpha.csv", "pressure > 3.15 and row < 3"))

	spec, err := w.BuildPlotSpec("alpha.csv")
	require.NoError(t, err)

	// Rows 1 and 2 pass the filter (pressure 3.2, 3.3); row 0 fails the
	// pressure bound and row 3 the index bound.
	assert.Equal(t, []float64{2, 3}, spec.Primary.X)
	assert.Equal(t, []float64{3.2, 3.3}, spec.Primary.Y)
}

func TestBuildPlotSpecBadReferenceInFilter(t *testing.T) {
	t.Parallel()

	w := testWorkspace(testLoader())
	openAlpha(t, w)
	// Parses fine, but references a name that is not a column.
	require.NoError(t, w.SetTransform("alpha.csv", "voltage > 1"))

	_, err := w.BuildPlotSpec("alpha.csv")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRowMaskStringColumns(t *testing.T) {
	t.Parallel()

	table := &domain.Table{
		DatasetID: "labels.csv",
		Columns: []domain.Column{
			{Name: "label", Values: []string{"ok", "fail", "ok"}},
			{Name: "v", Values: []string{"1", "2", "3"}},
		},
	}
	keep, err := rowMask(table, `label == "ok"`)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, keep)
}
