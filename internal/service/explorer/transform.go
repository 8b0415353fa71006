package explorer

import (
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"softfocus/internal/domain"
)

// SetTransform sets the session's Starlark row-filter expression. The
// expression sees each column as a variable (numeric values as floats,
// everything else as strings) plus the row index as `row`, and keeps the
// rows where it evaluates truthy. An expression that does not parse is a
// ValidationError and the prior expression is retained. Empty clears the
// filter.
func (w *Workspace) SetTransform(datasetID, expr string) error {
	return w.run("set_transform", func() error {
		s, ok := w.sessions[datasetID]
		if !ok {
			return domain.ErrNotFound("no open session for %s", datasetID)
		}
		if expr != "" {
			if _, err := syntax.ParseExpr("transform", expr, 0); err != nil {
				return domain.ErrValidation("transform expression: %v", err)
			}
		}
		s.Transform = expr
		return nil
	})
}

// rowMask evaluates the filter expression against every row and returns the
// keep mask, or nil when no expression is set. An evaluation failure (e.g. a
// name that is not a column) surfaces as a ValidationError for the user.
func rowMask(table *domain.Table, expr string) ([]bool, error) {
	if expr == "" {
		return nil, nil
	}

	thread := &starlark.Thread{Name: "transform"}
	rows := table.RowCount()
	keep := make([]bool, rows)
	for i := 0; i < rows; i++ {
		env := starlark.StringDict{"row": starlark.MakeInt(i)}
		for _, col := range table.Columns {
			env[col.Name] = cellValue(col, i)
		}
		v, err := starlark.Eval(thread, "transform", expr, env)
		if err != nil {
			return nil, domain.ErrValidation("transform expression at row %d: %v", i, err)
		}
		keep[i] = bool(v.Truth())
	}
	return keep, nil
}

// cellValue converts one cell to a Starlark value: float when numeric,
// string otherwise. Out-of-range rows become empty strings.
func cellValue(col domain.Column, i int) starlark.Value {
	if i >= len(col.Values) {
		return starlark.String("")
	}
	raw := col.Values[i]
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return starlark.Float(f)
	}
	return starlark.String(raw)
}

// TransformOf returns the session's current filter expression.
func (w *Workspace) TransformOf(datasetID string) (string, error) {
	s, ok := w.Session(datasetID)
	if !ok {
		return "", domain.ErrNotFound("no open session for %s", datasetID)
	}
	return s.Transform, nil
}
