package explorer

import (
	"errors"

	"softfocus/internal/domain"
)

var errNoColumns = errors.New("dataset has no columns")

// SetAxis updates one axis selection of the named session. The column must
// be one of the session's loaded columns; the sentinel "none" is accepted
// for the secondary y-axis only. It mutates the configuration in place and
// triggers no redraw — callers re-render after a batch of changes.
func (w *Workspace) SetAxis(datasetID string, role domain.AxisRole, column string) error {
	return w.run("set_axis", func() error {
		s, ok := w.sessions[datasetID]
		if !ok {
			return domain.ErrNotFound("no open session for %s", datasetID)
		}
		if !domain.ValidRole(role) {
			return domain.ErrValidation("unknown axis role %q", role)
		}
		if column == domain.NoneColumn {
			if role != domain.AxisYSecondary {
				return domain.ErrValidation("axis %s requires a column", role)
			}
			s.Config.YSecondary = domain.NoneColumn
			return nil
		}
		if _, ok := s.Table.Column(column); !ok {
			return domain.ErrValidation("dataset %s has no column %q", datasetID, column)
		}
		switch role {
		case domain.AxisX:
			s.Config.X = column
		case domain.AxisYPrimary:
			s.Config.YPrimary = column
		case domain.AxisYSecondary:
			s.Config.YSecondary = column
		}
		return nil
	})
}

// BuildPlotSpec produces the chart description for the named session:
// the primary series, an optional secondary series on an independent
// right-hand scale, and legend entries labeled by column name. With no
// secondary column the spec has exactly one series and no secondary scale.
func (w *Workspace) BuildPlotSpec(datasetID string) (*domain.PlotSpec, error) {
	var spec *domain.PlotSpec
	err := w.run("build_plot_spec", func() error {
		s, ok := w.sessions[datasetID]
		if !ok {
			return domain.ErrNotFound("no open session for %s", datasetID)
		}

		keep, err := rowMask(s.Table, s.Transform)
		if err != nil {
			return err
		}

		primary, err := materializeSeries(s.Table, s.Config.X, s.Config.YPrimary, keep)
		if err != nil {
			return err
		}
		spec = &domain.PlotSpec{
			DatasetID: s.DatasetID,
			XLabel:    s.Config.X,
			Primary:   *primary,
			Legend:    []string{s.Config.YPrimary},
		}
		if s.Config.YSecondary != domain.NoneColumn {
			secondary, err := materializeSeries(s.Table, s.Config.X, s.Config.YSecondary, keep)
			if err != nil {
				return err
			}
			spec.Secondary = secondary
			spec.Legend = append(spec.Legend, s.Config.YSecondary)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spec, nil
}

// materializeSeries pairs the x and y columns row by row, skipping rows
// where either value is non-numeric. keep is an optional row mask.
func materializeSeries(table *domain.Table, xName, yName string, keep []bool) (*domain.SeriesSpec, error) {
	xCol, ok := table.Column(xName)
	if !ok {
		return nil, domain.ErrValidation("dataset %s has no column %q", table.DatasetID, xName)
	}
	yCol, ok := table.Column(yName)
	if !ok {
		return nil, domain.ErrValidation("dataset %s has no column %q", table.DatasetID, yName)
	}

	series := &domain.SeriesSpec{Label: yName}
	rows := table.RowCount()
	for i := 0; i < rows; i++ {
		if keep != nil && (i >= len(keep) || !keep[i]) {
			continue
		}
		x, okX := xCol.Float(i)
		y, okY := yCol.Float(i)
		if !okX || !okY {
			continue
		}
		series.X = append(series.X, x)
		series.Y = append(series.Y, y)
	}
	return series, nil
}
