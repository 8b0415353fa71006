package domain

// NoneColumn is the sentinel for an unset secondary y-axis.
const NoneColumn = "none"

// AxisRole names one of the three configurable plot axes.
type AxisRole string

const (
	AxisX          AxisRole = "x"
	AxisYPrimary   AxisRole = "yPrimary"
	AxisYSecondary AxisRole = "ySecondary"
)

// ValidRole reports whether the role is one of the three known axes.
func ValidRole(role AxisRole) bool {
	switch role {
	case AxisX, AxisYPrimary, AxisYSecondary:
		return true
	}
	return false
}

// PlotConfig holds a session's axis selections. YSecondary is NoneColumn
// when no secondary series is drawn.
type PlotConfig struct {
	X          string `json:"x"`
	YPrimary   string `json:"y_primary"`
	YSecondary string `json:"y_secondary"`
}

// SeriesSpec is one plotted line: row-aligned x/y value pairs labeled by the
// y column's name. Rows where either value is non-numeric are omitted.
type SeriesSpec struct {
	Label string    `json:"label"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

// PlotSpec describes a chart for the external rendering surface: a primary
// series, an optional secondary series on an independent right-hand scale,
// and legend entries labeled by column name. When Secondary is nil the
// renderer must not allocate a second axis range.
type PlotSpec struct {
	DatasetID string      `json:"dataset_id"`
	XLabel    string      `json:"x_label"`
	Primary   SeriesSpec  `json:"primary"`
	Secondary *SeriesSpec `json:"secondary,omitempty"`
	Legend    []string    `json:"legend"`
}
