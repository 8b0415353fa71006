package ui

import (
	"fmt"
	"strconv"
	"strings"

	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"

	"softfocus/internal/domain"
	"softfocus/internal/service/explorer"
)

// appPage is the common shell: a tab bar with the catalog view and one tab
// per open plot session, then the page body.
func appPage(title string, ws *explorer.Workspace, body ...Node) Node {
	active, _ := ws.ActiveSession()
	tabs := []Node{tabLink("Catalog", "/ui", active == nil)}
	for _, s := range ws.Sessions() {
		tabs = append(tabs, Div(Class("tab-with-close"),
			tabLink(s.DatasetID, sessionURL(s.DatasetID), active != nil && active.DatasetID == s.DatasetID),
			Form(Method("post"), Action(sessionURL(s.DatasetID)+"/close"),
				Button(Type("submit"), Class("btn btn-sm tab-close"), Aria("label", "close "+s.DatasetID), Text("x")),
			),
		))
	}

	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | SoftFocus")),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href("/ui/static/app.css")),
			Script(
				Type("module"),
				Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js"),
			),
		),
		Body(
			Main(Class("app-shell"),
				Div(Class("topbar"),
					H1(Class("page-title"), Text(title)),
					statusBadge(ws.Status()),
				),
				Nav(Class("tab-bar"), Group(tabs)),
				Div(Class("content"), Group(body)),
			),
		),
	)
}

func tabLink(label, href string, active bool) Node {
	className := "tab-link"
	if active {
		className += " active"
	}
	return A(Href(href), Class(className), Text(label))
}

func statusBadge(st explorer.Status) Node {
	tone := map[string]string{
		explorer.StateReady:   "success",
		explorer.StateWorking: "attention",
		explorer.StateError:   "danger",
	}[st.State]
	label := st.State
	if st.Message != "" {
		label += ": " + st.Message
	}
	return Span(Class("Label Label--"+tone), Text(label))
}

func catalogPage(ws *explorer.Workspace) Node {
	f := ws.Filter()
	selection, _ := ws.Selection()
	view := ws.View()

	rows := make([]Node, 0, len(view))
	for _, d := range view {
		rows = append(rows, catalogRow(d, d.Name == selection))
	}

	sizeValue := ""
	if f.Size != nil {
		sizeValue = f.Size.String()
	}

	return appPage("Catalog", ws,
		Div(Class("card filter-card"),
			Form(Method("post"), Action("/ui/filter"), Class("filter-form"),
				Label(Text("From"), Input(Type("date"), Name("from"), Value(f.From.Format(dateLayout)))),
				Label(Text("To"), Input(Type("date"), Name("to"), Value(f.To.Format(dateLayout)))),
				Label(Text("Size (kB)"), Input(Type("text"), Name("size"), Value(sizeValue), Placeholder("100 or 10..200"))),
				Label(Text("Name"), Input(Type("text"), Name("name"), Value(f.Name))),
				Button(Type("submit"), Class("btn btn-primary"), Text("Apply")),
			),
		),
		Div(
			data.Signals(map[string]any{"q": ""}),
			Div(Class("card"),
				Label(Text("Quick filter")),
				Input(Type("search"), data.Bind("q"), Placeholder("Narrow the visible rows"), AutoComplete("off")),
			),
			Div(Class("card table-wrap"),
				Table(
					THead(Tr(
						Th(Text("Dataset")),
						Th(Text("Size (kB)")),
						Th(Text("Modified")),
						Th(Text("Columns")),
						Th(Text("")),
					)),
					TBody(Group(rows)),
				),
			),
		),
		openPlotCard(ws, selection),
	)
}

func catalogRow(d domain.DatasetDescriptor, selected bool) Node {
	className := ""
	if selected {
		className = "selected"
	}
	columns := strconv.Itoa(d.ColumnCount)
	if d.Incomplete {
		columns = "?"
	}
	return Tr(
		Class(className),
		data.Show(containsExpr(d.Name)),
		Td(Text(d.Name)),
		Td(Text(strconv.FormatInt(d.SizeKB(), 10))),
		Td(Text(d.ModifiedAt.Format("2006-01-02 15:04"))),
		Td(Text(columns)),
		Td(Form(Method("post"), Action("/ui/select"),
			Input(Type("hidden"), Name("dataset"), Value(d.Name)),
			Button(Type("submit"), Class("btn btn-sm"), Text("Select")),
		)),
	)
}

func openPlotCard(ws *explorer.Workspace, selection string) Node {
	if !ws.CanPlot() {
		return Div(Class("card"),
			P(Class("color-fg-muted"), Text("Select a dataset to open a plot session.")),
		)
	}
	return Div(Class("card"),
		Form(Method("post"), Action("/ui/sessions/open"),
			Input(Type("hidden"), Name("dataset"), Value(selection)),
			Button(Type("submit"), Class("btn btn-primary"), Text("Plot "+selection)),
		),
	)
}

func sessionPage(ws *explorer.Workspace, s *explorer.PlotSession, spec *domain.PlotSpec) Node {
	cols := s.Table.ColumnNames()

	body := []Node{
		Div(Class("card axis-card"),
			axisForm(s, domain.AxisX, "X axis", s.Config.X, cols, false),
			axisForm(s, domain.AxisYPrimary, "Y axis", s.Config.YPrimary, cols, false),
			axisForm(s, domain.AxisYSecondary, "Second Y axis", s.Config.YSecondary, cols, true),
		),
		Div(Class("card"),
			Form(Method("post"), Action(sessionURL(s.DatasetID)+"/transform"),
				Label(Text("Row filter"),
					Input(Type("text"), Name("expression"), Value(s.Transform), Placeholder(`e.g. pressure > 3.15 and row < 100`)),
				),
				Button(Type("submit"), Class("btn btn-sm"), Text("Apply")),
			),
		),
	}
	if spec != nil {
		body = append(body, plotCard(spec))
	}
	body = append(body, Div(Class("card export-card"),
		Form(Method("post"), Action("/ui/export"),
			Input(Type("hidden"), Name("dataset"), Value(s.DatasetID)),
			Button(Type("submit"), Class("btn btn-primary"), Text("Export to Excel")),
		),
		A(Href("/ui/download"), Class("btn"), Text("Download last export")),
	))

	return appPage(s.DatasetID, ws, body...)
}

func axisForm(s *explorer.PlotSession, role domain.AxisRole, label, current string, cols []string, allowNone bool) Node {
	options := make([]Node, 0, len(cols)+1)
	if allowNone {
		options = append(options, Option(Value(domain.NoneColumn), Text(domain.NoneColumn), If(current == domain.NoneColumn, Selected())))
	}
	for _, c := range cols {
		options = append(options, Option(Value(c), Text(c), If(c == current, Selected())))
	}
	return Form(Method("post"), Action(sessionURL(s.DatasetID)+"/axes"), Class("axis-form"),
		Input(Type("hidden"), Name("role"), Value(string(role))),
		Label(Text(label), Select(Name("column"), Group(options))),
		Button(Type("submit"), Class("btn btn-sm"), Text("Set")),
	)
}

// plotCard renders the plotted series as an inline SVG line chart. The
// browser needs no plotting library for a static view; the numbers are also
// listed underneath for exact reading.
func plotCard(spec *domain.PlotSpec) Node {
	nodes := []Node{
		H2(Text(spec.XLabel + " vs " + strings.Join(spec.Legend, ", "))),
		plotSVG(spec),
	}
	nodes = append(nodes, seriesSummary(spec.Primary))
	if spec.Secondary != nil {
		nodes = append(nodes, seriesSummary(*spec.Secondary))
	}
	return Div(Class("card plot-card"), Group(nodes))
}

func seriesSummary(s domain.SeriesSpec) Node {
	return P(Class("color-fg-muted text-small"),
		Text(fmt.Sprintf("%s: %d points", s.Label, len(s.X))),
	)
}

const (
	plotWidth  = 640.0
	plotHeight = 320.0
)

func plotSVG(spec *domain.PlotSpec) Node {
	lines := []Node{
		polyline(spec.Primary, "series-primary"),
	}
	if spec.Secondary != nil {
		lines = append(lines, polyline(*spec.Secondary, "series-secondary"))
	}
	return SVG(
		Attr("viewBox", fmt.Sprintf("0 0 %.0f %.0f", plotWidth, plotHeight)),
		Attr("preserveAspectRatio", "none"),
		Class("plot"),
		Group(lines),
	)
}

// polyline scales one series into the SVG viewport. A series with fewer than
// two points renders nothing.
func polyline(s domain.SeriesSpec, class string) Node {
	if len(s.X) < 2 {
		return Text("")
	}
	minX, maxX := minMax(s.X)
	minY, maxY := minMax(s.Y)
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	var b strings.Builder
	for i := range s.X {
		x := (s.X[i] - minX) / spanX * plotWidth
		y := plotHeight - (s.Y[i]-minY)/spanY*plotHeight
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}
	return El("polyline",
		Attr("points", b.String()),
		Attr("fill", "none"),
		Class(class),
	)
}

func minMax(vs []float64) (float64, float64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func containsExpr(value string) string {
	lower := strings.ToLower(value)
	return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
}
