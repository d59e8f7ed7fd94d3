package crud

import "html/template"

// ActionsKey is the reserved column key for per-row actions.
const ActionsKey = "actions"

// SkeletonRows is how many placeholder rows a loading table shows.
const SkeletonRows = 3

// Column describes one table column. Header is a translation code.
type Column[T any] struct {
	Key       string
	Header    string
	ClassName string
	Cell      func(T) template.HTML
}

// Table renders rows of T. When both EditHref and DeleteHref are set the
// actions column shows the standard edit/delete buttons; otherwise the
// column's own Cell is used. An actions column without a Cell falls back to
// whichever standard button is set.
type Table[T any] struct {
	Columns    []Column[T]
	ItemID     func(T) int64
	EditHref   func(T) string
	DeleteHref func(T) string
	// Empty replaces the standard "no items" placeholder when set.
	Empty template.HTML
}

// HeaderView is one rendered header cell.
type HeaderView struct {
	Label     string
	ClassName string
}

// ActionsView holds the standard buttons of one row.
type ActionsView struct {
	EditHref   string
	DeleteHref string
}

// CellView is one rendered cell. Exactly one of HTML or Actions is used.
type CellView struct {
	ClassName string
	HTML      template.HTML
	Actions   *ActionsView
}

// RowView is one rendered row.
type RowView struct {
	ID    int64
	Cells []CellView
}

// TableView is the render model handed to the "table" template. Skeleton
// rows are always emitted; they are visible only while a refresh is in
// flight, or at once when Loading is set.
type TableView struct {
	Headers   []HeaderView
	Rows      []RowView
	Loading   bool
	Skeleton  []int
	Empty     bool
	EmptyHTML template.HTML
}

// ColumnCount is used for colspans.
func (v TableView) ColumnCount() int { return len(v.Headers) }

func (t Table[T]) className(c Column[T]) string {
	if c.Key == ActionsKey {
		if c.ClassName == "" {
			return "text-end"
		}
		return "text-end " + c.ClassName
	}
	return c.ClassName
}

// View renders items into a TableView.
func (t Table[T]) View(items []T, loading bool) TableView {
	v := TableView{Loading: loading, EmptyHTML: t.Empty, Skeleton: make([]int, SkeletonRows)}
	for _, c := range t.Columns {
		v.Headers = append(v.Headers, HeaderView{Label: c.Header, ClassName: t.className(c)})
	}
	if loading {
		return v
	}
	if len(items) == 0 {
		v.Empty = true
		return v
	}
	standard := t.EditHref != nil && t.DeleteHref != nil
	for _, it := range items {
		row := RowView{}
		if t.ItemID != nil {
			row.ID = t.ItemID(it)
		}
		for _, c := range t.Columns {
			cell := CellView{ClassName: t.className(c)}
			switch {
			case c.Key == ActionsKey && standard:
				cell.Actions = &ActionsView{EditHref: t.EditHref(it), DeleteHref: t.DeleteHref(it)}
			case c.Cell != nil:
				cell.HTML = c.Cell(it)
			case c.Key == ActionsKey:
				cell.Actions = t.partialActions(it)
			}
			row.Cells = append(row.Cells, cell)
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func (t Table[T]) partialActions(it T) *ActionsView {
	switch {
	case t.EditHref != nil:
		return &ActionsView{EditHref: t.EditHref(it)}
	case t.DeleteHref != nil:
		return &ActionsView{DeleteHref: t.DeleteHref(it)}
	}
	return nil
}
