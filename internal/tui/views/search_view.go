package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/dkoval/chatik/internal/remote"
)

// SearchView is the user search screen: a query input on top and a
// results table below. Results already in the contact list are marked.
type SearchView struct {
	*tview.Flex
	input   *tview.InputField
	results *tview.Table

	hits    []remote.SearchResult
	onQuery func(query string)
}

func NewSearchView() *SearchView {
	v := &SearchView{}

	v.input = tview.NewInputField().
		SetLabel(" Search: ").
		SetFieldWidth(0)
	v.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && v.onQuery != nil {
			v.onQuery(v.input.GetText())
		}
	})

	v.results = tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	v.results.SetBorder(true).SetTitle(" Results ")

	v.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.input, 1, 0, true).
		AddItem(v.results, 0, 1, false)

	return v
}

func (v *SearchView) SetOnQuery(fn func(query string)) {
	v.onQuery = fn
}

// Input returns the query field for focusing.
func (v *SearchView) Input() *tview.InputField {
	return v.input
}

// Results returns the results table for focusing.
func (v *SearchView) Results() *tview.Table {
	return v.results
}

func (v *SearchView) Update(hits []remote.SearchResult) {
	v.hits = hits
	v.results.Clear()

	v.results.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	v.results.SetCell(0, 1, tview.NewTableCell(" Username").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	v.results.SetCell(0, 2, tview.NewTableCell(" Contact").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, hit := range hits {
		name := hit.Name()
		if hit.IsVerified {
			name += " ✓"
		}
		mark := ""
		if hit.IsContact {
			mark = "[green]saved[-]"
		}
		v.results.SetCell(i+1, 0, tview.NewTableCell(" "+tview.Escape(name)).SetMaxWidth(30).SetExpansion(1))
		v.results.SetCell(i+1, 1, tview.NewTableCell(" @"+tview.Escape(hit.Username)).SetMaxWidth(20).SetExpansion(1))
		v.results.SetCell(i+1, 2, tview.NewTableCell(" "+mark).SetMaxWidth(10))
	}

	if len(hits) > 0 {
		v.results.Select(1, 0)
	}
}

// Selected returns the search hit under the cursor.
func (v *SearchView) Selected() (remote.SearchResult, bool) {
	row, _ := v.results.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(v.hits) {
		return remote.SearchResult{}, false
	}
	return v.hits[idx], true
}
