package ui

import (
	"context"
	"time"

	"github.com/vanderheijden86/jsonview/pkg/debug"
	"github.com/vanderheijden86/jsonview/pkg/viewstate"
)

const stateTimeout = 2 * time.Second

// restoreViewState applies remembered collapse state and cursor for the open
// file. Without remembered state the configured collapse depth applies.
func (m *Model) restoreViewState() {
	doc := m.session.Document()
	if doc == nil {
		return
	}
	if m.store != nil && m.cfg.Editor.RememberCollapsed {
		ctx, cancel := context.WithTimeout(context.Background(), stateTimeout)
		defer cancel()
		st, ok, err := m.store.Load(ctx, m.session.Path())
		if err != nil {
			debug.Warn("view state unavailable", "err", err)
		}
		if ok {
			n := doc.ApplyCollapsed(st.Collapsed)
			debug.Log("restored %d collapsed containers for %s", n, st.File)
			m.tree.SelectByPath(st.Cursor)
			return
		}
	}
	if m.cfg.UI.CollapseDepth > 0 {
		m.tree.CollapseDepth(m.cfg.UI.CollapseDepth)
	}
}

// saveViewState remembers collapse state and cursor for the open file.
func (m *Model) saveViewState() {
	doc := m.session.Document()
	if m.store == nil || !m.cfg.Editor.RememberCollapsed || doc == nil || m.session.Path() == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stateTimeout)
	defer cancel()
	err := m.store.Save(ctx, viewstate.State{
		File:      m.session.Path(),
		Collapsed: doc.CollapsedPaths(),
		Cursor:    m.tree.SelectedPath(),
	})
	if err != nil {
		debug.Warn("saving view state failed", "err", err)
	}
}
