package cli

import (
	"testing"

	"github.com/alexanderramin/estimator/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to appModel internals.
type TestDriver struct {
	*teatest.Driver
	app *App
}

// NewTestDriver builds the appModel over app, sets the terminal size and
// drains Init, which loads the project list.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d, app: app}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// StoreChanged delivers the message the running program receives after a
// store write.
func (d *TestDriver) StoreChanged() {
	d.T.Helper()
	d.Send(storeChangedMsg{})
}
