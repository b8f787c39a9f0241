package state

import "strings"

// Panel is a bit set of dashboard windows.
type Panel uint8

const (
	PanelLogin Panel = 1 << iota
	PanelAccount
	PanelSessions
	PanelDevice
	PanelData
)

const panelsLoggedIn = PanelLogin | PanelAccount | PanelSessions | PanelDevice | PanelData

var panelNames = []struct {
	p    Panel
	name string
}{
	{PanelLogin, "login"},
	{PanelAccount, "account"},
	{PanelSessions, "sessions"},
	{PanelDevice, "device"},
	{PanelData, "data"},
}

// LayoutFor derives the visible panels from the login state.
// The login panel is always shown; everything else requires a user.
func LayoutFor(s Snapshot) Panel {
	if !s.LoggedIn {
		return PanelLogin
	}
	return panelsLoggedIn
}

func (p Panel) Has(q Panel) bool { return p&q == q }

func (p Panel) String() string {
	var names []string
	for _, n := range panelNames {
		if p.Has(n.p) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}
