package popup

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Today   key.Binding
	Date    key.Binding
	Copy    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Alarm   key.Binding
	VolUp   key.Binding
	VolDown key.Binding
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
	Yes     key.Binding
	No      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Date:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "pick date")),
		Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy mode")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Alarm:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "alarm")),
		VolUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Confirm: key.NewBinding(key.WithKeys("enter")),
		Cancel:  key.NewBinding(key.WithKeys("esc")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc")),
	}
}

func (k keyMap) helpLine() string {
	out := ""
	for _, b := range []key.Binding{k.Today, k.Date, k.Copy, k.Add, k.Delete, k.Refresh, k.Alarm, k.VolUp, k.VolDown, k.Quit} {
		h := b.Help()
		if out != "" {
			out += " • "
		}
		out += h.Key + " " + h.Desc
	}
	return out
}
