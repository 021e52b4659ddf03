package assets

import (
	_ "embed"
	"strings"
)

// KeysTXT lists the key bindings, one "keys<TAB>action" pair per line.
//
//go:embed keys.txt
var KeysTXT string

// Binding is one documented key binding.
type Binding struct {
	Keys   string
	Action string
}

// KeyBindings parses the embedded key reference.
func KeyBindings() []Binding {
	var out []Binding
	for _, line := range strings.Split(KeysTXT, "\n") {
		keys, action, ok := strings.Cut(strings.TrimRight(line, "\r"), "\t")
		if !ok || keys == "" {
			continue
		}
		out = append(out, Binding{Keys: keys, Action: action})
	}
	return out
}

// KeyHelp renders the key reference as aligned text for terminal help output.
func KeyHelp() string {
	var b strings.Builder
	for _, kb := range KeyBindings() {
		b.WriteString("  ")
		b.WriteString(kb.Keys)
		b.WriteString(strings.Repeat(" ", max(2, 20-len(kb.Keys))))
		b.WriteString(kb.Action)
		b.WriteByte('\n')
	}
	return b.String()
}
