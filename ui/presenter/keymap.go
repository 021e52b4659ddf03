package presenter

import "github.com/soocke/crop-annotator/domain/session"

// keymap binds Tk keysyms to session commands.
var keymap = map[string]session.Command{
	"a":            session.Simple(session.CmdNewCrop),
	"z":            session.Simple(session.CmdUndo),
	"s":            session.Simple(session.CmdSave),
	"q":            session.Simple(session.CmdQuit),
	"Right":        session.Simple(session.CmdNextImage),
	"d":            session.Simple(session.CmdNextImage),
	"Left":         session.Simple(session.CmdPrevImage),
	"b":            session.Simple(session.CmdPrevImage),
	"Tab":          session.Simple(session.CmdNextCrop),
	"Down":         session.Simple(session.CmdNextCrop),
	"ISO_Left_Tab": session.Simple(session.CmdPrevCrop),
	"Up":           session.Simple(session.CmdPrevCrop),
}

// CommandForKey returns the command bound to keysym. Digits 1..9 select labels.
func CommandForKey(keysym string) (session.Command, bool) {
	if len(keysym) == 1 && keysym[0] >= '1' && keysym[0] <= '9' {
		return session.SetLabel(int(keysym[0] - '0')), true
	}
	cmd, ok := keymap[keysym]
	return cmd, ok
}
