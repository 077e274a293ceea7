package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/goinglive/internal/client/client"
)

func (a *App) commands() []command {
	cmds := []command{
		{name: "login", usage: "login [username]", help: "authenticate", public: true, run: a.loginCommand},
		{name: "status", usage: "status", help: "show connection, user and course state", public: true, run: a.statusCommand},
		{name: "logout", usage: "logout", help: "log out and wipe local state of the open course", run: a.logoutCommand},
		{name: "open", usage: "open <course-id>", help: "start editing a course", run: a.openCommand},
		{name: "show", usage: "show", help: "print the content tree of the active tab", run: a.showCommand},
		{name: "addsection", usage: "addsection [title]", help: "append a section", run: a.addSectionCommand},
		{name: "title", usage: "title <section-id> [title]", help: "rename a section", run: a.titleCommand},
		{name: "delsection", usage: "delsection <section-id>", help: "delete a section and its elements", run: a.deleteSectionCommand},
		{name: "movesection", usage: "movesection <from> <to>", help: "reorder sections", run: a.moveSectionCommand},
		{name: "add", usage: "add <type> <section-id> [position]", help: "add a text, image or attachment element", run: a.addElementCommand},
		{name: "edit", usage: "edit <element-id>", help: "replace the HTML of a text element", run: a.editCommand},
		{name: "delete", usage: "delete <element-id>", help: "delete an element", run: a.deleteElementCommand},
		{name: "move", usage: "move <element-id> <to>", help: "move an element within its section", run: a.moveElementCommand},
		{name: "upload", usage: "upload <element-id> <path> [public]", help: "select a file for a media element", run: a.uploadCommand},
		{name: "pending", usage: "pending", help: "list queued uploads", run: a.pendingCommand},
		{name: "save", usage: "save", help: "upload queued files and commit the course", run: a.saveCommand},
		{name: "reset", usage: "reset", help: "discard unsaved changes", run: a.resetCommand},
		{name: "tab", usage: "tab [section-id|sections]", help: "show or switch the active tab", run: a.tabCommand},
		{name: "media", usage: "media", help: "list uploaded media of the course", run: a.mediaCommand},
	}
	for i := range cmds {
		cmds[i].run = a.guard(cmds[i].run)
	}
	return cmds
}

// guard drops the local login when the server no longer accepts the token.
func (a *App) guard(run func(context.Context, []string) error) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		err := run(ctx, args)
		switch {
		case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrNoSession):
			a.mu.Lock()
			a.profile = nil
			a.mu.Unlock()
			return errors.Join(err, errors.New("session expired, please log in again"))
		case errors.Is(err, client.ErrUnavailable):
			a.setMode(ModeOffline)
		}
		return err
	}
}
