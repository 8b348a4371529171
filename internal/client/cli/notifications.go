package cli

import (
	"context"
	"fmt"
)

func (a *App) Notifications(ctx context.Context) error {
	unread := a.poller.Unread()
	if len(unread) == 0 {
		fmt.Fprintln(a.out, "No unread notifications")
		return nil
	}
	for _, n := range unread {
		fmt.Fprintf(a.out, "  [%s] %s  %s\n", n.ID, n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Message)
	}
	return nil
}

// Read marks one notification as read. It disappears from the list even if
// the remote store could not be updated.
func (a *App) Read(ctx context.Context, id string) error {
	if err := a.poller.MarkAsRead(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Marked as read here; the remote store was not updated")
		return err
	}
	return nil
}
