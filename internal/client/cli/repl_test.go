package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls     []string
	logoutErr error
}

func (f *fakeExec) record(s string) error {
	f.calls = append(f.calls, s)
	return nil
}

func (f *fakeExec) List(_ context.Context, category string) error {
	return f.record(strings.TrimSpace("list " + category))
}
func (f *fakeExec) Categories(context.Context) error { return f.record("categories") }
func (f *fakeExec) Add(context.Context) error { return f.record("add") }
func (f *fakeExec) Edit(_ context.Context, id string) error { return f.record("edit " + id) }
func (f *fakeExec) Delete(_ context.Context, id string) error {
	return f.record("delete " + id)
}
func (f *fakeExec) Notifications(context.Context) error { return f.record("notifications") }
func (f *fakeExec) Read(_ context.Context, id string) error { return f.record("read " + id) }
func (f *fakeExec) Sweep(context.Context) error { return f.record("sweep") }
func (f *fakeExec) Status(context.Context) error { return f.record("status") }
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	return f.logoutErr
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			parts = append(parts, strings.TrimSpace(toString(v)))
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &printed
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silence(t)

	input := strings.Join([]string{
		"help",
		"",
		"l",
		"list equipment",
		"categories",
		"add",
		"edit p1",
		"delete p2",
		"n",
		"notifications",
		"read n1",
		"sweep",
		"status",
		"exit",
		"add",
	}, "\n") + "\n"

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "online" }, rdr(input))

	assert.Equal(t, []string{
		"list", "list equipment", "categories", "add", "edit p1", "delete p2",
		"notifications", "notifications", "read n1", "sweep", "status",
	}, f.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	printed := silence(t)

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "offline" }, rdr("edit\ndelete\nread\nfrobnicate\n"))

	assert.Empty(t, f.calls)
	assert.Contains(t, *printed, "board (offline) >")
	assert.Contains(t, *printed, "Usage: edit <id>")
	assert.Contains(t, *printed, "Usage: delete <id>")
	assert.Contains(t, *printed, "Usage: read <id>")
	assert.Contains(t, *printed, "Unknown command: frobnicate")
}

func TestRunREPL_StopsOnEOFWithoutNewline(t *testing.T) {
	silence(t)

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, rdr("sweep"))
	assert.Equal(t, []string{"sweep"}, f.calls)
}

func TestRunREPL_Logout(t *testing.T) {
	silence(t)

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, rdr("logout\nsweep\n"))
	assert.Equal(t, []string{"logout"}, f.calls)

	f = &fakeExec{logoutErr: errors.New("disk full")}
	runREPL(context.Background(), f, func() string { return "" }, rdr("logout\nsweep\n"))
	assert.Equal(t, []string{"logout", "sweep"}, f.calls)
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	silence(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeExec{}
	runREPL(ctx, f, func() string { return "" }, rdr("sweep\n"))
	assert.Empty(t, f.calls)
}
