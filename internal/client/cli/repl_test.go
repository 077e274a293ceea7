package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) commands() []command {
	record := func(name string, err error) func(context.Context, []string) error {
		return func(_ context.Context, args []string) error {
			f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
			return err
		}
	}
	return []command{
		{name: "login", usage: "login", public: true, run: func(ctx context.Context, args []string) error {
			f.loggedIn = true
			return record("login", nil)(ctx, args)
		}},
		{name: "open", usage: "open <course-id>", run: record("open", nil)},
		{name: "save", usage: "save", run: record("save", errors.New("offline"))},
	}
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	lines := capturePrint(t)

	input := strings.Join([]string{
		"help",
		"login",
		"",
		"open course-1",
		"save",
		"foobar",
		"exit",
		"open never",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	want := []string{"login", "open course-1", "save"}
	if strings.Join(exec.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}

	out := strings.Join(*lines, "\n")
	for _, s := range []string{"gl> status > ", "Error: offline", "Unknown command: foobar", "Bye!"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("help\n"))

	out := strings.Join(*lines, "\n")
	if !strings.Contains(out, "login") || strings.Contains(out, "open <course-id>") {
		t.Fatalf("logged-out help wrong:\n%s", out)
	}

	*lines = nil
	exec.loggedIn = true
	runREPL(context.Background(), exec, func() string { return "" }, rdr("help"))

	out = strings.Join(*lines, "\n")
	if !strings.Contains(out, "open <course-id>") {
		t.Fatalf("logged-in help missing commands:\n%s", out)
	}
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("login"))
	if len(exec.calls) != 1 {
		t.Fatalf("last line without newline not run: %v", exec.calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec.calls = nil
	runREPL(ctx, exec, func() string { return "" }, rdr("login\n"))
	if len(exec.calls) != 0 {
		t.Fatalf("cancelled REPL ran commands: %v", exec.calls)
	}
}
