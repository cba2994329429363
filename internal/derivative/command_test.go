package derivative

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
)

func TestNewCommandWithBinary(t *testing.T) {
	cmd := NewCommand(WithBinary(" /opt/epg-prep "))
	if cmd.Binary() != "/opt/epg-prep" {
		t.Fatalf("expected binary override to be applied, got %q", cmd.Binary())
	}
	if NewCommand(WithBinary("")).Binary() != "epg-prep" {
		t.Fatalf("expected empty override to keep default")
	}
}

func TestCommandRequiresDirectory(t *testing.T) {
	if err := NewCommand().Generate(context.Background(), " "); err == nil {
		t.Fatal("expected error when directory is empty")
	}
}

func TestCommandPassesDirectory(t *testing.T) {
	var capturedName string
	var capturedArgs []string
	stubCommand(t, "success", &capturedName, &capturedArgs)

	if err := NewCommand().Generate(context.Background(), "/srv/uploads"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if capturedName != "epg-prep" {
		t.Fatalf("expected epg-prep to be invoked, got %q", capturedName)
	}
	if len(capturedArgs) != 1 || capturedArgs[0] != "/srv/uploads" {
		t.Fatalf("expected directory as sole argument, got %v", capturedArgs)
	}
}

func TestCommandReportsFailure(t *testing.T) {
	var name string
	var args []string
	stubCommand(t, "fail", &name, &args)

	if err := NewCommand().Generate(context.Background(), "/srv/uploads"); err == nil {
		t.Fatal("expected error when the command exits non-zero")
	}
}

func stubCommand(t *testing.T, mode string, name *string, args *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, bin string, a ...string) *exec.Cmd {
		*name = bin
		*args = append([]string(nil), a...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "EPG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("EPG_HELPER_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "cannot read directory")
		os.Exit(1)
	default:
		fmt.Println("processed 1 image")
		os.Exit(0)
	}
}
