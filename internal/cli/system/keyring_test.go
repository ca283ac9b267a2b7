package system

import (
	"bytes"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/keyring"
)

func keyringContext() (*cli.Context, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &cli.Context{Out: out}, out
}

func TestKeyringSetGetDelete(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteAPIKey() }()

	ctx, out := keyringContext()
	if err := (&KeyringSetCmd{APIKey: "  AIzaSyExample1234  "}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !strings.Contains(out.String(), "API key stored") {
		t.Errorf("unexpected output %q", out.String())
	}

	stored, err := keyring.GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if stored != "AIzaSyExample1234" {
		t.Errorf("expected trimmed key, got %q", stored)
	}

	out.Reset()
	if err := (&KeyringGetCmd{}).Run(ctx); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.Contains(out.String(), "AIzaSyExample") {
		t.Error("expected key to be masked")
	}
	if !strings.Contains(out.String(), "1234") {
		t.Errorf("expected last four characters, got %q", out.String())
	}

	if err := (&KeyringDeleteCmd{}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := (&KeyringDeleteCmd{}).Run(ctx); err == nil {
		t.Error("expected second delete to fail")
	}
	if err := (&KeyringGetCmd{}).Run(ctx); err == nil || !strings.Contains(err.Error(), "confi keyring set") {
		t.Errorf("expected hint to set a key, got %v", err)
	}
}

func TestKeyringStatusCmd(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteAPIKey() }()

	ctx, out := keyringContext()
	if err := (&KeyringStatusCmd{}).Run(ctx); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out.String(), "No API key stored") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := keyring.SetAPIKey("secret-key"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	out.Reset()
	if err := (&KeyringStatusCmd{}).Run(ctx); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out.String(), "API key is stored") {
		t.Errorf("unexpected output %q", out.String())
	}
}
