package main

import "testing"

func TestRunCLIUnknownCommand(t *testing.T) {
	if code := runCLI([]string{"bogus"}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunCLINoArgs(t *testing.T) {
	if code := runCLI(nil); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunCLIHelp(t *testing.T) {
	if code := runCLI([]string{"help"}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunCLIVersion(t *testing.T) {
	if code := runCLI([]string{"version"}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunServeRejectsMissingPublicKey(t *testing.T) {
	// No config file and no PUBLIC_KEY in env: serve must refuse to start
	// rather than run with interaction verification disabled.
	t.Setenv("PUBLIC_KEY", "")
	if code := runServe([]string{"--config", t.TempDir() + "/absent.yaml"}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunRegisterRejectsMissingCredentials(t *testing.T) {
	t.Setenv("APP_ID", "")
	t.Setenv("DISCORD_TOKEN", "")
	if code := runRegister([]string{"--config", t.TempDir() + "/absent.yaml"}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
