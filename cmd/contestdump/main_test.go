package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contestdump/internal/config"
	"contestdump/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	replayRoot string
}

// setupReplayEnv writes a replay tree and a config file pointing at it.
func setupReplayEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	root := testsupport.WriteAPITree(t, t.TempDir(), testsupport.ContestFiles())
	testsupport.WriteTreeFile(t, root, "domjudge/api/runs.1.json", `[{"id":"1"}]`)

	cfg := testsupport.NewConfig(t,
		testsupport.WithReplaySource(root),
		testsupport.WithExports("runs", "ghost_dat_data", "resolver_data"),
	)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "contestdump.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, replayRoot: root}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[source]\nbase_url = %q\nbase_file_path = %q\ncid = %q\n\n"+
			"[output]\nsaved_dir = %q\n\n"+
			"[exported_data]\nruns = %t\nghost_dat_data = %t\nresolver_data = %t\n\n"+
			"[logging]\nlevel = \"error\"\n\n"+
			"[history]\nenabled = true\npath = %q\n",
		cfg.Source.BaseURL,
		cfg.Source.BaseFilePath,
		cfg.Source.CID,
		cfg.Output.SavedDir,
		cfg.ExportedData.Runs,
		cfg.ExportedData.GhostDatData,
		cfg.ExportedData.ResolverData,
		cfg.History.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestDumpReplayAndHistory(t *testing.T) {
	env := setupReplayEnv(t)

	out, _, err := runCLI(t, []string{"dump"}, env.configPath)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	requireContains(t, out, "Run ID")
	requireContains(t, out, "contest.dat, resolver.json")

	for _, name := range []string{"contest.dat", "resolver.json", "domjudge/api/runs.1.json"} {
		if _, err := os.Stat(filepath.Join(env.cfg.Output.SavedDir, filepath.FromSlash(name))); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "succeeded")
	requireContains(t, out, env.replayRoot)

	out, _, err = runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 1 export records")

	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list after clear: %v", err)
	}
	requireContains(t, out, "No exports recorded")
}

func TestDumpRecordsFailure(t *testing.T) {
	env := setupReplayEnv(t)
	if err := os.WriteFile(filepath.Join(env.replayRoot, "domjudge", "api", "submissions.json"), []byte(`{"not":"a list"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, []string{"dump"}, env.configPath); err == nil {
		t.Fatal("expected dump to fail on undecodable submissions")
	}
	out, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "failed")
}

func TestDumpStopsOnFailedPreflight(t *testing.T) {
	env := setupReplayEnv(t)
	if err := os.Remove(filepath.Join(env.replayRoot, "domjudge", "api", "contest.json")); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runCLI(t, []string{"dump"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "preflight failed") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
	requireContains(t, stderr, "FAIL")
	if _, statErr := os.Stat(env.cfg.Output.SavedDir); !os.IsNotExist(statErr) {
		t.Fatalf("expected saved_dir untouched, stat err=%v", statErr)
	}
}

func TestLoadPrintsCounts(t *testing.T) {
	env := setupReplayEnv(t)

	out, _, err := runCLI(t, []string{"load"}, env.configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	requireContains(t, out, "Demo Contest 2024")
	requireContains(t, out, "Pending verdicts")
	requireContains(t, out, "18000")
	if _, err := os.Stat(env.cfg.Output.SavedDir); !os.IsNotExist(err) {
		t.Fatalf("load must not write saved_dir, stat err=%v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupReplayEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Replay source")
	requireContains(t, out, "OK")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupReplayEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "replay "+env.replayRoot)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateRejectsMissingSource(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "contestdump.toml")
	if err := os.WriteFile(path, []byte("[output]\nsaved_dir = \"/tmp/contestdump-out\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, path); err == nil {
		t.Fatal("expected validation error without a source")
	}
}
