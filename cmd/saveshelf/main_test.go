package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"saveshelf/internal/config"
	"saveshelf/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("SAVESHELF_ACCOUNT_ID", "")
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	cfg.Logging.RetentionDays = 0

	configPath := filepath.Join(testsupport.BaseDir(cfg), "saveshelf.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
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
	return stdout.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestListUserSaves(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithAccount("0123456789abcdef"))
	testsupport.PSPSave(t, env.cfg.Storage.PSPSavesDir, "ULUS10041DATA", "Zeta Game")
	testsupport.CreateAppDB(t, env.cfg.Storage.AppDBPath,
		testsupport.App{TitleID: "PCSE00001", Title: "Alpha Game", SaveDir: "PCSE00001"},
	)

	out, err := runCLI(t, env.configPath, "list", "user")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Bulk PSP Save Management")
	requireContains(t, out, "Zeta Game")
	requireContains(t, out, "Alpha Game")

	out, err = runCLI(t, env.configPath, "list", "--json", "--sort")
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var views []entryView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 entries, got %+v", views)
	}
	if views[0].Name != "Alpha Game" || views[0].Index != 3 {
		t.Fatalf("expected sorted output with catalog indexes, got %+v", views[0])
	}
}

func TestListRejectsUnknownList(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, env.configPath, "list", "bogus")
	if err == nil || !strings.Contains(err.Error(), "unknown list") {
		t.Fatalf("expected unknown list error, got %v", err)
	}
}

func TestListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, env.configPath, "list", "trophies")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No entries in trophies list")
}

func TestShowAndDetailsRemovableSave(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithRemovableRoots(1))
	root := env.cfg.Storage.RemovableRoots[0]
	container := testsupport.VitaSave(t, root, "PCSE00001", "PCSE00001", 7)
	testsupport.WriteText(t, filepath.Join(container, "data.bin"), "x")

	out, err := runCLI(t, env.configPath, "show", "removable", "1")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Apply Changes & Resign")
	requireContains(t, out, "Copy Save to Backup Storage ("+root+")")
	requireContains(t, out, "- data.bin")
	requireContains(t, out, "Keystone Backup")

	out, err = runCLI(t, env.configPath, "details", "removable", "1")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	requireContains(t, out, "Account ID: 0000000000000007")

	if _, err := runCLI(t, env.configPath, "show", "removable", "9"); err == nil {
		t.Fatal("expected out of range index to fail")
	}
}

func TestShowLocalSaveWithFailingHelper(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedHelper(1))
	testsupport.CreateAppDB(t, env.cfg.Storage.AppDBPath,
		testsupport.App{TitleID: "PCSE00001", Title: "Alpha Game", SaveDir: "PCSE00001"},
	)

	out, err := runCLI(t, env.configPath, "show", "user", "1")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Error Mounting Save! Check Save Mount Patches")
}

func TestCacheRefreshAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/PSV/games.txt":
			_, _ = w.Write([]byte("PCSE00001=Sample Game A\r\nPCSE00002=Sample Game B\r\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	env := setupCLITestEnv(t, testsupport.WithOnline(srv.URL+"/"))
	out, err := runCLI(t, env.configPath, "cache", "refresh")
	if err != nil {
		t.Fatalf("cache refresh: %v", err)
	}
	requireContains(t, out, "Online list holds 2 titles")

	out, err = runCLI(t, env.configPath, "cache", "status")
	if err != nil {
		t.Fatalf("cache status: %v", err)
	}
	requireContains(t, out, "0001_games.txt")
	requireContains(t, out, "fresh")

	out, err = runCLI(t, env.configPath, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 1 cached files")
}

func TestCacheRefreshRequiresOnline(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, env.configPath, "cache", "refresh"); err == nil {
		t.Fatal("expected refresh to fail with online disabled")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "No account id set")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err = runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestStatusReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	requireContains(t, out, "Data directory")
	requireContains(t, out, "unavailable")

	env = setupCLITestEnv(t)
	env.cfg.Mount.Helper = "clearly-not-present-binary"
	writeTestConfig(t, env.configPath, env.cfg)
	out, err = runCLI(t, env.configPath, "status")
	if err == nil {
		t.Fatal("expected status to fail with a missing helper")
	}
	requireContains(t, out, "FAILED")
}
