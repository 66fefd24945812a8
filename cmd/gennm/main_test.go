package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestVersionCommandInterface(t *testing.T) {
	versionCmd := NewVersionCommand()
	if versionCmd == nil {
		t.Fatal("NewVersionCommand should return a valid command instance")
	}

	cobraCmd := versionCmd.CreateCobraCommand()
	if cobraCmd.Use != "version" {
		t.Errorf("expected command use 'version', got %q", cobraCmd.Use)
	}

	var output bytes.Buffer
	cobraCmd.SetOut(&output)
	cobraCmd.SetErr(&output)

	if err := cobraCmd.Execute(); err != nil {
		t.Fatalf("version command should not fail: %v", err)
	}
	if output.String() == "" {
		t.Error("version command should produce output")
	}
}

func TestVersionCommandShortFlag(t *testing.T) {
	cobraCmd := NewVersionCommand().CreateCobraCommand()
	cobraCmd.SetArgs([]string{"--short"})

	var output bytes.Buffer
	cobraCmd.SetOut(&output)
	cobraCmd.SetErr(&output)

	if err := cobraCmd.Execute(); err != nil {
		t.Fatalf("version --short should not fail: %v", err)
	}
	if output.String() == "" {
		t.Error("expected --short to still produce output")
	}
}

func TestInitCommandInterface(t *testing.T) {
	initCmd := NewInitCommand()
	if initCmd == nil {
		t.Fatal("NewInitCommand should return a valid command instance")
	}

	cobraCmd := initCmd.CreateCobraCommand()
	if cobraCmd.Use != "init" {
		t.Errorf("expected command use 'init', got %q", cobraCmd.Use)
	}
	if cobraCmd.Short == "" {
		t.Error("init command should have a short description")
	}

	flags := cobraCmd.Flags()
	for _, name := range []string{"output", "force"} {
		if flags.Lookup(name) == nil {
			t.Errorf("expected flag %q to be defined", name)
		}
	}
}

func TestInitCommandWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, ".gennm.toml")

	cobraCmd := NewInitCommand().CreateCobraCommand()
	cobraCmd.SetArgs([]string{"--output", outputPath})

	var output bytes.Buffer
	cobraCmd.SetOut(&output)
	cobraCmd.SetErr(&output)

	if err := cobraCmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("expected %s to be written: %v", outputPath, err)
	}
}

func TestInitCommandRefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, ".gennm.toml")
	if err := os.WriteFile(outputPath, []byte("existing"), 0o644); err != nil {
		t.Fatalf("failed to seed an existing file: %v", err)
	}

	cobraCmd := NewInitCommand().CreateCobraCommand()
	cobraCmd.SetArgs([]string{"--output", outputPath})

	var output bytes.Buffer
	cobraCmd.SetOut(&output)
	cobraCmd.SetErr(&output)

	if err := cobraCmd.Execute(); err == nil {
		t.Fatal("expected init to refuse to overwrite an existing file without --force")
	}
}

func TestLowerCommandInterface(t *testing.T) {
	lowerCmd := NewLowerCommand()
	if lowerCmd == nil {
		t.Fatal("NewLowerCommand should return a valid command instance")
	}

	cobraCmd := lowerCmd.CreateCobraCommand()
	if cobraCmd.Short == "" {
		t.Error("lower command should have a short description")
	}

	flags := cobraCmd.Flags()
	for _, name := range []string{"output", "config", "parallel", "max-workers", "summary", "include", "exclude", "report-format"} {
		if flags.Lookup(name) == nil {
			t.Errorf("expected flag %q to be defined", name)
		}
	}
}

func TestLowerCommandRequiresAtLeastOneArgument(t *testing.T) {
	cobraCmd := NewLowerCommand().CreateCobraCommand()
	cobraCmd.SetArgs(nil)

	var output bytes.Buffer
	cobraCmd.SetOut(&output)
	cobraCmd.SetErr(&output)

	if err := cobraCmd.Execute(); err == nil {
		t.Fatal("expected the lower command to require at least one positional argument")
	}
}

func TestRootCommandWiresSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"lower", "check", "init", "version"} {
		if !names[want] {
			t.Errorf("expected root command to register a %q subcommand", want)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	ok, err := fileExists(present)
	if err != nil || !ok {
		t.Errorf("expected fileExists to report true for an existing file, got ok=%v err=%v", ok, err)
	}

	ok, err = fileExists(filepath.Join(dir, "absent.txt"))
	if err != nil || ok {
		t.Errorf("expected fileExists to report false for a missing file, got ok=%v err=%v", ok, err)
	}
}
