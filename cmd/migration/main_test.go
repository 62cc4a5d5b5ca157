package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	upErr    error
	steps    []int
	forced   int
	migrated uint
}

func (f *fakeMigrator) Up() error                   { return f.upErr }
func (f *fakeMigrator) Steps(n int) error           { f.steps = append(f.steps, n); return nil }
func (f *fakeMigrator) Version() (uint, bool, error) { return 0, false, migrate.ErrNilVersion }
func (f *fakeMigrator) Force(v int) error           { f.forced = v; return nil }
func (f *fakeMigrator) Migrate(v uint) error        { f.migrated = v; return nil }

func TestRunCommands(t *testing.T) {
	f := &fakeMigrator{upErr: migrate.ErrNoChange}

	if err := run(f, "up", nil); err != nil {
		t.Fatalf("up with no change should succeed: %v", err)
	}
	if err := run(f, "down", []string{"2"}); err != nil {
		t.Fatalf("down: %v", err)
	}
	if len(f.steps) != 1 || f.steps[0] != -2 {
		t.Fatalf("unexpected steps: %v", f.steps)
	}
	if err := run(f, "force", []string{"7"}); err != nil || f.forced != 7 {
		t.Fatalf("force: err=%v forced=%d", err, f.forced)
	}
	if err := run(f, "goto", []string{"9"}); err != nil || f.migrated != 9 {
		t.Fatalf("goto: err=%v migrated=%d", err, f.migrated)
	}
	if err := run(f, "version", nil); err != nil {
		t.Fatalf("version with nil version: %v", err)
	}
	if err := run(f, "sideways", nil); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestParseSteps(t *testing.T) {
	t.Parallel()

	if n, err := parseSteps(nil); err != nil || n != 1 {
		t.Fatalf("default steps: n=%d err=%v", n, err)
	}
	if _, err := parseSteps([]string{"0"}); err == nil {
		t.Fatalf("expected zero steps to be rejected")
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected negative version to be rejected")
	}
}

func TestNormalizeDBURL(t *testing.T) {
	t.Parallel()

	raw := "postgres://u:p@localhost:5432/predictor?sslmode=disable"
	if got := normalizeDBURL(raw, false); got != raw {
		t.Fatalf("url changed without flag: %s", got)
	}
	got := normalizeDBURL(raw, true)
	want := "postgres://u:p@localhost:5432/predictor?disable_prepared_binary_result=yes&sslmode=disable"
	if got != want {
		t.Fatalf("unexpected url:\nwant %s\ngot  %s", want, got)
	}
}
