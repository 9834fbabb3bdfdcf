package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestGetSharedStorePath_ExplicitConfigWins(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("store.path", "/tmp/custom-shared")
	if got := GetSharedStorePath(); got != "/tmp/custom-shared" {
		t.Errorf("GetSharedStorePath() = %q, want explicit override", got)
	}
}

func TestGetSharedStorePath_LocalDirectory(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	local := filepath.Join(".errandsync", "shared")
	if err := os.MkdirAll(local, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := GetSharedStorePath(); got != local {
		t.Errorf("GetSharedStorePath() = %q, want local %q", got, local)
	}
}

func TestGetSharedStorePath_XDGDataHome(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	want := filepath.Join("/xdg/data", "errandsync", "shared")
	if got := GetSharedStorePath(); got != want {
		t.Errorf("GetSharedStorePath() = %q, want %q", got, want)
	}
}

func TestGetSharedStorePath_GlobalFallback(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	t.Setenv("XDG_DATA_HOME", "")

	orig := GetGlobalConfigDir
	GetGlobalConfigDir = func() (string, error) { return "/home/test/.errandsync", nil }
	t.Cleanup(func() { GetGlobalConfigDir = orig })

	want := filepath.Join("/home/test/.errandsync", "shared")
	if got := GetSharedStorePath(); got != want {
		t.Errorf("GetSharedStorePath() = %q, want %q", got, want)
	}
}

func TestGetArchivePath(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	orig := GetGlobalConfigDir
	GetGlobalConfigDir = func() (string, error) { return "/home/test/.errandsync", nil }
	t.Cleanup(func() { GetGlobalConfigDir = orig })

	want := filepath.Join("/home/test/.errandsync", "archive.db")
	if got := GetArchivePath(); got != want {
		t.Errorf("GetArchivePath() = %q, want %q", got, want)
	}

	viper.Set("archive.path", "/tmp/archive.db")
	if got := GetArchivePath(); got != "/tmp/archive.db" {
		t.Errorf("GetArchivePath() = %q, want explicit override", got)
	}
}
