package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"run", "inspect", "store", "runs"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "locality-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestSetup_LoadsConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	require.NoError(t, setup())
	require.NotNil(t, cfg)
	assert.Equal(t, "DSC_LOCALIDADE", cfg.Locality.Attribute)
}

func TestSetup_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: loud\n"), 0o644))
	t.Chdir(dir)
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = nil

	err := setup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init logger")
	assert.Nil(t, cfg)
}

func TestRunCommand_Flags(t *testing.T) {
	for _, name := range []string{"eps", "min-samples", "min-records", "attribute", "concurrency", "store"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "run should have --%s flag", name)
	}
	assert.Equal(t, "500", runCmd.Flags().Lookup("eps").DefValue)
	assert.Equal(t, "10", runCmd.Flags().Lookup("min-samples").DefValue)
}

func TestStoreCommand_HasMigrate(t *testing.T) {
	var found bool
	for _, c := range storeCmd.Commands() {
		if c.Name() == "migrate" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestInspectCommand_ConfigFlag(t *testing.T) {
	flag := inspectCmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
