package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mardigontoler/gdext/config"
)

const doorSource = `package game

import "github.com/mardigontoler/gdext"

//godot:class base=Node2D
type Door struct {
	//godot:export
	Open bool
}

func (*Door) RegisterMethods(b *gdext.ClassBuilder[Door]) {}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "door.go"), []byte(doorSource), 0o644))

	out, err := execute(t, "generate", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+filepath.Join(dir, config.DefaultOutput))

	out, err = execute(t, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")
}

func TestGenerateCommand_OutputFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "door.go"), []byte(doorSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), []byte("output: from_config.gen.go\n"), 0o644))

	_, err := execute(t, "-q", "--dir", dir, "--output", "door_exports.gen.go")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "door_exports.gen.go"))
	assert.NoFileExists(t, filepath.Join(dir, "from_config.gen.go"))
}

func TestGenerateCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "door.go"), []byte(doorSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), []byte("output: from_config.gen.go\n"), 0o644))

	_, err := execute(t, "generate", "-q", "-d", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "from_config.gen.go"))
}

func TestGenerateCommand_BadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "door.go"), []byte(doorSource), 0o644))
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: door.txt\n"), 0o644))

	_, err := execute(t, "--dir", dir, "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, schema, "properties")
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	_, err := execute(t, "somewhere")
	assert.Error(t, err)
}
