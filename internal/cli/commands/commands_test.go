package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/surbind/internal/cli/config"
)

const schemaFixture = `-- Greets a user.
DEFINE FUNCTION fn::greet($name: string) { RETURN "Hello, " + $name; };

DEFINE FUNCTION fn::util::clamp($v: int, $limit: int) { RETURN math::min($v, $limit); };
`

// execute runs a command with the given args and a config injected into
// its context, returning its combined output.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	cmd.SetContext(WithConfig(context.Background(), cfg))
	err := cmd.Execute()
	return buf.String(), err
}

func writeSchema(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fns.surql"), []byte(schemaFixture), 0o644))
	return dir
}

func TestGenerateCommand(t *testing.T) {
	dir := writeSchema(t)
	out := filepath.Join(dir, "bindings.gen.go")

	cfg := &config.Config{Driver: "is", Out: out, Package: "fns"}
	output, err := execute(t, NewGenerateCommand(), cfg, dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Generated 2 wrappers for 2 functions")

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(written), "func Greet(")
	assert.Contains(t, string(written), "func UtilClamp(")
}

func TestGenerateCommand_SkipAndForce(t *testing.T) {
	dir := writeSchema(t)
	out := filepath.Join(dir, "bindings.gen.go")
	cfg := &config.Config{
		Driver:    "is",
		Out:       out,
		Package:   "fns",
		StatePath: filepath.Join(dir, ".surbind", "state.db"),
	}

	_, err := execute(t, NewGenerateCommand(), cfg, dir)
	require.NoError(t, err)

	output, err := execute(t, NewGenerateCommand(), cfg, dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Bindings up to date")

	output, err = execute(t, NewGenerateCommand(), cfg, "--force", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Generated 2 wrappers")
}

func TestGenerateCommand_NoTarget(t *testing.T) {
	dir := writeSchema(t)

	_, err := execute(t, NewGenerateCommand(), &config.Config{}, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no binding target requested")
}

func TestCheckCommand(t *testing.T) {
	dir := writeSchema(t)

	output, err := execute(t, NewCheckCommand(), &config.Config{}, dir)
	require.NoError(t, err)
	assert.Contains(t, output, "OK: 2 functions across 1 sources")
}

func TestCheckCommand_NoOutputWritten(t *testing.T) {
	dir := writeSchema(t)
	out := filepath.Join(dir, "bindings.gen.go")

	_, err := execute(t, NewCheckCommand(), &config.Config{Out: out}, dir)
	require.NoError(t, err)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestCheckCommand_InvalidSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.surql"),
		[]byte("DEFINE FUNCTION fn::bad($x) { RETURN 1; };"), 0o644))

	_, err := execute(t, NewCheckCommand(), &config.Config{}, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed function header")
}

func TestCheckCommand_ValidatesSchemes(t *testing.T) {
	dir := writeSchema(t)

	_, err := execute(t, NewCheckCommand(), &config.Config{Driver: "is", Datastore: "is"}, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "naming conflict")
}

func TestListCommand_Table(t *testing.T) {
	dir := writeSchema(t)

	output, err := execute(t, NewListCommand(), &config.Config{}, dir)
	require.NoError(t, err)
	assert.Contains(t, output, "fn::greet")
	assert.Contains(t, output, "fn::util::clamp")
	assert.Contains(t, output, "$name: string")
	assert.Contains(t, output, "2 functions")
}

func TestListCommand_JSON(t *testing.T) {
	dir := writeSchema(t)

	output, err := execute(t, NewListCommand(), &config.Config{}, dir, "--output", "json")
	require.NoError(t, err)

	var funcs []struct {
		Name   string   `json:"name"`
		Params []string `json:"params"`
		Docs   []string `json:"docs"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &funcs))
	require.Len(t, funcs, 2)
	assert.Equal(t, "fn::greet", funcs[0].Name)
	assert.Equal(t, []string{"$name: string"}, funcs[0].Params)
	assert.Equal(t, []string{"Greets a user."}, funcs[0].Docs)
	assert.Equal(t, "fn::util::clamp", funcs[1].Name)
}

func TestListCommand_UnknownFormat(t *testing.T) {
	dir := writeSchema(t)

	_, err := execute(t, NewListCommand(), &config.Config{}, dir, "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, NewVersionCommand("1.2.3", "2026-01-01", "abc1234"), &config.Config{})
	require.NoError(t, err)
	assert.Contains(t, output, "surbind v1.2.3")
	assert.Contains(t, output, "2026-01-01")
	assert.Contains(t, output, "abc1234")
}

func TestCommandMetadata(t *testing.T) {
	for _, cmd := range []*cobra.Command{
		NewGenerateCommand(),
		NewCheckCommand(),
		NewListCommand(),
		NewVersionCommand("t", "t", "t"),
	} {
		assert.NotEmpty(t, cmd.Use)
		assert.NotEmpty(t, cmd.Short, "%s Short should not be empty", cmd.Name())
	}

	gen := NewGenerateCommand()
	assert.NotNil(t, gen.Flags().Lookup("watch"))
	assert.NotNil(t, gen.Flags().Lookup("force"))
	assert.NotNil(t, NewListCommand().Flags().Lookup("output"))
}
