package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keynav/internal/key"
	"github.com/roach88/keynav/internal/testutil"
)

// workspace is an offline keynav setup in a temp dir.
type workspace struct {
	dir        string
	configPath string
	cachePath  string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()

	leads, err := json.Marshal(testutil.SampleLeads())
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "leads.json"), string(leads))

	recordsDir := filepath.Join(dir, "records")
	require.NoError(t, os.Mkdir(recordsDir, 0o755))
	writeRecords(t, recordsDir, "butterflies", testutil.ButterflyRecords)
	writeRecords(t, recordsDir, "bees", testutil.BeeRecords)
	writeRecords(t, recordsDir, "nothing", []int{999})

	ws := workspace{
		dir:        dir,
		configPath: filepath.Join(dir, "keynav.yaml"),
		cachePath:  filepath.Join(dir, "keynav.db"),
	}
	writeFile(t, ws.configPath, fmt.Sprintf(
		"dataset_file: %s\nrecords_dir: %s\ncache_path: %s\n",
		filepath.Join(dir, "leads.json"), recordsDir, ws.cachePath))
	return ws
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeRecords(t *testing.T, dir, identity string, ids []int) {
	t.Helper()
	data, err := json.Marshal(ids)
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, identity+".json"), string(data))
}

// execute runs the root command with args and returns stdout.
func (ws workspace) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", ws.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// decodeData unmarshals the data field of a JSON response into v.
func decodeData(t *testing.T, output string, v any) CLIResponse {
	t.Helper()
	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &raw))
	if v != nil && raw.Data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, v))
	}
	return raw.CLIResponse
}

func leadIDs(steps []key.Lead) []int {
	ids := make([]int, len(steps))
	for i, s := range steps {
		ids[i] = s.LeadID
	}
	return ids
}

func TestStepsCommand_JSON(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "--format", "json", "steps", "--key", "butterflies")
	require.NoError(t, err)

	var result StepsResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "butterflies", resp.Key)
	assert.Equal(t, []int{1, 2, 4, 5}, leadIDs(result.Steps))
}

func TestStepsCommand_TextGolden(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "steps", "--key", "butterflies")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "steps_butterflies", []byte(out))
}

func TestStepsCommand_SubtreeDescendants(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "--format", "json", "steps", "--key", "butterflies", "--node", "2", "--descendants")
	require.NoError(t, err)

	var result StepsResult
	decodeData(t, out, &result)
	assert.Equal(t, 2, result.Node)
	// 4 and 5 renumbered below lead 2.
	assert.Equal(t, []int{3, 4}, leadIDs(result.Steps))
}

func TestStepsCommand_UnknownNode(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "steps", "--key", "bees", "--node", "4")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
	assert.Contains(t, out, `lead 4 is not part of key "bees"`)
}

func TestStepsCommand_EmptyKey(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "steps", "--key", "nothing")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "selects no leads")
}

func TestStepsCommand_MissingRecordFile(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "steps", "--key", "wasps")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestSpeciesCommand_FullKeyByDefault(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "--format", "json", "species")
	require.NoError(t, err)

	var result SpeciesResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "full", resp.Key)

	names := make([]string, len(result.Species))
	for i, s := range result.Species {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Apis mellifera", "Musca domestica", "Pieris rapae", "Vanessa cardui"}, names)
}

func TestSpeciesCommand_Records(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "species", "--key", "butterflies", "--records")
	require.NoError(t, err)
	assert.Equal(t, "Pieris rapae\t12\nVanessa cardui\t11\n", out)
}

func TestSpeciesCommand_Images(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "species", "--node", "3")
	require.NoError(t, err)
	assert.Equal(t, "Apis mellifera\tam.jpg\nMusca domestica\n", out)
}

func TestFindCommand(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "find", "7", "--key", "bees")
	require.NoError(t, err)
	assert.Contains(t, out, "lead 7 (parent 3): Apis mellifera")
	assert.Contains(t, out, "species: Apis mellifera (record 13)")

	out, err = ws.execute(t, "find", "4", "--key", "bees")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")

	_, err = ws.execute(t, "find", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFetchAndCacheCommands(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "cache")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")

	out, err = ws.execute(t, "fetch")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 9 leads")

	out, err = ws.execute(t, "--format", "json", "cache")
	require.NoError(t, err)

	var result CacheResult
	decodeData(t, out, &result)
	assert.True(t, result.Present)
	assert.True(t, result.Fresh)
	assert.Equal(t, 9, result.Leads)
	assert.Equal(t, ws.cachePath, result.Path)
	require.NotNil(t, result.FetchedAt)

	out, err = ws.execute(t, "--format", "json", "fetch", "--force")
	require.NoError(t, err)

	var fetched FetchResult
	decodeData(t, out, &fetched)
	assert.True(t, fetched.Forced)
	assert.Equal(t, 9, fetched.Leads)
	assert.NotNil(t, fetched.FetchedAt)
}

func TestFetchCommand_CacheFlagOverride(t *testing.T) {
	ws := newWorkspace(t)
	other := filepath.Join(ws.dir, "other.db")

	_, err := ws.execute(t, "--cache", other, "fetch")
	require.NoError(t, err)

	_, statErr := os.Stat(other)
	assert.NoError(t, statErr)

	out, err := ws.execute(t, "cache")
	require.NoError(t, err)
	assert.Contains(t, out, "empty")
}

func TestCommands_NoSourceConfigured(t *testing.T) {
	dir := t.TempDir()
	ws := workspace{dir: dir, configPath: filepath.Join(dir, "keynav.yaml")}
	writeFile(t, ws.configPath, fmt.Sprintf("cache_path: %s\n", filepath.Join(dir, "k.db")))

	out, err := ws.execute(t, "fetch")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

func TestCommands_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	ws := workspace{dir: dir, configPath: filepath.Join(dir, "keynav.yaml")}
	writeFile(t, ws.configPath, "cache_ttl: 0s\ndataset_file: leads.json\n")

	out, err := ws.execute(t, "steps")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "invalid config")
}

func TestValidateCommand(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "validate", filepath.Join(ws.dir, "leads.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Dataset valid: 9 leads, root 1")

	out, err = ws.execute(t, "--format", "json", "validate", filepath.Join(ws.dir, "leads.json"))
	require.NoError(t, err)
	var result ValidationResult
	decodeData(t, out, &result)
	assert.True(t, result.Valid)
	assert.Equal(t, 9, result.Leads)
}

func TestValidateCommand_MalformedTree(t *testing.T) {
	ws := newWorkspace(t)
	path := filepath.Join(ws.dir, "orphan.json")
	writeFile(t, path, `[
  {"lead_id": 1, "parent_id": 0, "text": "root"},
  {"lead_id": 2, "parent_id": 42, "text": "orphan"}
]`)

	out, err := ws.execute(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeData(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMalformed, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "MISSING_PARENT", details["code"])
}

func TestValidateCommand_SchemaError(t *testing.T) {
	ws := newWorkspace(t)
	path := filepath.Join(ws.dir, "bad.json")
	writeFile(t, path, `[{"lead_id": "one", "parent_id": 0, "text": "root"}]`)

	out, err := ws.execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E006]")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.execute(t, "validate", filepath.Join(ws.dir, "absent.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "dataset file not found")
}
