package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListStoreJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewListCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"versiongen/store"})

	require.NoError(t, cmd.Execute())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list_store", buf.Bytes())
}

func TestListStoreText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewListCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"versiongen/store"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "PACKAGE")
	assert.Regexp(t, `versiongen/store\s+Customer\s+1\s+_Customerv1\s+splice\s+json\n`, output)
	assert.Regexp(t, `versiongen/store\s+Product\s+2\s+ProductV2\s+flatten\s+json,yaml,cbor\n`, output)
}

func TestListWarehouseStillListsValidDeclarations(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewListCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"versiongen/warehouse"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "PalletV9")
	assert.NotContains(t, buf.String(), "CrateV5")
}
