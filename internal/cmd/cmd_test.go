package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/YagorVitor/CodeReview/pkg/errors"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42", "post-id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc", "4.2"} {
		_, err := parseID(bad, "post-id")
		var cliErr *clierrors.CLIError
		require.ErrorAs(t, err, &cliErr, bad)
		assert.Equal(t, clierrors.ErrorTypeValidation, cliErr.Type)
	}
}

func TestReadArgJoins(t *testing.T) {
	text, err := readArg([]string{"hi", "@bob", "there"})
	require.NoError(t, err)
	assert.Equal(t, "hi @bob there", text)
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"auth", "login"},
		{"auth", "logout"},
		{"auth", "status"},
		{"feed", "list"},
		{"post", "create"},
		{"post", "like"},
		{"post", "unlike"},
		{"post", "delete"},
		{"comment", "view"},
		{"comment", "create"},
		{"comment", "delete"},
		{"mention", "suggest"},
		{"mention", "check"},
		{"mention", "render"},
		{"profile", "view"},
		{"profile", "bio"},
		{"profile", "follow"},
		{"profile", "unfollow"},
		{"notifications", "list"},
		{"notifications", "watch"},
		{"notifications", "read"},
		{"version"},
	} {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "CodeReview CLI v"+Version+"\n", buf.String())
}

func TestMaxDepthHelpDescribesIndentCap(t *testing.T) {
	flag := viewCommentsCmd.Flags().Lookup("max-depth")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, "indentation stops growing")
	assert.NotContains(t, flag.Usage, "collaps")
}
