package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Issue  IssueCmd `cmd:""`
	Config kong.ConfigFlag
}

func parseArgs(t *testing.T, args ...string) (*testCLI, error) {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(YAMLConfig))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	return &cli, err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestYAMLConfig(t *testing.T) {
	t.Run("values from file", func(t *testing.T) {
		path := writeConfig(t, "days: 30\nrole: client\nalt-names:\n  - a.example\n  - b.example\nout: /tmp/out.pem\n")

		cli, err := parseArgs(t, "issue", "host.example", "--config", path)
		require.NoError(t, err)
		assert.Equal(t, "host.example", cli.Issue.Host)
		assert.Equal(t, 30, cli.Issue.Days)
		assert.Equal(t, "client", cli.Issue.Role)
		assert.Equal(t, []string{"a.example", "b.example"}, cli.Issue.AltNames)
		assert.Equal(t, "/tmp/out.pem", cli.Issue.Out)
	})

	t.Run("underscore keys", func(t *testing.T) {
		path := writeConfig(t, "alt_names: [c.example]\n")

		cli, err := parseArgs(t, "issue", "host.example", "--config", path)
		require.NoError(t, err)
		assert.Equal(t, []string{"c.example"}, cli.Issue.AltNames)
	})

	t.Run("command line wins", func(t *testing.T) {
		path := writeConfig(t, "days: 30\n")

		cli, err := parseArgs(t, "issue", "host.example", "--days", "7", "--config", path)
		require.NoError(t, err)
		assert.Equal(t, 7, cli.Issue.Days)
	})

	t.Run("defaults without config", func(t *testing.T) {
		cli, err := parseArgs(t, "issue", "host.example")
		require.NoError(t, err)
		assert.Equal(t, 3650, cli.Issue.Days)
		assert.Equal(t, "server", cli.Issue.Role)
		assert.Zero(t, cli.Issue.Bits)
	})

	t.Run("invalid role in file", func(t *testing.T) {
		path := writeConfig(t, "role: intermediate\n")

		_, err := parseArgs(t, "issue", "host.example", "--config", path)
		require.Error(t, err)
	})

	t.Run("key and bits are exclusive", func(t *testing.T) {
		keyPath := writeConfig(t, "")

		_, err := parseArgs(t, "issue", "host.example", "--bits", "2048", "--key", keyPath)
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := YAMLConfig(strings.NewReader("days: [unterminated"))
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := YAMLConfig(strings.NewReader(""))
		require.NoError(t, err)
	})
}
