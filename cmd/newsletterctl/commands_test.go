package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "send-email", "check-config"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
	require.NotNil(t, root.PersistentFlags().Lookup("config-dir"))
}

func TestMigrateCmd(t *testing.T) {
	cmd := migrateCmd()
	require.NotNil(t, cmd)

	assert.Equal(t, "migrate", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	require.NotNil(t, cmd.Flags().Lookup("create-db"))
}

func TestSendEmailCmd(t *testing.T) {
	cmd := sendEmailCmd()
	require.NotNil(t, cmd)

	assert.Equal(t, "send-email", cmd.Use)
	for _, f := range []string{"to", "subject", "html", "text"} {
		require.NotNil(t, cmd.Flags().Lookup(f), f)
	}
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	base := `
application:
  port: 8000
database:
  host: "127.0.0.1"
  port: 5432
  username: "postgres"
  password: "hunter2-db"
  database_name: "newsletter"
email_client:
  base_url: "http://localhost:8025"
  sender_email: "newsletter@example.com"
  authorization_token: "hunter2-token"
  timeout_milliseconds: 1000
storage:
  backend: "memory"
idempotency:
  backend: "memory"
  ttl: 1h
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(base), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.yaml"), []byte("{}\n"), 0o644))
	return dir
}

func TestCheckConfig_RedactsSecrets(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "local")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("EMAIL_CLIENT_AUTHORIZATION_TOKEN", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"check-config", "--config-dir", writeTestConfig(t)})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "# environment: local")
	assert.Contains(t, out.String(), "[REDACTED]")
	assert.NotContains(t, out.String(), "hunter2")
}

func TestSendEmail_RequiresBody(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"send-email", "--to", "ursula@example.com", "--subject", "hi", "--config-dir", writeTestConfig(t)})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--html or --text")
}

func TestSendEmail_RejectsInvalidRecipient(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"send-email", "--to", "nope", "--subject", "hi", "--text", "x"})

	assert.Error(t, root.Execute())
}
