// internal/config/loader_test.go
//
// Load, env overlay, defaults, and secret resolution against a temp root.

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
http:
  listen_addr: ":8080"
database:
  dsn: "app:{password}@tcp(db:3306)/app?parseTime=true"
  password: "vault:secret/app#db"
storefront:
  base_domain: "tiendas.example.com"
session:
  secret: "vault:secret/app#session_secret_key"
`

func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	return root
}

type mapResolver map[string]string

func (m mapResolver) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := m[ref]
	if !ok {
		return "", errors.New("no such secret")
	}
	return v, nil
}

func TestLoadFrom_DefaultsAndEnv(t *testing.T) {
	root := writeRoot(t, minimalYAML)
	t.Setenv("STOREFRONT_HTTP__LISTEN_ADDR", ":9090")
	t.Setenv("STOREFRONT_STOREFRONT__SUGGESTION_COUNT", "5")

	cfg, err := LoadFrom(root)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.ListenAddr)
	assert.Equal(t, 5, cfg.Storefront.SuggestionCount)
	assert.Equal(t, "tienda", cfg.Storefront.FallbackSlug)
	assert.Equal(t, 5000, cfg.Storefront.MaxProbes)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "storefront_session", cfg.Session.CookieName)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Same(t, cfg, Get())
}

func TestLoadFrom_ValidationFails(t *testing.T) {
	root := writeRoot(t, strings.Replace(minimalYAML, `base_domain: "tiendas.example.com"`, `base_domain: ""`, 1))

	_, err := LoadFrom(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BaseDomain")
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestResolveSecrets(t *testing.T) {
	cfg, err := LoadFrom(writeRoot(t, minimalYAML))
	require.NoError(t, err)

	err = ResolveSecrets(context.Background(), cfg, mapResolver{
		"vault:secret/app#db":                 "s3cr3t",
		"vault:secret/app#session_secret_key": strings.Repeat("k", 32),
	})
	require.NoError(t, err)
	assert.Equal(t, "app:s3cr3t@tcp(db:3306)/app?parseTime=true", cfg.Database.BuildDSN())
	assert.Len(t, cfg.Session.Secret, 32)
}

func TestResolveSecrets_ShortSessionSecret(t *testing.T) {
	cfg, err := LoadFrom(writeRoot(t, minimalYAML))
	require.NoError(t, err)

	err = ResolveSecrets(context.Background(), cfg, mapResolver{
		"vault:secret/app#db":                 "x",
		"vault:secret/app#session_secret_key": "short",
	})
	assert.Error(t, err)
}

func TestResolveSecrets_NoResolver(t *testing.T) {
	cfg, err := LoadFrom(writeRoot(t, minimalYAML))
	require.NoError(t, err)
	assert.Error(t, ResolveSecrets(context.Background(), cfg, nil))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "http.listen_addr", envKey("STOREFRONT_HTTP__LISTEN_ADDR"))
	assert.Equal(t, "storefront.base_domain", envKey("STOREFRONT_STOREFRONT__BASE_DOMAIN"))
}
