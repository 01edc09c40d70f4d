package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/polytope/pkg/config"
)

func TestDefaults(t *testing.T) {
	c, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 100, c.MeshCells)
	assert.Equal(t, 0.02, c.StrutRadius)
	assert.Equal(t, 0.0, c.JointRadius)
	assert.Equal(t, 5*time.Second, c.EvalTimeout)
	assert.False(t, c.CheckInvariants)
	assert.Equal(t, config.Viewer{Width: 800, Height: 600, Scale: 200}, c.Viewer)
	assert.Equal(t, config.Default(), c)
}

func TestLayering(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "polytope.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
mesh_cells: 64
strut_radius: 0.05
viewer:
  width: 1024
  height: 768
`), 0o644))

	// the environment beats the file
	t.Setenv("POLYTOPE_STRUT_RADIUS", "0.08")
	t.Setenv("POLYTOPE_VIEWER_HEIGHT", "900")

	// flags beat everything, but only when set
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	config.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--viewer_height=1000", "--check_invariants"}))

	v := config.New()
	require.NoError(t, config.BindFlags(v, fs))
	c, err := config.Load(v, file)
	require.NoError(t, err)

	assert.Equal(t, 64, c.MeshCells)
	assert.Equal(t, 0.08, c.StrutRadius)
	assert.Equal(t, 1024, c.Viewer.Width)
	assert.Equal(t, 1000, c.Viewer.Height)
	assert.True(t, c.CheckInvariants)
	assert.Equal(t, 200.0, c.Viewer.Scale)
}

func TestMissingFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	good, err := config.Load(config.New(), "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"mesh cells", func(c *config.Config) { c.MeshCells = 0 }},
		{"strut radius", func(c *config.Config) { c.StrutRadius = -1 }},
		{"joint radius", func(c *config.Config) { c.JointRadius = -0.1 }},
		{"timeout", func(c *config.Config) { c.EvalTimeout = 0 }},
		{"viewer size", func(c *config.Config) { c.Viewer.Width = 0 }},
		{"viewer scale", func(c *config.Config) { c.Viewer.Scale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestEnvironmentTimeout(t *testing.T) {
	t.Setenv("POLYTOPE_EVAL_TIMEOUT", "250ms")
	c, err := config.Load(config.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, c.EvalTimeout)
}
