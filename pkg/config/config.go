// Package config layers the settings of the polytope tools: built-in
// defaults, then an optional config file, then POLYTOPE_* environment
// variables, then command-line flags.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so viewer.width
// is read from POLYTOPE_VIEWER_WIDTH.
const EnvPrefix = "POLYTOPE"

// Keys.
const (
	MeshCells       = "mesh_cells"
	StrutRadius     = "strut_radius"
	JointRadius     = "joint_radius"
	EvalTimeout     = "eval_timeout"
	CheckInvariants = "check_invariants"
	ViewerWidth     = "viewer.width"
	ViewerHeight    = "viewer.height"
	ViewerScale     = "viewer.scale"
)

// Config is the resolved configuration.
type Config struct {
	MeshCells       int
	StrutRadius     float64
	JointRadius     float64
	EvalTimeout     time.Duration
	CheckInvariants bool
	Viewer          Viewer
}

// Viewer configures the window of the viewer.
type Viewer struct {
	Width, Height int

	// Scale is the number of pixels per unit length.
	Scale float64
}

var defaults = map[string]interface{}{
	MeshCells:       100,
	StrutRadius:     0.02,
	JointRadius:     0.0,
	EvalTimeout:     5 * time.Second,
	CheckInvariants: false,
	ViewerWidth:     800,
	ViewerHeight:    600,
	ViewerScale:     200.0,
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MeshCells:       defaults[MeshCells].(int),
		StrutRadius:     defaults[StrutRadius].(float64),
		JointRadius:     defaults[JointRadius].(float64),
		EvalTimeout:     defaults[EvalTimeout].(time.Duration),
		CheckInvariants: defaults[CheckInvariants].(bool),
		Viewer: Viewer{
			Width:  defaults[ViewerWidth].(int),
			Height: defaults[ViewerHeight].(int),
			Scale:  defaults[ViewerScale].(float64),
		},
	}
}

// New returns a viper instance with the defaults and environment binding
// in place.
func New() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// flagName turns a key into a flag name: viewer.width becomes viewer_width.
func flagName(key string) string {
	return strings.ReplaceAll(key, ".", "_")
}

// AddFlags defines a flag for every key on fs. Flags left unset do not
// override the file or the environment.
func AddFlags(fs *flag.FlagSet) {
	fs.Int(flagName(MeshCells), defaults[MeshCells].(int),
		"Marching cubes resolution along the longest side of a wireframe.")
	fs.Float64(flagName(StrutRadius), defaults[StrutRadius].(float64),
		"Radius of wireframe struts.")
	fs.Float64(flagName(JointRadius), defaults[JointRadius].(float64),
		"Radius of wireframe joints; 0 leaves them out.")
	fs.Duration(flagName(EvalTimeout), defaults[EvalTimeout].(time.Duration),
		"Abandon a DSL evaluation after this long.")
	fs.Bool(flagName(CheckInvariants), defaults[CheckInvariants].(bool),
		"Verify the sweep status tree after every event.")
	fs.Int(flagName(ViewerWidth), defaults[ViewerWidth].(int), "Viewer window width.")
	fs.Int(flagName(ViewerHeight), defaults[ViewerHeight].(int), "Viewer window height.")
	fs.Float64(flagName(ViewerScale), defaults[ViewerScale].(float64), "Viewer pixels per unit.")
}

// BindFlags binds every key to its flag on fs. Keys without a flag are
// skipped.
func BindFlags(v *viper.Viper, fs *flag.FlagSet) error {
	for k := range defaults {
		f := fs.Lookup(flagName(k))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(k, f); err != nil {
			return errors.Wrapf(err, "binding flag %s", f.Name)
		}
	}
	return nil
}

// Load reads file, if given, into v and resolves the configuration.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "reading config")
		}
	}

	c := Config{
		MeshCells:       v.GetInt(MeshCells),
		StrutRadius:     v.GetFloat64(StrutRadius),
		JointRadius:     v.GetFloat64(JointRadius),
		EvalTimeout:     v.GetDuration(EvalTimeout),
		CheckInvariants: v.GetBool(CheckInvariants),
		Viewer: Viewer{
			Width:  v.GetInt(ViewerWidth),
			Height: v.GetInt(ViewerHeight),
			Scale:  v.GetFloat64(ViewerScale),
		},
	}
	return c, c.Validate()
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	switch {
	case c.MeshCells <= 0:
		return errors.Errorf("%s must be positive, got %d", MeshCells, c.MeshCells)
	case c.StrutRadius <= 0:
		return errors.Errorf("%s must be positive, got %g", StrutRadius, c.StrutRadius)
	case c.JointRadius < 0:
		return errors.Errorf("%s must not be negative, got %g", JointRadius, c.JointRadius)
	case c.EvalTimeout <= 0:
		return errors.Errorf("%s must be positive, got %s", EvalTimeout, c.EvalTimeout)
	case c.Viewer.Width <= 0 || c.Viewer.Height <= 0:
		return errors.Errorf("viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height)
	case c.Viewer.Scale <= 0:
		return errors.Errorf("%s must be positive, got %g", ViewerScale, c.Viewer.Scale)
	}
	return nil
}
