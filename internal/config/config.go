package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

const (
	DefaultTimestep   = 1.0 / 60.0
	DefaultDuration   = 10.0
	DefaultIterations = 10
	DefaultGravityY   = -9.81
)

type Config struct {
	Scene    string      `yaml:"scene"`
	Duration float64     `yaml:"duration"`
	World    WorldConfig `yaml:"world"`
	Params   SceneConfig `yaml:"scene_params"`
}

type WorldConfig struct {
	Timestep         float64    `yaml:"timestep"`
	Iterations       int        `yaml:"iterations"`
	Gravity          [3]float64 `yaml:"gravity"`
	GravityEnabled   bool       `yaml:"gravity_enabled"`
	SleepEnabled     bool       `yaml:"sleep_enabled"`
	SplitImpulse     bool       `yaml:"split_impulse"`
	FrictionAtCenter bool       `yaml:"friction_at_center"`
	ErrorCorrection  bool       `yaml:"error_correction"`
}

type SceneConfig struct {
	Bodies      int     `yaml:"bodies"`
	DropHeight  float64 `yaml:"drop_height"`
	Spacing     float64 `yaml:"spacing"`
	RodLength   float64 `yaml:"rod_length"`
	Restitution float64 `yaml:"restitution"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:    "drop",
		Duration: DefaultDuration,
		World: WorldConfig{
			Timestep:        DefaultTimestep,
			Iterations:      DefaultIterations,
			Gravity:         [3]float64{0, DefaultGravityY, 0},
			GravityEnabled:  true,
			SleepEnabled:    true,
			SplitImpulse:    true,
			ErrorCorrection: true,
		},
		Params: SceneConfig{
			Bodies:     4,
			DropHeight: 5,
			Spacing:    1.1,
			RodLength:  1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WorldSettings converts the yaml view into validated world settings.
func (c *Config) WorldSettings() world.Settings {
	s := world.DefaultSettings()
	s.Timestep = scalar.Real(c.World.Timestep)
	s.Iterations = c.World.Iterations
	s.Gravity = scalar.Vec3{
		scalar.Real(c.World.Gravity[0]),
		scalar.Real(c.World.Gravity[1]),
		scalar.Real(c.World.Gravity[2]),
	}
	s.GravityEnabled = c.World.GravityEnabled
	s.SleepEnabled = c.World.SleepEnabled
	s.SplitImpulse = c.World.SplitImpulse
	s.FrictionAtCenter = c.World.FrictionAtCenter
	s.ErrorCorrection = c.World.ErrorCorrection
	return s
}

// Steps is the number of fixed timesteps covering Duration.
func (c *Config) Steps() int {
	if c.World.Timestep <= 0 {
		return 0
	}
	return int(c.Duration / c.World.Timestep)
}
