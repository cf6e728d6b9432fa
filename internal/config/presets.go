package config

var Presets = map[string]map[string]*Config{
	"drop": {
		"single": {
			Scene: "drop", Duration: 5,
			Params: SceneConfig{Bodies: 1, DropHeight: 5},
		},
		"shower": {
			Scene: "drop", Duration: 10,
			Params: SceneConfig{Bodies: 8, DropHeight: 8, Spacing: 1.2},
		},
		"bouncy": {
			Scene: "drop", Duration: 10,
			Params: SceneConfig{Bodies: 3, DropHeight: 6, Restitution: 0.8},
		},
	},
	"stack": {
		"short": {
			Scene: "stack", Duration: 10,
			Params: SceneConfig{Bodies: 3, Spacing: 1.05},
		},
		"tall": {
			Scene: "stack", Duration: 15,
			Params: SceneConfig{Bodies: 8, Spacing: 1.05},
		},
	},
	"pendulum": {
		"swing": {
			Scene: "pendulum", Duration: 10,
			Params: SceneConfig{RodLength: 1},
		},
		"long": {
			Scene: "pendulum", Duration: 20,
			Params: SceneConfig{RodLength: 3},
		},
	},
}

// GetPreset returns a copy of the named preset, filled in with defaults for
// everything the preset leaves unset, or nil if it does not exist.
func GetPreset(scene, name string) *Config {
	group, ok := Presets[scene]
	if !ok {
		return nil
	}
	preset, ok := group[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scene = preset.Scene
	cfg.Duration = preset.Duration
	cfg.Params = preset.Params
	if cfg.Params.Spacing == 0 {
		cfg.Params.Spacing = DefaultConfig().Params.Spacing
	}
	if cfg.Params.RodLength == 0 {
		cfg.Params.RodLength = DefaultConfig().Params.RodLength
	}
	return cfg
}

// ListPresets returns the preset names for one scene, or nil.
func ListPresets(scene string) []string {
	group, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
