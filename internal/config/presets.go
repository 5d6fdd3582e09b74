package config

var floor = BodyConfig{
	Position: Vec3{Y: -5.5},
	Extents:  Vec3{X: 5, Y: 5, Z: 5},
	Static:   true,
}

var Presets = map[string]*Config{
	"drop": {
		Name: "drop", Duration: 4.0, Step: DefaultStep,
		Bodies: []BodyConfig{
			floor,
			{Position: Vec3{Y: 5}, Extents: Vec3{X: 0.1, Y: 0.1, Z: 0.1}, Gravity: true},
		},
	},
	"stack": {
		Name: "stack", Duration: 6.0, Step: DefaultStep,
		Bodies: []BodyConfig{
			floor,
			{Position: Vec3{Y: 2}, Extents: Vec3{X: 0.1, Y: 0.1, Z: 0.1}, Gravity: true},
			{Position: Vec3{Y: 3}, Extents: Vec3{X: 0.1, Y: 0.1, Z: 0.1}, Gravity: true},
			{Position: Vec3{Y: 4}, Extents: Vec3{X: 0.1, Y: 0.1, Z: 0.1}, Gravity: true},
		},
	},
	"bounce": {
		Name: "bounce", Duration: 8.0, Step: DefaultStep,
		Bodies: []BodyConfig{
			floor,
			{Position: Vec3{Y: 6}, Extents: Vec3{X: 0.2, Y: 0.2, Z: 0.2}, Gravity: true, Bounce: 0.9, Slide: 1.0},
			{Position: Vec3{X: 1, Y: 4}, Extents: Vec3{X: 0.2, Y: 0.2, Z: 0.2}, Gravity: true, Bounce: 0.6, Slide: 1.0},
		},
	},
	"rain": {
		Name: "rain", Duration: 10.0, Step: DefaultStep,
		Bodies: append([]BodyConfig{
			{Position: Vec3{Y: -1}, Extents: Vec3{X: 12, Y: 1, Z: 12}, Static: true},
		}, rainDrops()...),
	},
	"shelf": {
		Name: "shelf", Duration: 6.0, Step: DefaultStep,
		Bodies: []BodyConfig{
			{Position: Vec3{Y: -1}, Extents: Vec3{X: 10, Y: 1, Z: 10}, Static: true},
			{Position: Vec3{X: 2, Y: 1}, Extents: Vec3{X: 1.5, Y: 0.2, Z: 1.5}, Static: true},
			{Position: Vec3{X: 2, Y: 4}, Extents: Vec3{X: 0.3, Y: 0.3, Z: 0.3}, Gravity: true},
			{Position: Vec3{X: -2, Y: 4}, Extents: Vec3{X: 0.3, Y: 0.3, Z: 0.3}, Gravity: true},
		},
	},
}

func rainDrops() []BodyConfig {
	drops := make([]BodyConfig, 0, 25)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			drops = append(drops, BodyConfig{
				Position: Vec3{
					X: float64(i)*2 - 4,
					Y: 3 + float64(i*5+j)*0.8,
					Z: float64(j)*2 - 4,
				},
				Extents: Vec3{X: 0.25, Y: 0.25, Z: 0.25},
				Gravity: true,
			})
		}
	}
	return drops
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
