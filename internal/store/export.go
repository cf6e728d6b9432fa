package store

import (
	"encoding/json"
	"os"
)

type ExportData struct {
	Scene     string             `json:"scene"`
	Timestep  float64            `json:"timestep"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	Positions [][]float64        `json:"positions"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ExportJSON writes one run as a single self-contained JSON file, for
// consumption outside the toolchain.
func ExportJSON(path string, meta RunMetadata, traj *Trajectory) error {
	data := ExportData{
		Scene:     meta.Scene,
		Timestep:  meta.Timestep,
		Duration:  meta.Duration,
		Steps:     meta.Steps,
		Times:     traj.Times,
		Positions: traj.Positions,
		Metrics:   meta.Metrics,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
