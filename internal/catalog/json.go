package catalog

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/freightlink/match-cli/internal/model"
)

// ImportJSON reads a load catalogue from a JSON array of load objects.
func ImportJSON(path string) ([]*model.Load, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read json")
	}

	var loads []*model.Load
	if err := json.Unmarshal(data, &loads); err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", path)
	}

	for _, l := range loads {
		if l.Status == "" {
			l.Status = model.LoadStatusAvailable
		}
		if l.NumTrucks <= 0 {
			l.NumTrucks = 1
		}
	}
	return loads, nil
}

// ReadTranscript reads one call transcript from a JSON file.
func ReadTranscript(path string) (*model.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read transcript")
	}

	var t model.Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "catalog: parse transcript %s", path)
	}
	if len(t.Turns) == 0 {
		return nil, eris.Errorf("catalog: transcript %s has no turns", path)
	}
	return &t, nil
}
