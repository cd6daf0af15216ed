package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/logger"
)

// LoadSnapshot reads all four labels. A missing label leaves that collection
// at its empty or zero default.
func LoadSnapshot(p Provider) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	for _, label := range constants.Labels {
		data, ok, err := p.Get(label)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("failed to read %s: %w", label, err)
		}
		if !ok {
			logger.Debug("Storage label absent, using default", "label", label)
			continue
		}
		if err := Decode(label, data, &snap); err != nil {
			return ledger.Snapshot{}, err
		}
	}
	return snap, nil
}

// SaveChange writes the collections named by c from snap in one PutAll.
func SaveChange(p Provider, snap ledger.Snapshot, c ledger.Change) error {
	labels := c.Labels()
	if len(labels) == 0 {
		return nil
	}
	entries := make(map[string][]byte, len(labels))
	for _, label := range labels {
		data, err := Encode(label, snap)
		if err != nil {
			return err
		}
		entries[label] = data
	}
	return p.PutAll(entries)
}

// Encode serialises the collection stored under label.
func Encode(label string, snap ledger.Snapshot) ([]byte, error) {
	var v any
	switch label {
	case constants.LabelTasks:
		v = snap.Tasks
	case constants.LabelActivities:
		v = snap.Activities
	case constants.LabelPayments:
		v = snap.Payments
	case constants.LabelFinances:
		v = snap.Finances
	default:
		return nil, fmt.Errorf("unknown storage label: %s", label)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", label, err)
	}
	return data, nil
}

// Decode parses data into the collection stored under label.
func Decode(label string, data []byte, snap *ledger.Snapshot) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var target any
	switch label {
	case constants.LabelTasks:
		target = &snap.Tasks
	case constants.LabelActivities:
		target = &snap.Activities
	case constants.LabelPayments:
		target = &snap.Payments
	case constants.LabelFinances:
		target = &snap.Finances
	default:
		return fmt.Errorf("unknown storage label: %s", label)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", label, err)
	}
	return nil
}

// ImportDump copies the known labels out of a browser local storage export
// into p. Values may be raw JSON or JSON encoded as strings, as local storage
// keeps them. It returns the number of labels imported.
func ImportDump(p Provider, dump []byte) (int, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(dump, &raw); err != nil {
		return 0, fmt.Errorf("failed to parse dump: %w", err)
	}

	entries := make(map[string][]byte)
	for _, label := range constants.Labels {
		value, ok := raw[label]
		if !ok {
			continue
		}
		var inner string
		if err := json.Unmarshal(value, &inner); err == nil {
			value = json.RawMessage(inner)
		}
		var check ledger.Snapshot
		if err := Decode(label, value, &check); err != nil {
			return 0, err
		}
		entries[label] = []byte(value)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := p.PutAll(entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}
