package calculator

import (
	"encoding/json"
	"errors"

	"basic-calculator/internal/engine"
)

// DigitRequest is the JSON body for POST /calculator/sessions/{id}/digit.
type DigitRequest struct {
	Digit string `json:"digit"` // "0".."9"
}

// OperatorRequest is the JSON body for POST /calculator/sessions/{id}/operator.
type OperatorRequest struct {
	Operator string `json:"operator"` // "+", "-", "*", "/" or the display glyphs
}

// KeyList accepts either a compact key string ("12+3=") or an array of
// button labels (["1","2","+","3","="]).
type KeyList []engine.Key

func (k *KeyList) UnmarshalJSON(data []byte) error {
	var compact string
	if err := json.Unmarshal(data, &compact); err == nil {
		keys, err := engine.ParseKeys(compact)
		if err != nil {
			return err
		}
		*k = keys
		return nil
	}

	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return errors.New("keys must be a string or an array of strings")
	}
	keys, err := engine.ParseLabels(labels)
	if err != nil {
		return err
	}
	*k = keys
	return nil
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys and
// POST /calculator/evaluate.
type KeysRequest struct {
	Keys KeyList `json:"keys"`
}

// StateResponse is the JSON response for every session endpoint.
type StateResponse struct {
	SessionID string `json:"session_id,omitempty"`
	engine.Snapshot
}

// KeyResult records the readouts after one key of a batch.
type KeyResult struct {
	Key        string      `json:"key"`
	Display    string      `json:"display"`
	Expression string      `json:"expression"`
	Mode       engine.Mode `json:"mode"`
}

// KeysResponse is the JSON response for batch and one-shot evaluation.
type KeysResponse struct {
	SessionID string      `json:"session_id,omitempty"`
	Steps     []KeyResult `json:"steps"`
	engine.Snapshot
}
