package signal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePayloadValidate(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"valid", `{"title":"t","duration":60,"position":1.5,"is_playing":true,"last_updated":100}`, nil},
		{"zero position", `{"position":0,"is_playing":false}`, nil},
		{"missing position", `{"is_playing":true}`, errMissingPosition},
		{"negative position", `{"position":-0.1,"is_playing":true}`, errNegativePosition},
		{"missing is_playing", `{"position":3}`, errMissingIsPlaying},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p statePayload
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &p))
			state, err := p.validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.GreaterOrEqual(t, state.Position, 0.0)
		})
	}
}

func TestStatePayloadRejectsWrongTypes(t *testing.T) {
	var p statePayload
	err := json.Unmarshal([]byte(`{"position":"ten","is_playing":true}`), &p)
	assert.Error(t, err, "non-numeric position must fail the typed decode")

	err = json.Unmarshal([]byte(`{"position":1,"is_playing":"yes"}`), &p)
	assert.Error(t, err, "non-boolean is_playing must fail the typed decode")
}
