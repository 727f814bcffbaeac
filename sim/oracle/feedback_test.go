package oracle

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatState_FixedFiveDigits(t *testing.T) {
	got := FormatState([]float64{0.5, 0.333333, 0.15, 1.0, 0.28})

	assert.Equal(t, "[0.50000, 0.33333, 0.15000, 1.00000, 0.28000]", got)
}

func TestFormatState_NoScientificNotation(t *testing.T) {
	got := FormatState([]float64{1e-9, 12345.678901})

	assert.Equal(t, "[0.00000, 12345.67890]", got)
}

func TestFormatState_Empty(t *testing.T) {
	assert.Equal(t, "[]", FormatState(nil))
}

func TestEncodeFeedbackRequest_WireShape(t *testing.T) {
	// GIVEN a prior outcome that missed its SLA
	prior := Feedback{
		Reward:        -0.6,
		NextState:     []float64{0.45, 0.9, 0, 0, 0},
		Cost:          1.0,
		SLAMet:        false,
		SLADeadline:   1.25,
		ExecutionTime: 2.0,
	}

	// WHEN encoded
	payload, err := EncodeFeedbackRequest(7, []float64{0.5, 1, 0.01, 0.8, 0}, prior)
	require.NoError(t, err)

	// THEN states are strings, the SLA flag is a token, and all fields are present
	var got map[string]any
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, float64(7), got["task_id"])
	assert.Equal(t, "[0.50000, 1.00000, 0.01000, 0.80000, 0.00000]", got["state"])
	assert.Equal(t, "[0.45000, 0.90000, 0.00000, 0.00000, 0.00000]", got["next_state"])
	assert.Equal(t, -0.6, got["reward"])
	assert.Equal(t, false, got["done"])
	assert.Equal(t, 1.0, got["cost"])
	assert.Equal(t, "NO", got["sla_met"])
	assert.Equal(t, 1.25, got["sla_deadline"])
	assert.Equal(t, 2.0, got["execution_time"])
	assert.Len(t, got, 9)
}

func TestEncodeFeedbackRequest_NilNextState_SentAsZeroVector(t *testing.T) {
	payload, err := EncodeFeedbackRequest(1, []float64{0.1, 0.2, 0.3, 0.4, 0}, Feedback{})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "[0.00000, 0.00000, 0.00000, 0.00000, 0.00000]", got["next_state"])
	assert.Equal(t, "NO", got["sla_met"])
}

func TestParseBareIndex(t *testing.T) {
	tests := []struct {
		line    string
		want    int
		wantErr bool
	}{
		{line: "2", want: 2},
		{line: " 1 ", want: 1},
		{line: "0\t", want: 0},
		{line: "-1", want: -1},
		{line: "1.0", wantErr: true},
		{line: "two", wantErr: true},
		{line: `{"action": 1}`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseBareIndex(tc.line)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrProtocol))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFeedbackOracle_Decide_OverTCP(t *testing.T) {
	// GIVEN a feedback oracle that always picks provider 2
	f := startFakeOracle(t, func(string) string { return "2" })
	o := NewFeedbackOracle(f.client())

	// WHEN a decision is requested
	idx, err := o.Decide(3, []float64{0.8, 0.5, 0.01, 0.8, 0}, Feedback{SLAMet: true})

	// THEN the oracle's index is returned and the request carried task_id
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	reqs := f.received()
	require.Len(t, reqs, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(reqs[0]), &got))
	assert.Equal(t, float64(3), got["task_id"])
	assert.Equal(t, "YES", got["sla_met"])
}

func TestFeedbackOracle_Decide_PropagatesExchangeError(t *testing.T) {
	o := NewFeedbackOracle(&stubExchanger{err: ErrConnection})

	_, err := o.Decide(1, []float64{0, 0, 0, 0, 0}, Feedback{})

	assert.True(t, errors.Is(err, ErrConnection))
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "YES", YesNo(true))
	assert.Equal(t, "NO", YesNo(false))
}
