package expansion

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Plantroom/internal/refdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressures(t *testing.T) {
	assert.InDelta(t, 2.35, ColdFillPressure(10), 1e-12)
	assert.InDelta(t, 3.5, MaxSystemPressure(3, 0.5), 1e-12)
	assert.InDelta(t, 0.328571, AcceptanceFactor(2.35, 3.5), 1e-6)
}

func TestExpansionFactorBreakpointsAreExact(t *testing.T) {
	table := refdata.Default().Expansion
	for _, p := range table {
		assert.Equal(t, p.Factor, ExpansionFactor(table, p.Temperature), "T=%v", p.Temperature)
	}
}

func TestExpansionFactorInterpolates(t *testing.T) {
	table := refdata.Default().Expansion
	assert.InDelta(t, 0.032455, ExpansionFactor(table, 85), 1e-9)

	rng := rand.New(rand.NewPCG(7, 7))
	for i := 1; i < len(table); i++ {
		lo, hi := table[i-1], table[i]
		for j := 0; j < 20; j++ {
			tc := lo.Temperature + rng.Float64()*(hi.Temperature-lo.Temperature)
			f := ExpansionFactor(table, tc)
			assert.GreaterOrEqual(t, f, lo.Factor)
			assert.LessOrEqual(t, f, hi.Factor)
		}
	}
}

func TestExpansionFactorExtrapolates(t *testing.T) {
	table := refdata.Default().Expansion
	assert.InDelta(t, -0.00018, ExpansionFactor(table, 0), 1e-12)
	assert.InDelta(t, 0.05967, ExpansionFactor(table, 120), 1e-12)
}

func TestVesselSize(t *testing.T) {
	assert.InDelta(t, 4854.35, VesselSize(50000, 0.029, AcceptanceFactor(2.35, 3.5)), 0.01)
}

func TestCalculate(t *testing.T) {
	table := refdata.Default().Expansion

	res, err := Calculate(table, Input{
		LowestWorkingPressure: 3, SafetyValveMargin: 0.5, MaxTemperatureC: 80,
		StaticHeadM: 10, SystemVolumeL: 50000,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4854.35, res.VesselL, 0.01)
	assert.Empty(t, res.Warnings)

	res, err = Calculate(table, Input{
		LowestWorkingPressure: 3, SafetyValveMargin: 0.5, MaxTemperatureC: 80,
		StaticHeadM: 10, SystemKW: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, 3600.0, res.SystemVolumeL)
	assert.InDelta(t, 349.51, res.VesselL, 0.01)

	res, err = Calculate(table, Input{
		LowestWorkingPressure: 3, SafetyValveMargin: 0.5, MaxTemperatureC: 80,
		StaticHeadM: 10, SystemKW: 300, LitresPerKW: 12, Acceptance: 0.5,
	})
	require.NoError(t, err)
	assert.InDelta(t, 229.68, res.VesselL, 1e-9)
}

func TestCalculateWarnings(t *testing.T) {
	res, err := Calculate(refdata.Default().Expansion, Input{
		LowestWorkingPressure: 1, SafetyValveMargin: 0.5, MaxTemperatureC: 95,
		StaticHeadM: 30, SystemVolumeL: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{WarnTemperature, WarnColdFill}, res.Warnings)
	assert.Less(t, res.VesselL, 0.0)
}

func TestCalculateErrors(t *testing.T) {
	table := refdata.Default().Expansion

	_, err := Calculate(table[:1], Input{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Calculate(table, Input{Acceptance: 1.5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// lowest WP 0.5, margin 1.5: max pressure 0
	_, err = Calculate(table, Input{LowestWorkingPressure: 0.5, SafetyValveMargin: 1.5})
	assert.ErrorIs(t, err, ErrZeroDivisor)
}

func TestResultsAppend(t *testing.T) {
	var r Results
	in := Input{MaxTemperatureC: 80, StaticHeadM: 10, SafetyValveMargin: 0.5}
	r = r.Append(in, Result{VesselL: 100, Acceptance: 0.3})
	r = r.Append(in, Result{VesselL: 200, Acceptance: 0.4})
	require.Len(t, r, 2)
	assert.Equal(t, Row{MaxTemperatureC: 80, StaticHeadM: 10, SafetyValveMargin: 0.5, VesselL: 200, Acceptance: 0.4}, r[1])
}

func TestHandlerCalc(t *testing.T) {
	h := &Handler{Ref: refdata.Default()}
	body := `{"lowest_working_pressure_barg":3,"safety_valve_margin_barg":0.5,"max_temperature_c":80,
		"static_head_m":10,"system_volume_l":50000,"results":[{"vessel_l":12}]}`

	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/tools/expansion-vessel", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Result
		Results Results `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.InDelta(t, 4854.35, got.VesselL, 0.01)
	require.Len(t, got.Results, 2)
	assert.Equal(t, 12.0, got.Results[0].VesselL)
}
