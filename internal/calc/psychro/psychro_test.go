package psychro

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atm = 101325.0

func TestSatVapPres(t *testing.T) {
	assert.InDelta(t, 3169.2, SatVapPres(25), 0.1)
	assert.InDelta(t, 2338.8, SatVapPres(20), 0.1)
	assert.InDelta(t, 259.90, SatVapPres(-10), 0.01)
	assert.InDelta(t, 101418.7, SatVapPres(100), 0.1)
}

func TestHumRatioFromRelHum(t *testing.T) {
	w, err := HumRatioFromRelHum(25, 0.5, atm)
	require.NoError(t, err)
	assert.InDelta(t, 0.0098810, w, 1e-7)

	w, err = HumRatioFromRelHum(25, 0, atm)
	require.NoError(t, err)
	assert.Equal(t, minHumRatio, w)

	_, err = HumRatioFromRelHum(25, 1.2, atm)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHumRatioPressureBelowVapour(t *testing.T) {
	// saturation at 100 °C is about 101.4 kPa
	_, err := HumRatioFromRelHum(100, 1, 50000)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = HumRatioFromRelHum(100, 1, SatVapPres(100))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SatHumRatio(90, 50000)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = HumRatioFromTWetBulb(95, 90, 50000)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var ps Points
	ps, err = ps.Add(Input{DryBulbC: 95, WetBulbC: 90, PressurePa: 1000})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, ps)
}

func TestHumRatioFromTWetBulb(t *testing.T) {
	w, err := HumRatioFromTWetBulb(25, 20, atm)
	require.NoError(t, err)
	assert.InDelta(t, 0.0125980, w, 1e-7)

	w, err = HumRatioFromTWetBulb(-5, -6, atm)
	require.NoError(t, err)
	assert.InDelta(t, 0.0019150, w, 1e-7)

	// saturated air: wet bulb equals dry bulb
	w, err = HumRatioFromTWetBulb(30, 30, atm)
	require.NoError(t, err)
	ws, err := SatHumRatio(30, atm)
	require.NoError(t, err)
	assert.InDelta(t, ws, w, 1e-12)

	_, err = HumRatioFromTWetBulb(20, 25, atm)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPointsAdd(t *testing.T) {
	var ps Points
	ps, err := ps.Add(Input{DryBulbC: 25, WetBulbC: 20})
	require.NoError(t, err)
	ps, err = ps.Add(Input{Label: "AHU off-coil", DryBulbC: 14, WetBulbC: 12, PressurePa: 100000})
	require.NoError(t, err)

	require.Len(t, ps, 2)
	assert.Equal(t, "Point 1", ps[0].Label)
	assert.Equal(t, atm, ps[0].PressurePa)
	assert.Equal(t, "AHU off-coil", ps[1].Label)

	same, err := ps.Add(Input{DryBulbC: 10, WetBulbC: 12})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, same, 2)
}

func TestHandlerPoint(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Point(rec, httptest.NewRequest(http.MethodPost, "/api/tools/psychro/point",
		strings.NewReader(`{"dry_bulb_c":25,"wet_bulb_c":20}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Points Points `json:"points"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Points, 1)
	assert.InDelta(t, 0.012598, got.Points[0].HumRatio, 1e-6)
}

func TestHandlerPointRejectsLowPressure(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Point(rec, httptest.NewRequest(http.MethodPost, "/api/tools/psychro/point",
		strings.NewReader(`{"dry_bulb_c":95,"wet_bulb_c":90,"pressure_pa":1000}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid input")
}
