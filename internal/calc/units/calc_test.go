package units

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Plantroom/internal/refdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAirflowRate(t *testing.T) {
	c := NewConverter(refdata.Default())

	v, err := c.AirflowRate(100, "m³/h", "CFM")
	require.NoError(t, err)
	assert.InDelta(t, 58.8577, v, 1e-4)

	v, err = c.AirflowRate(100, "CFM", "m³/h")
	require.NoError(t, err)
	assert.InDelta(t, 169.9, v, 0.05)
}

func TestAirflowIdentity(t *testing.T) {
	c := NewConverter(refdata.Default())
	for _, u := range c.AirflowUnits() {
		for _, v := range []float64{0, 1, 12.5, 3600} {
			got, err := c.AirflowRate(v, u, u)
			require.NoError(t, err)
			assert.Equal(t, v, got, "unit %s", u)
		}
	}
}

func TestAirflowUnknownUnit(t *testing.T) {
	c := NewConverter(refdata.Default())
	_, err := c.AirflowRate(1, "furlongs/fortnight", "CFM")
	assert.ErrorIs(t, err, ErrUnknownUnit)
	_, err = c.AirflowRate(1, "CFM", "gal/min")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestHeating(t *testing.T) {
	c := NewConverter(refdata.Default())

	f := c.HeatingConversionFactors()
	assert.Equal(t, map[string]float64{"BTU": 1055.06, "calories": 4.184, "joules": 1, "kWh": 3.6e6}, f)
	f["BTU"] = 0
	assert.Equal(t, 1055.06, c.HeatingConversionFactors()["BTU"])

	v, err := c.Heating("kWh", "BTU", 1)
	require.NoError(t, err)
	assert.Equal(t, 3412.128, v)

	v, err = c.Heating("joules", "calories", 10)
	require.NoError(t, err)
	assert.Equal(t, 2.39, v)

	_, err = c.Heating("therms", "joules", 1)
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestHandlerCalc(t *testing.T) {
	h := &Handler{Conv: NewConverter(refdata.Default())}

	body, _ := json.Marshal(Input{Kind: KindAirflow, Value: 1, From: "m³/s", To: "l/s"})
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 1000.0, res.Converted)

	body, _ = json.Marshal(Input{Kind: KindEnergy, Value: 1, From: "erg", To: "joules"})
	rec = httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
