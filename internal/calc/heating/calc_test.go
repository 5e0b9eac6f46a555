package heating

import (
	"math"
	"math/rand/v2"
	"testing"

	"Plantroom/internal/fluids"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReheatTime(t *testing.T) {
	assert.InDelta(t, 418.0, ReheatTime(20, 80, 1000, 10), 0.1)
	assert.InDelta(t, 696.6666, ReheatTime(0, 100, 500, 5), 0.1)
}

func TestCoilSize(t *testing.T) {
	assert.InDelta(t, 167.2, CoilSize(20, 80, 1000, 25), 0.1)
	assert.InDelta(t, 174.1666, CoilSize(0, 100, 500, 20), 0.1)
}

func TestPrimaryFlowrate(t *testing.T) {
	assert.InDelta(t, 0.598, PrimaryFlowrate(60, 40, 50), 0.001)
}

func TestZeroDivisorIsNotGuarded(t *testing.T) {
	assert.True(t, math.IsInf(ReheatTime(20, 80, 1000, 0), 1))
	assert.True(t, math.IsInf(CoilSize(20, 80, 1000, 0), 1))
	assert.True(t, math.IsNaN(ReheatTime(20, 20, 1000, 0)))
	assert.True(t, math.IsInf(PrimaryFlowrate(60, 60, 50), 1))

	_, err := ReheatTimeChecked(20, 80, 1000, 0)
	assert.ErrorIs(t, err, ErrZeroDivisor)
	_, err = CoilSizeChecked(20, 80, 1000, 0)
	assert.ErrorIs(t, err, ErrZeroDivisor)
	_, err = PrimaryFlowrateChecked(60, 60, 50)
	assert.ErrorIs(t, err, ErrZeroDivisor)
}

func TestCoilSizeInvertsReheatTime(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		ti := rng.Float64() * 50
		tf := ti + 1 + rng.Float64()*60
		vol := 10 + rng.Float64()*5000
		coil := 0.5 + rng.Float64()*500

		got := CoilSize(ti, tf, vol, ReheatTime(ti, tf, vol, coil))
		assert.InEpsilon(t, coil, got, 1e-9)
	}
}

func TestNegativeReheatIsReturnedNotRejected(t *testing.T) {
	v := ReheatTime(80, 20, 1000, 10)
	assert.Less(t, v, 0.0)
	assert.Equal(t, []string{WarnNegative}, TemperatureWarnings(80, 20))
	assert.Equal(t, []string{WarnNegative}, TemperatureWarnings(60, 60))
	assert.Nil(t, TemperatureWarnings(20, 60))
}

func TestPrimaryWarnings(t *testing.T) {
	assert.Equal(t, []string{WarnPasteurisation}, PrimaryWarnings(55, 40))
	assert.Nil(t, PrimaryWarnings(80, 60))
	assert.Equal(t, []string{WarnPasteurisation, WarnNegative}, PrimaryWarnings(40, 55))
}

func TestCalculate(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-9)
	tests := []struct {
		name    string
		in      Input
		want    Result
		wantErr error
	}{
		{
			name: "reheat time with primary",
			in: Input{Mode: ModeReheatTime, InitialTempC: 20, FinalTempC: 80, VesselVolumeL: 1000, CoilKW: 10,
				IncludePrimary: true, PrimaryFlowC: 60, PrimaryReturnC: 40},
			want: Result{Mode: ModeReheatTime, ReheatTimeMin: 418, CoilKW: 10, PrimaryFlowKgS: 10 / (4.18 * 20)},
		},
		{
			name: "coil size with cool primary",
			in: Input{Mode: ModeCoilSize, InitialTempC: 20, FinalTempC: 80, VesselVolumeL: 1000, ReheatTimeMin: 25,
				IncludePrimary: true, PrimaryFlowC: 55, PrimaryReturnC: 45},
			want: Result{Mode: ModeCoilSize, ReheatTimeMin: 25, CoilKW: 167.2, PrimaryFlowKgS: 167.2 / 41.8,
				Warnings: []string{WarnPasteurisation}},
		},
		{
			name: "default mode",
			in:   Input{InitialTempC: 60, FinalTempC: 15, VesselVolumeL: 500, CoilKW: 50},
			want: Result{Mode: ModeReheatTime, ReheatTimeMin: 500 * -45 * 4.18 / 3000, CoilKW: 50,
				Warnings: []string{WarnNegative}},
		},
		{
			name:    "zero coil",
			in:      Input{Mode: ModeReheatTime, InitialTempC: 20, FinalTempC: 80, VesselVolumeL: 1000},
			wantErr: ErrZeroDivisor,
		},
		{
			name: "equal primary temperatures",
			in: Input{Mode: ModeReheatTime, InitialTempC: 20, FinalTempC: 80, VesselVolumeL: 1000, CoilKW: 10,
				IncludePrimary: true, PrimaryFlowC: 70, PrimaryReturnC: 70},
			wantErr: ErrZeroDivisor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, approx, cmpopts.IgnoreFields(Result{}, "Notes")); diff != "" {
				t.Errorf("Calculate() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := Calculate(Input{Mode: "sideways"})
	assert.Error(t, err)
}

type fixedProps fluids.Properties

func (p fixedProps) Properties(string, float64, float64) (fluids.Properties, error) {
	return fluids.Properties(p), nil
}

func TestTransferTriangle(t *testing.T) {
	water := fixedProps{Density: 998.21, SpecificHeat: 4.182}

	q, err := Transfer(water, TransferInput{Solve: SolveHeatTransfer, FlowRateLPS: 1, DeltaTK: 6})
	require.NoError(t, err)
	assert.InDelta(t, 25.047, q.HeatKW, 1e-3)

	dt, err := Transfer(water, TransferInput{Solve: SolveDeltaT, FlowRateLPS: 1, HeatKW: q.HeatKW})
	require.NoError(t, err)
	assert.InDelta(t, 6, dt.DeltaTK, 1e-9)

	fr, err := Transfer(water, TransferInput{Solve: SolveFlowRate, DeltaTK: 6, HeatKW: q.HeatKW})
	require.NoError(t, err)
	assert.InDelta(t, 1, fr.FlowRateLPS, 1e-9)

	_, err = Transfer(water, TransferInput{Solve: SolveFlowRate, HeatKW: 10})
	assert.ErrorIs(t, err, ErrZeroDivisor)
	_, err = Transfer(water, TransferInput{Solve: "enthalpy"})
	assert.Error(t, err)
}

func TestTransferUsesProvider(t *testing.T) {
	tbl, err := fluids.NewTable(nil)
	require.NoError(t, err)
	_, err = Transfer(tbl, TransferInput{Medium: fluids.Air, FlowRateLPS: 1, DeltaTK: 1})
	assert.ErrorIs(t, err, fluids.ErrUnknownFluid)
}
