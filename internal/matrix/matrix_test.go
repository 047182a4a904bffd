package matrix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCountSetBits(t *testing.T) {
	require.Equal(t, 0, InputVector(0).CountSetBits())
	require.Equal(t, 6, InputVector(0x3F).CountSetBits())
	require.Equal(t, 3, InputVector(0b010101).CountSetBits())
}

func TestOperatorFiring(t *testing.T) {
	op := Operation{Active: 0b000011, Inverted: 0, Op: OpAnd}
	require.True(t, op.Fire(0b000011))
	require.False(t, op.Fire(0b000001))

	op.Op = OpOr
	require.True(t, op.Fire(0b000001))
	require.False(t, op.Fire(0b000000))

	op.Op = OpXor
	require.True(t, op.Fire(0b000001))
	require.False(t, op.Fire(0b000011))

	op.Op = OpMajority
	op.Active = 0b000111
	require.True(t, op.Fire(0b000110))
	require.False(t, op.Fire(0b000100))

	op.Op = OpOff
	require.False(t, op.Fire(0b111111))
}

func TestInputBitCascadesFromPrevWhenUnconnected(t *testing.T) {
	top := &InputBit{}
	bottom := &InputBit{prev: top}

	top.Process(true, true, false)
	require.True(t, top.Value())

	bottom.Process(false, false, false)
	require.Equal(t, top.counter%2 != 0, bottom.Value())
}

func TestEvalMatrixRoutesToAccumulators(t *testing.T) {
	m := &Matrix{}
	m.Operations[0] = Operation{Active: 0b000001, Op: OpOr, Target: 0}
	m.Operations[1] = Operation{Active: 0b000010, Op: OpOr, Target: 1}
	m.Accumulators[0] = Accumulator{Interval: IntervalOctave}
	m.Accumulators[1] = Accumulator{Interval: IntervalPerfectFifth}

	r := m.EvalMatrix(0b000011)
	require.EqualValues(t, 1, r.Result.High[0])
	require.EqualValues(t, 1, r.Result.High[1])
	require.InDelta(t, intervalVoltages[IntervalOctave]+intervalVoltages[IntervalPerfectFifth], r.Pitch, 1e-9)
}

func TestOutputSortsAndSelectsByPercentile(t *testing.T) {
	m := &Matrix{}
	m.Operations[0] = Operation{Active: 0b111111, Op: OpAtLeastTwo, Target: 0}
	m.Accumulators[0] = Accumulator{Interval: IntervalHalfStep}

	out := NewOutput(true)
	out.CoMute = CoMuteSet{true, true, true, true, true, true}
	out.Channels = []OutputChannel{{UsePercentile: true, Percentile: 1.0}}

	pitch := out.GetPitch(m, 0, 0)
	require.InDelta(t, intervalVoltages[IntervalHalfStep], pitch, 1e-9)
}

func TestEvalMatrixIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	m := &Matrix{}
	m.Operations[0] = Operation{Active: 0b000101, Op: OpXor, Target: 1}
	m.Accumulators[1] = Accumulator{Interval: IntervalMinorThird}

	first := m.EvalMatrix(0b100101)
	second := m.EvalMatrix(0b100101)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached re-evaluation diverged (-first +second):\n%s", diff)
	}
}

func TestOutputCacheInvalidation(t *testing.T) {
	m := &Matrix{}
	out := NewOutput(false)
	out.CoMute = CoMuteSet{true}
	out.Channels = []OutputChannel{{Index: 0}}

	_ = out.GetPitch(m, 0, 0)
	require.NotNil(t, out.caches[0])

	out.InvalidateCache()
	require.Nil(t, out.caches[0])
}
