package tube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
)

func TestStateWireLayout(t *testing.T) {
	s := State{
		Tempo:         beats.BPM(120),
		Phase:         0x01020304,
		PatternID:     7,
		Sync:          Swing,
		PatternPhrase: 0x0A0B,
		PaletteID:     9,
		PalettePhrase: 0x0C0D,
		Effect:        EffectParams{Mode: Spark, Pen: Erase, Beat: beats.Beat, Chance: 200},
		EffectPhrase:  0x0E0F,
	}
	b, err := s.MarshalBinary()
	require.NoError(t, err)

	want := []byte{
		0x00, 0x78, // tempo
		0x04, 0x03, 0x02, 0x01, // phase
		7, 3, // pattern, sync
		0x0B, 0x0A, 0x0D, 0x0C, 0x0F, 0x0E, // phrases
		9,              // palette
		4, 2, 0x08, 200, // effect
	}
	assert.Equal(t, want, b)

	var got State
	require.NoError(t, got.UnmarshalBinary(append(b, 0, 0, 0)))
	assert.Equal(t, s, got)
}

func TestStateShortBuffer(t *testing.T) {
	var s State
	err := s.UnmarshalBinary(make([]byte, StateSize-1))
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestOptions(t *testing.T) {
	b, err := Options{Debug: true, Brightness: 144}.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 144}, b)

	var o Options
	require.NoError(t, o.UnmarshalBinary(b))
	assert.Equal(t, Options{Debug: true, Brightness: 144}, o)
	assert.ErrorIs(t, o.UnmarshalBinary(nil), ErrShortBuffer)
}

func TestEnergyFor(t *testing.T) {
	tests := []struct {
		tempo beats.Tempo
		want  Energy
	}{
		{beats.BPM(90), LowEnergy},
		{beats.BPM(122) - 1, LowEnergy},
		{beats.BPM(122), MediumEnergy},
		{beats.BPM(124), MediumEnergy},
		{beats.BPM(125), HighEnergy},
		{beats.BPM(174), HighEnergy},
	}
	for _, tt := range tests {
		t.Run(tt.tempo.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, EnergyFor(tt.tempo))
		})
	}
}

func TestControlAllows(t *testing.T) {
	high := Control{Energy: HighEnergy}
	assert.False(t, high.Allows(LowEnergy))
	assert.False(t, high.Allows(MediumEnergy))
	assert.True(t, high.Allows(HighEnergy))
	assert.True(t, Control{}.Allows(LowEnergy))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "swingdrift", SwingDrift.String())
	assert.Equal(t, "sync(9)", SyncMode(9).String())
	assert.Equal(t, "erase", Erase.String())
	assert.Equal(t, "drop", Drop.String())
}
