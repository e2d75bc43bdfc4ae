package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/funtimes-tubes/internal/color"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		name    string
		l       Layout
		in, out int
		virtual int
	}{
		{"straight", Layout{Count: 10}, 3, 3, 10},
		{"reversed", Layout{Count: 10, Reverse: true}, 0, 9, 10},
		{"doubled", Layout{Count: 10, Doubled: true}, 3, 7, 21},
		{"doubled reversed", Layout{Count: 10, Doubled: true, Reverse: true}, 9, 1, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, tt.l.Index(tt.in))
			assert.Equal(t, tt.virtual, tt.l.Virtual())
		})
	}
}

func TestSampleDoubledAverages(t *testing.T) {
	l := Layout{Count: 2, Doubled: true}
	v := make([]color.RGB, l.Virtual())
	v[1] = color.White

	c := l.Sample(v, 0)
	assert.Greater(t, c.R, uint8(0))
	assert.Less(t, c.R, uint8(255))
	assert.Equal(t, color.Black, l.Sample(v, 1))
}

func TestSampleOutOfRange(t *testing.T) {
	l := Layout{Count: 4}
	assert.Equal(t, color.Black, l.Sample(make([]color.RGB, 2), 3))
}
