package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(alerts []*Alert) []int64 {
	out := make([]int64, len(alerts))
	for i, a := range alerts {
		out[i] = a.ID
	}
	return out
}

func TestSortByPriority(t *testing.T) {
	tests := []struct {
		name  string
		types []Type
		want  []int64
	}{
		{
			name:  "urgent moves ahead of informational",
			types: []Type{TypeInformational, TypeUrgent},
			want:  []int64{2, 1},
		},
		{
			name:  "already ordered",
			types: []Type{TypeUrgent, TypeInformational},
			want:  []int64{1, 2},
		},
		{
			name:  "same type keeps insertion order",
			types: []Type{TypeInformational, TypeInformational, TypeInformational},
			want:  []int64{1, 2, 3},
		},
		{
			name:  "interleaved types are stable within bucket",
			types: []Type{TypeInformational, TypeUrgent, TypeInformational, TypeUrgent, TypeInformational},
			want:  []int64{2, 4, 1, 3, 5},
		},
		{
			name:  "unknown type sorts with informational",
			types: []Type{Type("other"), TypeUrgent, TypeInformational},
			want:  []int64{2, 1, 3},
		},
		{
			name: "empty",
			want: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := make([]*Alert, len(tt.types))
			for i, typ := range tt.types {
				list[i] = NewAlert(int64(i+1), "x", typ, 1)
			}

			SortByPriority(list)
			assert.Equal(t, tt.want, ids(list))
		})
	}
}
