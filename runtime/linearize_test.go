package runtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func graph(edges map[string][]string) func(string) ([]string, error) {
	return func(x string) ([]string, error) {
		return edges[x], nil
	}
}

func TestLinearize(t *testing.T) {
	type tc struct {
		name     string
		edges    map[string][]string
		root     string
		want     []string
		wantKind InheritanceErrorKind
	}

	tests := []tc{
		{
			name: "single",
			root: "A",
			want: []string{"A"},
		},
		{
			name:  "chain",
			edges: map[string][]string{"A": {"B"}},
			root:  "A",
			want:  []string{"A", "B"},
		},
		{
			name: "diamond",
			edges: map[string][]string{
				"B": {"A"},
				"C": {"A"},
				"D": {"B"},
				"E": {"D", "C", "B"},
			},
			root: "E",
			want: []string{"E", "D", "C", "B", "A"},
		},
		{
			name:     "self_loop",
			edges:    map[string][]string{"A": {"A"}},
			root:     "A",
			wantKind: InheritanceCycle,
		},
		{
			name:     "long_loop",
			edges:    map[string][]string{"A": {"B"}, "B": {"C"}, "C": {"A"}},
			root:     "A",
			wantKind: InheritanceCycle,
		},
		{
			name: "conflict",
			edges: map[string][]string{
				"X": {"A", "B"},
				"Y": {"B", "A"},
				"Z": {"X", "Y"},
			},
			root:     "Z",
			wantKind: InheritanceConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Linearize(tt.root, graph(tt.edges))
			if tt.wantKind != 0 {
				var ierr *InheritanceError
				require.ErrorAs(t, err, &ierr)
				require.Equal(t, tt.wantKind, ierr.Kind)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLinearizeCycleChain(t *testing.T) {
	_, err := Linearize("A", graph(map[string][]string{"A": {"B"}, "B": {"C"}, "C": {"B"}}))

	var ierr *InheritanceError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, []string{"B", "C", "B"}, ierr.Chain)
	require.EqualError(t, err, "inheritance cycle: B -> C -> B")
}

func TestLinearizeParentsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Linearize("A", func(x string) ([]string, error) {
		if x == "B" {
			return nil, boom
		}
		return []string{"B"}, nil
	})
	require.ErrorIs(t, err, boom)
}
