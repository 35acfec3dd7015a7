package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalCustomizations(t *testing.T) {
	tests := []struct {
		name string
		in   []Customization
		want []Customization
	}{
		{
			name: "sorts_by_id",
			in: []Customization{
				{ID: "c2", Name: "extra cheese", Price: 200, Quantity: 1},
				{ID: "c1", Name: "sauce", Quantity: 1, Accompaniment: true},
			},
			want: []Customization{
				{ID: "c1", Name: "sauce", Quantity: 1, Accompaniment: true},
				{ID: "c2", Name: "extra cheese", Price: 200, Quantity: 1},
			},
		},
		{
			name: "dedupes_by_id_keeping_first",
			in: []Customization{
				{ID: "c1", Name: "sauce", Quantity: 2},
				{ID: "c1", Name: "sauce", Quantity: 5},
			},
			want: []Customization{
				{ID: "c1", Name: "sauce", Quantity: 2},
			},
		},
		{
			name: "empty_list",
			in:   nil,
			want: []Customization{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalCustomizations(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEqualCustomizations(t *testing.T) {
	base := []Customization{
		{ID: "c1", Name: "sauce", Quantity: 1, Accompaniment: true},
		{ID: "c2", Name: "extra cheese", Price: 200, Quantity: 2},
	}

	tests := []struct {
		name string
		a    []Customization
		b    []Customization
		want bool
	}{
		{
			name: "insertion_order_does_not_matter",
			a:    base,
			b: []Customization{
				{ID: "c2", Name: "extra cheese", Price: 200, Quantity: 2},
				{ID: "c1", Name: "sauce", Quantity: 1, Accompaniment: true},
			},
			want: true,
		},
		{
			name: "different_quantity_differs",
			a:    base,
			b: []Customization{
				{ID: "c1", Name: "sauce", Quantity: 1, Accompaniment: true},
				{ID: "c2", Name: "extra cheese", Price: 200, Quantity: 3},
			},
			want: false,
		},
		{
			name: "accompaniment_marker_differs",
			a:    []Customization{{ID: "c1", Name: "sauce", Quantity: 1, Accompaniment: true}},
			b:    []Customization{{ID: "c1", Name: "sauce", Quantity: 1}},
			want: false,
		},
		{
			name: "subset_differs",
			a:    base,
			b:    base[:1],
			want: false,
		},
		{
			name: "both_empty",
			a:    nil,
			b:    []Customization{},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EqualCustomizations(tt.a, tt.b))
			assert.Equal(t, tt.want, EqualCustomizations(tt.b, tt.a))
		})
	}
}
