package tokenize

import (
	"reflect"
	"testing"
)

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Hello, World!", []string{"hello", "world"}},
		{"foo123bar", []string{"foo123bar"}},
		{"  leading and trailing  ", []string{"leading", "and", "trailing"}},
		{"café", []string{"caf"}}, // non-ASCII byte acts as a separator
		{"A-B_C", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		got := Text(c.in)
		if len(got) == 0 {
			got = nil
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Text(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func BenchmarkText(b *testing.B) {
	text := "The quick brown foxes are running quickly through the forest at night"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Text(text)
	}
}
