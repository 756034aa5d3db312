package shlex

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"simple", "-O2 -g", []string{"-O2", "-g"}},
		{"double-quoted-with-space", `-I"foo bar"`, []string{"-Ifoo bar"}},
		{"single-quoted", `'-D FOO=1'`, []string{"-D FOO=1"}},
		{"escaped-space", `foo\ bar`, []string{"foo bar"}},
		{"double-quote-escape", `"a\"b"`, []string{`a"b`}},
		{"multiple-spaces", "-a    -b", []string{"-a", "-b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.in)
			if err != nil {
				t.Fatalf("Split(%q) error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitErrors(t *testing.T) {
	for _, in := range []string{`"unterminated`, `'unterminated`, `trailing\`} {
		if _, err := Split(in); err == nil {
			t.Errorf("Split(%q) expected error, got nil", in)
		}
	}
}
