package diff

import (
	"reflect"
	"strings"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name          string
		old, new      string
		wantIdentical bool
		want          []Line
	}{
		{
			name:          "identical",
			old:           "a\nb\n",
			new:           "a\nb\n",
			wantIdentical: true,
			want:          []Line{{"a", Unchanged}, {"b", Unchanged}},
		},
		{
			name: "replace last line",
			old:  "a\nb",
			new:  "a\nc",
			want: []Line{{"a", Unchanged}, {"b", Removed}, {"c", Added}},
		},
		{
			name: "insert in the middle",
			old:  "a\nc\n",
			new:  "a\nb\nc\n",
			want: []Line{{"a", Unchanged}, {"b", Added}, {"c", Unchanged}},
		},
		{
			name: "delete first",
			old:  "x\na\nb",
			new:  "a\nb",
			want: []Line{{"x", Removed}, {"a", Unchanged}, {"b", Unchanged}},
		},
		{
			name: "from empty",
			old:  "",
			new:  "a\n",
			want: []Line{{"a", Added}},
		},
		{
			name: "trailing newline only",
			old:  "a",
			new:  "a\n",
			want: []Line{{"a", Unchanged}},
		},
		{
			name: "interleaved",
			old:  "1\n2\n3\n4\n5",
			new:  "1\nx\n3\ny\n5",
			want: []Line{{"1", Unchanged}, {"2", Removed}, {"x", Added}, {"3", Unchanged}, {"4", Removed}, {"y", Added}, {"5", Unchanged}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.old, tt.new)
			if got.Identical != tt.wantIdentical {
				t.Errorf("Identical = %v, want %v", got.Identical, tt.wantIdentical)
			}
			if !reflect.DeepEqual(got.Lines, tt.want) {
				t.Errorf("Lines = %v, want %v", got.Lines, tt.want)
			}
		})
	}
}

func TestCompare_SameTextHasNoChanges(t *testing.T) {
	text := "#!/usr/bin/env sh\nyabai -m config layout bsp\nyabai -m config window_gap 10\n"
	res := Compare(text, text)
	added, removed := res.Stats()
	if !res.Identical || added != 0 || removed != 0 {
		t.Errorf("Compare(text, text) = identical %v, +%d -%d", res.Identical, added, removed)
	}
}

func TestCompare_LargeInputFallsBack(t *testing.T) {
	var a, b strings.Builder
	for i := 0; i <= MaxLines; i++ {
		a.WriteString("old\n")
		b.WriteString("new\n")
	}
	res := Compare(a.String(), b.String())
	added, removed := res.Stats()
	if added != MaxLines+1 || removed != MaxLines+1 {
		t.Errorf("Stats() = +%d -%d, want +%d -%d", added, removed, MaxLines+1, MaxLines+1)
	}
	if res.Lines[0].Kind != Removed || res.Lines[len(res.Lines)-1].Kind != Added {
		t.Error("fallback should list removals before additions")
	}
}

func TestUnified(t *testing.T) {
	res := Compare("a\nb", "a\nc")

	var plain strings.Builder
	if err := res.Unified(&plain, false); err != nil {
		t.Fatal(err)
	}
	if want := " a\n-b\n+c\n"; plain.String() != want {
		t.Errorf("Unified() = %q, want %q", plain.String(), want)
	}

	var colored strings.Builder
	if err := res.Unified(&colored, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(colored.String(), colorRed+"-b"+colorReset) {
		t.Errorf("colored output missing red removal: %q", colored.String())
	}
}

func TestMaxLines_BoundsTableSize(t *testing.T) {
	const limit = 64 << 20
	if size := (MaxLines + 1) * (MaxLines + 1) * 8; size > limit {
		t.Errorf("LCS table for MaxLines=%d needs %d bytes, want at most %d", MaxLines, size, limit)
	}
}
