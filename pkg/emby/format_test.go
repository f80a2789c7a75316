package emby

import "testing"

func TestTicksToClock(t *testing.T) {
	cases := []struct {
		ticks int64
		want  string
	}{
		{0, ""},
		{-5, ""},
		{10000000, "00:00:01"},
		{4830000000, "00:08:03"},
		{36610000000, "01:01:01"},
	}
	for _, c := range cases {
		if got := ticksToClock(c.ticks); got != c.want {
			t.Errorf("ticksToClock(%d) = %q, want %q", c.ticks, got, c.want)
		}
	}
}

func TestFold(t *testing.T) {
	if got := fold("Beyoncé"); got != "beyonce" {
		t.Errorf("fold = %q", got)
	}
	if !foldContains("Motörhead live", "motorhead") {
		t.Error("expected diacritics-insensitive match")
	}
	if !foldEqual("Café del Mar", "cafe DEL mar") {
		t.Error("expected fold-equal match")
	}
	if foldContains("something else", "motorhead") {
		t.Error("unexpected match")
	}
}
