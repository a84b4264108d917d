package event

import "testing"

func TestLikeEscaperMatchesLiterally(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "standup", want: "standup"},
		{in: "50% off", want: `50\% off`},
		{in: "q1_review", want: `q1\_review`},
		{in: `C:\notes`, want: `C:\\notes`},
		{in: `\%_`, want: `\\\%\_`},
	}
	for _, tt := range tests {
		if got := likeEscaper.Replace(tt.in); got != tt.want {
			t.Errorf("likeEscaper.Replace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
