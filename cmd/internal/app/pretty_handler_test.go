package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestPrettyHandlerLine(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Info("session.start", "game_id", "game_a_b", "white", "alice", "empty", "", "spaced", "two words")

	line := buf.String()
	for _, want := range []string{
		"lvl=[INFO]",
		"msg=session.start",
		"game_id=game_a_b",
		"white=alice",
		`empty=""`,
		`spaced="two words"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil)).WithGroup("http").With("method", "GET")

	log.Info("http.request", "status", 200)

	line := buf.String()
	if !strings.Contains(line, "http.method=GET") || !strings.Contains(line, "http.status=200") {
		t.Fatalf("group prefix missing in %q", line)
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"", `""`},
		{"plain", "plain"},
		{"two words", `"two words"`},
		{`has"quote`, `"has\"quote"`},
		{"k=v", `"k=v"`},
	}
	for _, tc := range cases {
		if got := quoteIfNeeded(tc.in); got != tc.want {
			t.Fatalf("quoteIfNeeded(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}
