package discover

import "testing"

func TestIgnoreMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"*.log", "test.log", false, true},
		{"*.log", "test.txt", false, false},
		{"*.log", "logs/test.log", false, true},

		{"node_modules/", "node_modules", true, true},
		{"node_modules/", "node_modules/@nestjs/core/index.js", false, true},
		{"node_modules/", "apps/api/node_modules", true, true},

		{"build/*", "build/main.js", false, true},
		{"build/*", "build", true, false},

		{"!important.log", "important.log", false, false},

		{"**/temp", "temp", false, true},
		{"**/temp", "src/lib/temp", false, true},

		{"/main.ts", "main.ts", false, true},
		{"/main.ts", "src/main.ts", false, false},

		{"*.d.ts", "src/types/env.d.ts", false, true},
		{"*.d.ts", "src/users.service.ts", false, false},
	}

	for _, tt := range tests {
		got := NewIgnore(tt.pattern).Match(tt.path, tt.isDir)
		if got != tt.want {
			t.Errorf("pattern %q, path %q (isDir=%v): got %v, want %v",
				tt.pattern, tt.path, tt.isDir, got, tt.want)
		}
	}
}

func TestIgnoreLastRuleWins(t *testing.T) {
	ig := NewIgnore("# generated", "", "*.spec.ts", "!users.spec.ts")

	tests := []struct {
		path string
		want bool
	}{
		{"src/app.spec.ts", true},
		{"src/users.spec.ts", false},
		{"src/app.service.ts", false},
	}
	for _, tt := range tests {
		if got := ig.Match(tt.path, false); got != tt.want {
			t.Errorf("path %q: got %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIgnoreNil(t *testing.T) {
	var ig *Ignore
	if ig.Match("anything", false) {
		t.Error("nil Ignore should match nothing")
	}
}
