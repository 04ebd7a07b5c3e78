package shellguard

import (
	"reflect"
	"testing"
)

func TestStrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no quotes", `rm -rf /`, `rm -rf /`},
		{"single quoted literal elided", `echo 'rm -rf /'`, `echo `},
		{"double quoted literal elided", `echo "rm -rf /"`, `echo `},
		{"double quote escape", `echo "a\"b"`, `echo `},
		{"unclosed single quote consumes rest", `echo 'unterminated`, `echo `},
		{"mixed", `echo "safe" && rm -rf /`, `echo  && rm -rf /`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Strip(c.in); got != c.want {
				t.Errorf("Strip(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "echo hi", []string{"echo hi"}},
		{"and-and", "echo hi && rm -rf /", []string{"echo hi", "rm -rf /"}},
		{"pipe", "cat file | grep foo", []string{"cat file", "grep foo"}},
		{"semicolon", "echo a; echo b", []string{"echo a", "echo b"}},
		{"or-or", "false || rm -rf /", []string{"false", "rm -rf /"}},
		{"quoted operator not split", `echo "a && b"`, []string{"echo "}},
		{"subshell depth not split", "(echo a && echo b)", []string{"(echo a && echo b)"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Segments(c.in)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("Segments(%q) = %#v, want %#v", c.in, got, c.want)
			}
		})
	}
}

func TestSubstitutions(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"none", "echo hi", nil},
		{"dollar paren", "echo $(whoami)", []string{"whoami"}},
		{"nested", "echo $(echo $(whoami))", []string{"echo $(whoami)", "whoami"}},
		{"backtick", "echo `whoami`", []string{"whoami"}},
		{"both", "echo $(id) and `whoami`", []string{"id", "whoami"}},
		{"single quoted is literal", "echo '$(whoami)'", nil},
		{"double quoted still executes", `echo "$(whoami)"`, []string{"whoami"}},
		{"backtick in double quotes", "echo \"`whoami`\"", []string{"whoami"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Substitutions(c.in)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("Substitutions(%q) = %#v, want %#v", c.in, got, c.want)
			}
		})
	}
}

func TestScenarioQuotedLiteralIsSafe(t *testing.T) {
	p := Process(`echo "rm -rf /"`)
	if p.Stripped != `echo ` {
		t.Errorf("expected literal stripped, got %q", p.Stripped)
	}
}

func TestScenarioChainedCommandSplitsSegments(t *testing.T) {
	p := Process("echo hi && rm -rf /")
	if len(p.Segments) != 2 || p.Segments[1] != "rm -rf /" {
		t.Errorf("expected second segment to be the destructive command, got %#v", p.Segments)
	}
}
