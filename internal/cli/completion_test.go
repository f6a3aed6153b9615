package cli

import (
	"bytes"
	"strings"
	"testing"
)

var testFormats = []string{"text", "json", "csv", "yaml", "grid"}

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{
			"_ulam_completions()",
			"complete -F _ulam_completions ulam",
			"--format)",
			`compgen -W "text json csv yaml grid"`,
			"--output|-o)",
			"-n --format",
		}},
		{"zsh", []string{
			"#compdef ulam",
			`'(-o --output)'{-o,--output}'[Output file path]:file:_files' \`,
			"'--format[Output format]:value:(text json csv yaml grid)' \\",
			"'-n[Number of coordinates to generate]:value:' \\",
		}},
		{"fish", []string{
			"complete -c ulam -f",
			"complete -c ulam -l format -d 'Output format' -xa 'text json csv yaml grid'",
			"complete -c ulam -s n -d 'Number of coordinates to generate' -x",
			"complete -c ulam -l output -s o -d 'Output file path' -rF",
		}},
		{"powershell", []string{
			"Register-ArgumentCompleter -CommandName 'ulam'",
			"@{Name = '--interactive'; Description = 'Start interactive REPL mode' }",
			"'--format' = @('text', 'json', 'csv', 'yaml', 'grid')",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell, testFormats); err != nil {
				t.Fatalf("GenerateCompletion(%s) error: %v", tt.shell, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q:\n%s", tt.shell, want, buf.String())
				}
			}
		})
	}
}

func TestGenerateCompletion_PowerShellAlias(t *testing.T) {
	t.Parallel()
	var ps, full bytes.Buffer
	if err := GenerateCompletion(&ps, "ps", testFormats); err != nil {
		t.Fatal(err)
	}
	if err := GenerateCompletion(&full, "powershell", testFormats); err != nil {
		t.Fatal(err)
	}
	if ps.String() != full.String() {
		t.Error("ps should be an alias for powershell")
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := GenerateCompletion(&buf, "tcsh", testFormats)
	if err == nil {
		t.Fatal("expected an error for an unsupported shell")
	}
	if !strings.Contains(err.Error(), "unsupported shell: tcsh") {
		t.Errorf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written for an unsupported shell")
	}
}
