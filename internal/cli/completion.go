package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// completionFlag describes one flag offered by the completion scripts.
type completionFlag struct {
	Long   string
	Short  string
	Desc   string
	Values []string // fixed candidate values; nil for free text
	File   bool     // complete file names
	Arg    bool     // takes an argument
}

func completionFlags(formats []string) []completionFlag {
	return []completionFlag{
		{Long: "help", Short: "h", Desc: "Show help message"},
		{Long: "version", Short: "V", Desc: "Show version information"},
		{Long: "n", Desc: "Number of coordinates to generate", Arg: true},
		{Long: "format", Desc: "Output format", Values: formats, Arg: true},
		{Long: "output", Short: "o", Desc: "Output file path", File: true, Arg: true},
		{Long: "db", Desc: "SQLite database path", File: true, Arg: true},
		{Long: "timeout", Desc: "Maximum execution time", Values: []string{"10s", "1m", "5m", "30m"}, Arg: true},
		{Long: "batch-size", Desc: "Coordinates per output batch", Values: []string{"256", "1024", "4096"}, Arg: true},
		{Long: "server", Desc: "Start HTTP server mode"},
		{Long: "port", Desc: "Server port", Values: []string{"8080", "3000", "5000", "9000"}, Arg: true},
		{Long: "max-n", Desc: "Largest count per HTTP request", Arg: true},
		{Long: "interactive", Desc: "Start interactive REPL mode"},
		{Long: "completion", Desc: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, Arg: true},
		{Long: "calibrate", Desc: "Benchmark batch sizes"},
		{Long: "calibration-profile", Desc: "Calibration profile path", File: true, Arg: true},
		{Long: "quiet", Short: "q", Desc: "Coordinates only, for scripts"},
		{Long: "details", Short: "d", Desc: "Show ring statistics"},
		{Long: "no-color", Desc: "Disable colored output"},
		{Long: "log-level", Desc: "Minimum log level", Values: []string{"debug", "info", "warn", "error"}, Arg: true},
		{Long: "profile", Desc: "Profile the run", Values: []string{"cpu", "mem"}, Arg: true},
		{Long: "profile-dir", Desc: "Directory for profiles", File: true, Arg: true},
	}
}

var completionFuncs = template.FuncMap{
	"join": strings.Join,
	"dash": func(name string) string {
		if len(name) == 1 {
			return "-" + name
		}
		return "--" + name
	},
	"quoteAll": func(values []string) string {
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = "'" + v + "'"
		}
		return strings.Join(quoted, ", ")
	},
}

var completionTemplates = map[string]*template.Template{
	"bash":       template.Must(template.New("bash").Funcs(completionFuncs).Parse(bashTemplate)),
	"zsh":        template.Must(template.New("zsh").Funcs(completionFuncs).Parse(zshTemplate)),
	"fish":       template.Must(template.New("fish").Funcs(completionFuncs).Parse(fishTemplate)),
	"powershell": template.Must(template.New("powershell").Funcs(completionFuncs).Parse(powershellTemplate)),
}

// GenerateCompletion writes the completion script of shell ("bash", "zsh",
// "fish", "powershell" or "ps") to out. formats lists the values offered for
// -format.
func GenerateCompletion(out io.Writer, shell string, formats []string) error {
	if shell == "ps" {
		shell = "powershell"
	}
	tmpl, ok := completionTemplates[shell]
	if !ok {
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	return tmpl.Execute(out, completionFlags(formats))
}

const bashTemplate = `# Bash completion script for ulam
# Add this to your ~/.bashrc or ~/.bash_completion

_ulam_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="{{range $i, $f := .}}{{if $i}} {{end}}{{dash $f.Long}}{{if $f.Short}} -{{$f.Short}}{{end}}{{end}}"

    case "${prev}" in
{{- range .}}{{if .Values}}
        {{dash .Long}})
            COMPREPLY=( $(compgen -W "{{join .Values " "}}" -- "${cur}") )
            return 0
            ;;
{{- else if .File}}
        {{dash .Long}}{{if .Short}}|-{{.Short}}{{end}})
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
{{- end}}{{end}}
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _ulam_completions ulam
`

const zshTemplate = `#compdef ulam

# Zsh completion script for ulam
# Add this to your ~/.zshrc or place in $fpath

_ulam() {
    _arguments -s \
{{- range .}}
        {{if .Short}}'(-{{.Short}} {{dash .Long}})'{-{{.Short}},{{dash .Long}}}'{{else}}'{{dash .Long}}{{end}}[{{.Desc}}]{{if .Values}}:value:({{join .Values " "}}){{else if .File}}:file:_files{{else if .Arg}}:value:{{end}}' \
{{- end}}
        '*::'
}

_ulam "$@"
`

const fishTemplate = `# Fish completion script for ulam
# Add this to ~/.config/fish/completions/ulam.fish

complete -c ulam -f
{{range .}}complete -c ulam {{if eq (len .Long) 1}}-s {{.Long}}{{else}}-l {{.Long}}{{end}}{{if .Short}} -s {{.Short}}{{end}} -d '{{.Desc}}'{{if .Values}} -xa '{{join .Values " "}}'{{else if .File}} -rF{{else if .Arg}} -x{{end}}
{{end}}`

const powershellTemplate = `# PowerShell completion script for ulam
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'ulam' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
{{- range .}}
        @{Name = '{{dash .Long}}'; Description = '{{.Desc}}' }
{{- if .Short}}
        @{Name = '-{{.Short}}'; Description = '{{.Desc}}' }
{{- end}}{{end}}
    )

    $values = @{
{{- range .}}{{if .Values}}
        '{{dash .Long}}' = @({{quoteAll .Values}})
{{- end}}{{end}}
    }

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    if ($values.ContainsKey($prevElement)) {
        $values[$prevElement] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`
