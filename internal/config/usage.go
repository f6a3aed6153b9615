package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/ulam/internal/ui"
)

// usageSections orders the flags in the help text. Flags not listed here
// are printed under "Other".
var usageSections = []struct {
	title string
	flags []string
}{
	{"Generation", []string{"n", "format", "output", "o", "db", "timeout", "batch-size"}},
	{"Server", []string{"server", "port", "max-n"}},
	{"Modes", []string{"interactive", "completion", "calibrate", "calibration-profile"}},
	{"Display", []string{"quiet", "q", "details", "d", "no-color", "log-level"}},
	{"Profiling", []string{"profile", "profile-dir"}},
}

// setCustomUsage installs a colored, sectioned usage function on fs.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		// NO_COLOR applies before the theme is initialized.
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}
		out := fs.Output()

		printFlag := func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			sig := "-" + f.Name
			if name != "" {
				sig += " " + name
			}
			fmt.Fprintf(out, "  %s%-26s%s %s", t.Primary, sig, t.Reset, usage)
			switch f.DefValue {
			case "", "0", "false":
			default:
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		}

		fmt.Fprintf(out, "\n%sUlam Spiral Generator%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Walks the integer lattice in an outward square spiral from (0,0).\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n", t.Warning, t.Reset, fs.Name())

		seen := make(map[string]bool)
		for _, section := range usageSections {
			fmt.Fprintf(out, "\n%s%s:%s\n", t.Warning, section.title, t.Reset)
			for _, name := range section.flags {
				if f := fs.Lookup(name); f != nil {
					printFlag(f)
					seen[name] = true
				}
			}
		}

		var rest []*flag.Flag
		fs.VisitAll(func(f *flag.Flag) {
			if !seen[f.Name] {
				rest = append(rest, f)
			}
		})
		if len(rest) > 0 {
			fmt.Fprintf(out, "\n%sOther:%s\n", t.Warning, t.Reset)
			for _, f := range rest {
				printFlag(f)
			}
		}

		fmt.Fprintf(out, "\n%sEnvironment:%s\n  Every flag can be set through %s<NAME>, e.g. %sN=100 or %sFORMAT=csv.\n\n",
			t.Warning, t.Reset, EnvPrefix, EnvPrefix, EnvPrefix)
	}
}
