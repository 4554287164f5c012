package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/household-planner/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the report in the named format to a timestamped file in dir
// and returns the file name. "all" writes the console and csv variants.
func GenerateReport(report *domain.Report, format, dir string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(format), "all") {
		var files []string
		for _, f := range []Formatter{ConsoleFormatter{}, CSVExporter{}} {
			name, err := WriteFormatted(f, report, dir, extensionFor(f.Name()))
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	name, err := WriteFormatted(f, report, dir, extensionFor(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// Render formats the report without touching the filesystem
func Render(report *domain.Report, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return f.Format(report)
}

// SavePlan writes a plan as YAML, the format plan files are loaded from
func SavePlan(plan any, filename string) error {
	b, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
