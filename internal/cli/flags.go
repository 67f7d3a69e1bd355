package cli

import "ntr/internal/config"

// Flags holds command-line flags
type Flags struct {
	Processors    int
	ProcessorsSet bool
	TestPaths     []string
	TestCases     bool
	Quiet         bool
	NoProgress    bool
	OpenFaills    bool
	Verbose       bool
	HistoryDriver string
	HistoryDSN    string
	MetricsFile   string
	HistoryLimit  int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:    f.Processors,
		ProcessorsSet: f.ProcessorsSet,
		TestPaths:     append([]string{}, f.TestPaths...),
		TestCases:     f.TestCases,
		Quiet:         f.Quiet,
		NoProgress:    f.NoProgress,
		OpenFaills:    f.OpenFaills,
		Verbose:       f.Verbose,
		HistoryDriver: f.HistoryDriver,
		HistoryDSN:    f.HistoryDSN,
		MetricsFile:   f.MetricsFile,
		HistoryLimit:  f.HistoryLimit,
	}
}
