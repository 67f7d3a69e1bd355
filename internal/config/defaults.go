package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default discovery root
	DefaultTestPath = "tests"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultProcessors is the default number of concurrent file loads, 0 means one per file
	DefaultProcessors = 0
	// DefaultHistoryDriver is the SQL driver used when only a DSN is configured
	DefaultHistoryDriver = "sqlite3"
	// DefaultHistoryLimit is the number of runs the history command shows
	DefaultHistoryLimit = 10
)

// Environment variables read from the process or the project's .env file
const (
	EnvTestPath      = "NTR_TEST_PATH"
	EnvProcessors    = "NTR_PROCESSORS"
	EnvHistoryDriver = "NTR_HISTORY_DRIVER"
	EnvHistoryDSN    = "NTR_HISTORY_DSN"
	EnvMetricsFile   = "NTR_METRICS_FILE"
)

// DefaultSuffixes mark test files: Go suites and declarative command suites
var DefaultSuffixes = []string{
	"_ntr.go",
	".ntr.yaml",
}

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"testdata",
}
