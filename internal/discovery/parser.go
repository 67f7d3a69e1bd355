package discovery

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parser extracts test descriptions from test files without running them
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// Matches s.Test("description", ...) and s.Test(`description`, ...) in Go suites
var goTestPattern = regexp.MustCompile("(?m)\\.Test\\(\\s*(\"(?:[^\"\\\\]|\\\\.)*\"|`[^`]*`)")

// FindTestCases finds all test descriptions declared in a test file, in declaration order
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	if strings.HasSuffix(filePath, ".go") {
		return p.findGoTestCases(string(content)), nil
	}
	return p.findYAMLTestCases(filePath, content)
}

func (p *Parser) findGoTestCases(content string) []string {
	var testCases []string
	for _, match := range goTestPattern.FindAllStringSubmatch(content, -1) {
		if len(match) < 2 {
			continue
		}
		name, err := strconv.Unquote(match[1])
		if err != nil {
			continue
		}
		testCases = append(testCases, name)
	}
	return testCases
}

func (p *Parser) findYAMLTestCases(filePath string, content []byte) ([]string, error) {
	var doc struct {
		Tests []struct {
			Description string `yaml:"description"`
		} `yaml:"tests"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("error parsing file %s: %w", filePath, err)
	}

	testCases := make([]string, 0, len(doc.Tests))
	for _, tc := range doc.Tests {
		testCases = append(testCases, tc.Description)
	}
	return testCases, nil
}
