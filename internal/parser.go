package internal

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Parser reads a user's profile and cashflow records from a file
type Parser interface {
	Parse(path string) (UserData, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string) (UserData, error)

func (f ParserFunc) Parse(path string) (UserData, error) {
	return f(path)
}

// parsers is the registry of available parsers
var parsers = map[string]Parser{}

// extensions maps file extensions to the parser used when no source is given
var extensions = map[string]string{}

// RegisterParser registers a parser with the given name and the file
// extensions it handles by default
func RegisterParser(name string, p Parser, exts ...string) {
	parsers[name] = p
	for _, ext := range exts {
		extensions[strings.ToLower(ext)] = name
	}
}

// GetParser returns the parser for the given source type
func GetParser(source string) (Parser, error) {
	p, ok := parsers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s (available: %v)", source, AvailableSources())
	}
	return p, nil
}

// AvailableSources returns a sorted list of registered source types
func AvailableSources() []string {
	var sources []string
	for name := range parsers {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

// IsKnownParser returns true if the name is a registered parser
func IsKnownParser(name string) bool {
	_, ok := parsers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "profile-json:data.json" → ("profile-json", "data.json")
// Example: "data.json" → ("", "data.json")
// Example: "C:\path\file.xlsx" → ("", "C:\path\file.xlsx") // Windows path
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownParser(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known parser, treat whole thing as path
}

// DetectSource picks a parser from the file extension.
func DetectSource(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if name, ok := extensions[ext]; ok {
		return name, nil
	}
	return "", fmt.Errorf("cannot detect source type of %s, use --source or a format prefix (available: %v)", path, AvailableSources())
}

// ReadUserData resolves the parser for arg (explicit source, format prefix,
// then file extension) and parses the file.
func ReadUserData(source, arg string) (UserData, error) {
	format, path := ParseFileArg(arg)
	if source == "" {
		source = format
	}
	if source == "" {
		detected, err := DetectSource(path)
		if err != nil {
			return UserData{}, err
		}
		source = detected
	}

	p, err := GetParser(source)
	if err != nil {
		return UserData{}, err
	}
	return p.Parse(path)
}
