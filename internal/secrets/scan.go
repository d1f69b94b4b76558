// Package secrets implements a conservative pre-commit scanner for likely
// credential leaks: long tokens with high Shannon entropy and sk- style API
// keys. Findings report file and line only — never the token itself.
package secrets

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
)

const (
	minTokenLength   = 30
	entropyThreshold = 4.0
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9-_+/=]{16,}`)

// Finding locates a likely secret without reproducing it.
type Finding struct {
	Path string
	Line int
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d", f.Path, f.Line)
}

// entropy is Shannon entropy per character.
func entropy(s string) float64 {
	if s == "" {
		return 0
	}
	freq := map[rune]int{}
	total := 0
	for _, ch := range s {
		freq[ch]++
		total++
	}
	var e float64
	for _, n := range freq {
		p := float64(n) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}

// likelySecret flags tokens that are long enough and either carry an sk-
// prefix or look random.
func likelySecret(tok string) bool {
	if len(tok) < minTokenLength {
		return false
	}
	if strings.HasPrefix(tok, "sk-") {
		return true
	}
	return entropy(tok) > entropyThreshold
}

// ScanText scans one document and returns the findings.
func ScanText(path, text string) []Finding {
	var findings []Finding
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		for _, tok := range tokenPattern.FindAllString(scanner.Text(), -1) {
			if likelySecret(tok) {
				findings = append(findings, Finding{Path: path, Line: line})
			}
		}
	}
	return findings
}

// ScanFiles scans each file and aggregates the findings. Unreadable files
// are skipped — the scanner is advisory, not a gate on file permissions.
func ScanFiles(paths []string) ([]Finding, error) {
	var all []Finding
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		all = append(all, ScanText(p, string(raw))...)
	}
	return all, nil
}
