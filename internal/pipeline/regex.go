package pipeline

import "regexp"

// compiledPattern is a user regex pattern after its synthetic "n" flag
// has been parsed out into Negate, per §4.3.3/§9's "Regex negation via
// a synthetic n flag" design note.
type compiledPattern struct {
	Name   string
	Source string
	Negate bool
	re     *regexp.Regexp
}

// compileUserPattern treats a leading "n" as the negation flag ("nfoo"
// is "foo", negated) and compiles the remainder case-insensitively. No
// other delimiters or flags are parsed: "n/foo/i" compiles the literal
// text "/foo/i". Disallowed or invalid patterns compile to nil, treated
// as never-matching.
func compileUserPattern(name, pattern string, allowed bool) compiledPattern {
	cp := compiledPattern{Name: name, Source: pattern}
	if !allowed {
		return cp
	}
	body := pattern
	if len(body) > 0 && body[0] == 'n' {
		cp.Negate = true
		body = body[1:]
	}
	re, err := regexp.Compile("(?i)" + body)
	if err != nil {
		return compiledPattern{Name: name, Source: pattern}
	}
	cp.re = re
	return cp
}

// matches reports whether any of the candidate strings match the
// compiled pattern, after negation.
func (c compiledPattern) matches(candidates ...string) bool {
	if c.re == nil {
		return false
	}
	hit := false
	for _, cand := range candidates {
		if cand != "" && c.re.MatchString(cand) {
			hit = true
			break
		}
	}
	if c.Negate {
		return !hit
	}
	return hit
}

func streamMatchCandidates(s *ParsedStream) []string {
	candidates := []string{s.Filename, s.FolderName, s.Indexer}
	if s.ParsedFile != nil {
		candidates = append(candidates, s.ParsedFile.ReleaseGroup)
	}
	return candidates
}
