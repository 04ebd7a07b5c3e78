package policy

import (
	"fmt"
	"regexp"

	"github.com/boshu2/guardian/internal/guarderrors"
)

// Compiled holds the compiled regexes for one loaded policy, keyed by the
// four blocklist categories: compiled once per policy load, never silently
// skipped on a compile failure.
type Compiled struct {
	Commands []CompiledCommand
	Files    []CompiledFile
	Secrets  []CompiledSecret
	Network  []CompiledNetwork
}

// CompiledCommand pairs a compiled regex with its originating CommandPattern.
type CompiledCommand struct {
	Regex *regexp.Regexp
	CommandPattern
}

// CompiledFile pairs a compiled regex with its originating FilePattern.
type CompiledFile struct {
	Regex *regexp.Regexp
	FilePattern
}

// CompiledSecret pairs a compiled regex with its originating SecretPattern.
type CompiledSecret struct {
	Regex *regexp.Regexp
	SecretPattern
}

// CompiledNetwork pairs a compiled regex with its originating NetworkPattern.
type CompiledNetwork struct {
	Regex *regexp.Regexp
	NetworkPattern
}

// Compile compiles every regex in a Blocklist. A single uncompilable pattern
// fails the whole load rather than being silently dropped.
func Compile(bl Blocklist) (*Compiled, error) {
	c := &Compiled{}

	for _, p := range bl.Commands {
		re, err := compileOne(p.Pattern, p.Flags)
		if err != nil {
			return nil, fmt.Errorf("%w: command pattern %q: %v", guarderrors.ErrPatternInvalid, p.Pattern, err)
		}
		c.Commands = append(c.Commands, CompiledCommand{Regex: re, CommandPattern: p})
	}

	for _, p := range bl.FilePatterns {
		re, err := compileOne(p.Pattern, p.Flags)
		if err != nil {
			return nil, fmt.Errorf("%w: file pattern %q: %v", guarderrors.ErrPatternInvalid, p.Pattern, err)
		}
		c.Files = append(c.Files, CompiledFile{Regex: re, FilePattern: p})
	}

	for _, p := range bl.SecretPatterns {
		re, err := compileOne(p.Pattern, p.Flags)
		if err != nil {
			return nil, fmt.Errorf("%w: secret pattern %q: %v", guarderrors.ErrPatternInvalid, p.Pattern, err)
		}
		c.Secrets = append(c.Secrets, CompiledSecret{Regex: re, SecretPattern: p})
	}

	for _, p := range bl.Network {
		re, err := compileOne(p.Pattern, p.Flags)
		if err != nil {
			return nil, fmt.Errorf("%w: network pattern %q: %v", guarderrors.ErrPatternInvalid, p.Pattern, err)
		}
		c.Network = append(c.Network, CompiledNetwork{Regex: re, NetworkPattern: p})
	}

	return c, nil
}

// compileOne compiles pattern, applying case-insensitivity when flags
// contains "i" (the only documented flag).
func compileOne(pattern, flags string) (*regexp.Regexp, error) {
	expr := pattern
	for _, f := range flags {
		if f == 'i' {
			expr = "(?i)" + expr
			break
		}
	}
	return regexp.Compile(expr)
}

// HasOperation reports whether ops contains op.
func HasOperation(ops []Operation, op Operation) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}
