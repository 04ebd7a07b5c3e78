package audit

import (
	"bufio"
	"encoding/json"
	"os"
)

// Summary tallies an audit file's decisions for `guardian audit summary`.
type Summary struct {
	Total      int
	Allowed    int
	Denied     int
	ByTool     map[string]int
	BySeverity map[string]int
}

// Summarize reads every entry in path and tallies it. Malformed lines are
// skipped, matching the writer's own tolerance of a corrupt tail.
func Summarize(path string) (Summary, error) {
	s := Summary{ByTool: map[string]int{}, BySeverity: map[string]int{}}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		s.Total++
		if e.Allowed {
			s.Allowed++
		} else {
			s.Denied++
		}
		if e.Tool != "" {
			s.ByTool[e.Tool]++
		}
		if e.Severity != "" {
			s.BySeverity[string(e.Severity)]++
		}
	}

	return s, scanner.Err()
}
