package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/boshu2/guardian/internal/guarderrors"
)

// VerifyResult is the outcome of verifying an audit file's hash chain.
type VerifyResult struct {
	Valid      bool
	Entries    int
	BrokenAt   int // 1-based index of the first broken or unparseable entry; 0 when Valid.
	BrokenKind string
}

// VerifyChain scans path top to bottom, recomputing each entry's expected
// hash from its predecessor and content. An empty or absent file is valid
// with zero entries. A break returns the populated result plus an error
// wrapping guarderrors.ErrChainBroken, so callers can errors.Is-check the
// failure as well as inspect BrokenAt.
func VerifyChain(path string) (VerifyResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return VerifyResult{Valid: true}, nil
		}
		return VerifyResult{}, err
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	last := ""
	idx := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		idx++

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return broken(idx, "unparseable")
		}

		if e.Hash == "none" {
			last = ""
			continue
		}

		expected, err := expectedHash(e, last)
		if err != nil {
			return broken(idx, "unhashable")
		}
		if e.Hash != expected {
			return broken(idx, "mismatch")
		}

		last = e.Hash
	}
	if err := scanner.Err(); err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{Valid: true, Entries: idx}, nil
}

func broken(idx int, kind string) (VerifyResult, error) {
	res := VerifyResult{Valid: false, Entries: idx, BrokenAt: idx, BrokenKind: kind}
	return res, fmt.Errorf("%w: entry %d (%s)", guarderrors.ErrChainBroken, idx, kind)
}

// expectedHash recomputes the hash of e given the previous entry's hash.
func expectedHash(e Entry, last string) (string, error) {
	canon, err := e.canonicalJSON()
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(append([]byte(last), canon...))
	return "sha256:" + hex.EncodeToString(h[:]), nil
}
