package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/boshu2/guardian/internal/guarderrors"
	"github.com/boshu2/guardian/internal/policy"
)

// Writer is the append-only, hash-chained audit log: open-append-flock-write-
// unlock, with lazily recovered sequence/last-hash state resumed from the
// last successfully-parsed entry on a corrupt tail.
type Writer struct {
	mu    sync.Mutex
	path  string
	cfg   policy.AuditConfig
	ready bool
	seq   int
	last  string
}

// NewWriter builds a Writer for cfg, resolving a relative cfg.Path against
// cwd.
func NewWriter(cfg policy.AuditConfig, cwd string) *Writer {
	path := cfg.Path
	if path == "" {
		path = filepath.Join(".guardian", "audit.jsonl")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	return &Writer{path: path, cfg: cfg}
}

// Path returns the resolved audit file path.
func (w *Writer) Path() string {
	return w.path
}

// Append records one decision. It returns the fully-formed Entry (including
// its computed hash and sequence number) so the kill controller and CLI can
// inspect what was written.
func (w *Writer) Append(sessionID, tool string, input map[string]interface{}, result policy.ValidationResult, cwd string) (Entry, error) {
	if !w.cfg.Enabled {
		return Entry{}, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureDir(); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", guarderrors.ErrAuditIO, err)
	}

	if err := w.rotateIfNeededLocked(); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", guarderrors.ErrAuditIO, err)
	}

	if !w.ready {
		if err := w.loadTailLocked(); err != nil {
			return Entry{}, fmt.Errorf("%w: %v", guarderrors.ErrAuditIO, err)
		}
	}

	entryInput := input
	if !w.cfg.IncludeToolInput {
		entryInput = nil
	}

	var budgetSnap *BudgetSnapshot
	if result.Budget != nil {
		budgetSnap = &BudgetSnapshot{ActionCount: result.Budget.ActionCount}
		if result.Budget.RemainingUSD != nil {
			r := *result.Budget.RemainingUSD
			budgetSnap.RemainingUSD = &r
		}
	}

	entry := Entry{
		Version:  policy.CurrentVersion,
		Time:     time.Now().UTC().Truncate(time.Millisecond),
		Session:  sessionID,
		Seq:      w.seq + 1,
		Tool:     tool,
		Input:    entryInput,
		Allowed:  result.Allowed,
		Reason:   result.Reason,
		Severity: result.Severity,
		Pattern:  result.Pattern,
		Budget:   budgetSnap,
		CWD:      cwd,
	}

	hash, err := w.computeHash(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", guarderrors.ErrAuditIO, err)
	}
	entry.Hash = hash

	if err := w.appendLineLocked(entry); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", guarderrors.ErrAuditIO, err)
	}

	w.seq = entry.Seq
	w.last = hash

	return entry, nil
}

// computeHash returns "sha256:" + hex(SHA256(last_hash ||
// canonical_json(entry_without_hash))), or the literal "none" when integrity
// is disabled.
func (w *Writer) computeHash(entry Entry) (string, error) {
	if w.cfg.Integrity == "none" {
		return "none", nil
	}
	canon, err := entry.canonicalJSON()
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(append([]byte(w.last), canon...))
	return "sha256:" + hex.EncodeToString(h[:]), nil
}

func (w *Writer) ensureDir() error {
	return os.MkdirAll(filepath.Dir(w.path), 0700)
}

// appendLineLocked opens the file for append, acquires an exclusive flock,
// writes one JSON line, and releases the lock.
func (w *Writer) appendLineLocked(entry Entry) error {
	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("lock audit file: %w", err)
	}
	defer func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	}()

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

// loadTailLocked recovers the last sequence number and last hash from the
// tail of the current audit file. A missing file starts fresh at seq 0 /
// hash "". A corrupt trailing line also starts fresh, tolerating partial
// writes from processes aborted mid-append.
func (w *Writer) loadTailLocked() error {
	w.ready = true
	w.seq = 0
	w.last = ""

	f, err := os.Open(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	seq := 0
	last := ""
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			// Corrupt trailing line: stop here and resume from the last
			// good entry.
			break
		}
		seq = e.Seq
		last = e.Hash
	}

	w.seq = seq
	w.last = last
	return nil
}

// rotateIfNeededLocked rotates when the file size exceeds max_file_size_mb,
// or when daily rotation is on and the file's last-modified UTC date differs
// from today.
func (w *Writer) rotateIfNeededLocked() error {
	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	needRotate := false
	if w.cfg.MaxFileSizeMB > 0 {
		maxBytes := int64(w.cfg.MaxFileSizeMB * 1024 * 1024)
		if info.Size() > maxBytes {
			needRotate = true
		}
	}
	if w.cfg.Rotation == "daily" {
		if info.ModTime().UTC().Format("2006-01-02") != time.Now().UTC().Format("2006-01-02") {
			needRotate = true
		}
	}

	if !needRotate {
		return nil
	}

	return w.rotateLocked()
}

// rotateLocked renames the current audit file to
// <base>.<YYYY-MM-DD>[.N]<ext> and resets the cached sequence/hash state.
func (w *Writer) rotateLocked() error {
	dir := filepath.Dir(w.path)
	base := filepath.Base(w.path)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	date := time.Now().UTC().Format("2006-01-02")

	candidate := filepath.Join(dir, fmt.Sprintf("%s.%s%s", stem, date, ext))
	n := 1
	for {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			break
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s.%s.%d%s", stem, date, n, ext))
		n++
	}

	if err := os.Rename(w.path, candidate); err != nil {
		return fmt.Errorf("rotate audit file: %w", err)
	}

	w.ready = true
	w.seq = 0
	w.last = ""
	return nil
}

// Rotate forces an immediate rotation check, exposed for `guardian audit
// rotate`.
func (w *Writer) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		return nil
	}
	return w.rotateLocked()
}

// DefaultPath returns where the audit log lives when no policy could be
// loaded to resolve a configured path, for CLI commands operating without a
// project policy file.
func DefaultPath(cwd string) string {
	return filepath.Join(cwd, ".guardian", "audit.jsonl")
}

// RotateFile forces an immediate rotation of the audit file at path, for
// `guardian audit rotate` invocations that only have a bare path (no loaded
// AuditConfig) to work with.
func RotateFile(path string) error {
	w := &Writer{path: path, cfg: policy.AuditConfig{Enabled: true}}
	return w.Rotate()
}
