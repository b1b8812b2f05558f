package triplog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xeno347/supervisor-final/internal/types"
)

// IST is the day boundary for journal files.
var IST = time.FixedZone("IST", 19800)

const ext = ".jsonl"

type Entry struct {
	ID      string        `json:"id"`
	Time    string        `json:"time"`
	OrderID string        `json:"order_id"`
	Row     types.TripRow `json:"row"`
	// Source is "live" for stream events.
	Source string `json:"source,omitempty"`
}

// Journal appends accepted live trips to one JSON-lines file per IST day.
// It is write-only; nothing reads it back.
type Journal struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func New(dir string) *Journal {
	if dir == "" {
		dir = "logs/trips"
	}
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) Dir() string {
	return j.dir
}

func (j *Journal) dailyFilepath(t time.Time) string {
	return filepath.Join(j.dir, t.In(IST).Format("2006-01-02")+ext)
}

// Append stamps e with an id and IST time and writes it as one line.
func (j *Journal) Append(e Entry) (Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now().In(IST)
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Time = now.Format("2006-01-02 15:04:05")

	p := j.dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return e, err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return e, err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return e, err
	}
	_, err = fmt.Fprintln(f, string(b))
	return e, err
}

// CompressOlder gzips journal files last modified more than retentionDays ago.
// Files that fail to compress are left in place.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().AddDate(0, 0, -retentionDays)

	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(p, ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := compress(p, gz); err != nil {
			_ = os.Remove(gz)
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}

func compress(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
