package sentiment

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"strings"

	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
)

//go:embed data/seed_reviews.tsv
var seedReviews []byte

type Dataset struct {
	Texts  []string
	Labels []bool
}

func (d *Dataset) Len() int {
	return len(d.Texts)
}

// SeedDataset is the small labelled review set bundled with the binary.
func SeedDataset() (*Dataset, error) {
	return ParseTSV(bytes.NewReader(seedReviews))
}

// ParseTSV reads "label<TAB>text" lines. Labels are 1/0 or
// positive/negative. Blank lines and lines starting with '#' are skipped.
func ParseTSV(r io.Reader) (*Dataset, error) {
	ds := &Dataset{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		label, text, ok := strings.Cut(raw, "\t")
		if !ok || strings.TrimSpace(text) == "" {
			return nil, appErr.Invalidf("line %d: want label<TAB>text", line)
		}
		var positive bool
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "1", "pos", "positive":
			positive = true
		case "0", "neg", "negative":
		default:
			return nil, appErr.Invalidf("line %d: unknown label %q", line, label)
		}
		ds.Texts = append(ds.Texts, strings.TrimSpace(text))
		ds.Labels = append(ds.Labels, positive)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, appErr.Invalidf("dataset is empty")
	}
	return ds, nil
}
