package organizer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"
)

// DefaultPattern matches macOS screenshot names such as
// "Screenshot 2023-03-15 at 10.00.00.png". The three capture groups are
// year, month and day; the search is a substring match, not a full match.
const DefaultPattern = `Screenshot (\d{4})-(\d{2})-(\d{2}) at`

// Classification is the (year, month, day) triple parsed from a filename.
// It is derived from the name string only, never from filesystem metadata.
type Classification struct {
	Year  int
	Month int
	Day   int
}

// Classifier extracts dates from filenames and derives canonical
// destination paths for them.
type Classifier struct {
	re *regexp.Regexp
}

// monthNames 月份英文全名，1-indexed 使用时减一
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// NewClassifier compiles the given pattern. The pattern must contain at
// least three numeric capture groups (year, month, day). An empty pattern
// selects DefaultPattern.
func NewClassifier(pattern string) (*Classifier, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filename pattern: %w", err)
	}
	if re.NumSubexp() < 3 {
		return nil, fmt.Errorf("filename pattern needs 3 capture groups (year, month, day), got %d", re.NumSubexp())
	}
	return &Classifier{re: re}, nil
}

// Matches reports whether the filename contains the configured pattern.
func (c *Classifier) Matches(name string) bool {
	return c.re.MatchString(name)
}

// Classify applies the pattern anywhere in the filename and returns the
// first match's numeric groups. No range validation happens here: a name
// yielding month 13 classifies fine and fails later when the calendar
// date is constructed in Destination.
func (c *Classifier) Classify(name string) (Classification, bool) {
	m := c.re.FindStringSubmatch(name)
	if m == nil {
		return Classification{}, false
	}
	var cl Classification
	// 捕获组已由 \d 约束，Sscanf 不会失败
	fmt.Sscanf(m[1], "%d", &cl.Year)
	fmt.Sscanf(m[2], "%d", &cl.Month)
	fmt.Sscanf(m[3], "%d", &cl.Day)
	return cl, true
}

// Destination computes the deterministic target path
//
//	targetRoot/{year}-{month:02}-{MonthName}/Week{isoWeek:02}/{name}
//
// where the week number follows ISO-8601 (Monday first, week 1 contains
// the year's first Thursday). ErrNoDate is returned when the name does
// not classify; ErrInvalidDate when the classified triple is not a real
// calendar date.
func (c *Classifier) Destination(targetRoot, name string) (string, error) {
	cl, ok := c.Classify(name)
	if !ok {
		return "", ErrNoDate
	}
	date := time.Date(cl.Year, time.Month(cl.Month), cl.Day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (month 13 becomes
	// January of the next year), so a round-trip mismatch means the
	// pattern produced a non-date
	if date.Year() != cl.Year || int(date.Month()) != cl.Month || date.Day() != cl.Day {
		return "", fmt.Errorf("%w: %04d-%02d-%02d in %q", ErrInvalidDate, cl.Year, cl.Month, cl.Day, name)
	}
	_, week := date.ISOWeek()

	monthDir := fmt.Sprintf("%d-%02d-%s", cl.Year, cl.Month, monthNames[cl.Month-1])
	weekDir := fmt.Sprintf("Week%02d", week)
	return filepath.Join(targetRoot, monthDir, weekDir, name), nil
}
