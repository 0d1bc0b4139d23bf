package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
)

// TimestampLayout is the timestamp embedded in export file names.
const TimestampLayout = "20060102_150405"

// MaxSheetNameLength is the worksheet name limit of spreadsheet programs.
const MaxSheetNameLength = 31

// DefaultSheetName is used when nothing usable remains of a sheet name.
const DefaultSheetName = "Sheet1"

// defaultTitle names exports of untitled charts.
const defaultTitle = "chart"

// Filename returns "{title}_{timestamp}.{ext}" with characters that are
// unsafe in file names replaced by underscores.
func Filename(title string, at time.Time, ext string) string {
	name := sanitizeFilename(title)
	if name == "" {
		name = defaultTitle
	}
	return fmt.Sprintf("%s_%s.%s", name, at.Format(TimestampLayout), strings.TrimPrefix(ext, "."))
}

func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case strings.ContainsRune(`\/:*?"<>|`, r), unicode.IsControl(r), unicode.IsSpace(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}

// SheetName returns the worksheet name for an export. With a period it is
// "{year}年{month}月_{exportType}", otherwise the chart title. Characters
// spreadsheets reject are removed and the result is cut to 31 characters.
func SheetName(period *Period, exportType, title string) string {
	name := title
	if period != nil {
		name = fmt.Sprintf("%d年%d月", period.Year, period.Month)
		if exportType != "" {
			name += "_" + exportType
		}
	}
	return sanitizeSheetName(name)
}

func sanitizeSheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.Trim(strings.TrimSpace(s), "'")
	if r := []rune(s); len(r) > MaxSheetNameLength {
		s = strings.TrimRight(string(r[:MaxSheetNameLength]), "'")
	}
	if strings.TrimSpace(s) == "" {
		return DefaultSheetName
	}
	return s
}

// String formats p as "2006-01".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ParsePeriod parses "2024-05". An empty string yields nil.
func ParsePeriod(s string) (*Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "invalid period %q, want YYYY-MM", s)
	}
	return &Period{Year: t.Year(), Month: int(t.Month())}, nil
}

// ParseKind validates an export kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !ValidKinds[k] {
		return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported export format: %q", s)
	}
	return k, nil
}
