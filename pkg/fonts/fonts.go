// Package fonts locates and parses the TrueType font used for chart
// images and PDF documents.
//
// Chart labels are Traditional Chinese, so a CJK-capable font is
// preferred. [Load] uses an explicit path when one is configured, then
// searches well-known system locations, and finally falls back to the Go
// font shipped with golang.org/x/image, which covers Latin text only.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Family is the name the font is registered under in PDF documents.
const Family = "chart"

// Candidates are searched in order when no font path is configured.
var Candidates = []string{
	"/usr/share/fonts/truetype/noto/NotoSansTC-Regular.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
	"/usr/share/fonts/truetype/arphic/uming.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	`C:\Windows\Fonts\msjh.ttf`,
}

// Font is a loaded TrueType font.
type Font struct {
	Path string // empty for the built-in fallback
	TTF  []byte
	Face *truetype.Font
}

// Fallback reports whether f is the built-in Latin-only font.
func (f *Font) Fallback() bool { return f.Path == "" }

var (
	cacheMu sync.Mutex
	cache   = map[string]*Font{}
)

// Load returns the font at path, or the first usable candidate when path
// is empty. Fonts are parsed once per path and shared afterwards.
func Load(path string) (*Font, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if f, ok := cache[path]; ok {
		return f, nil
	}
	f, err := load(path)
	if err != nil {
		return nil, err
	}
	cache[path] = f
	return f, nil
}

func load(path string) (*Font, error) {
	if path != "" {
		return parseFile(path)
	}
	for _, p := range Candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if f, err := parseFile(p); err == nil {
			return f, nil
		}
	}
	face, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse built-in font: %w", err)
	}
	return &Font{TTF: goregular.TTF, Face: face}, nil
}

func parseFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	face, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &Font{Path: path, TTF: data, Face: face}, nil
}
