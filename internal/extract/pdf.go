// Package extract turns uploaded PDF files into plain text for prompt building.
package extract

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"studyflow/internal/util"
)

// ErrBadPageRange marks a page range the client sent that cannot be parsed.
var ErrBadPageRange = errors.New("invalid page range")

// PageRange selects which pages of a document to extract. All covers the
// whole document; otherwise Start and End are a 1-based inclusive pair.
type PageRange struct {
	All   bool
	Start int
	End   int
}

func (pr PageRange) String() string {
	if pr.All {
		return "all"
	}
	return fmt.Sprintf("%d-%d", pr.Start, pr.End)
}

// ParsePageRange accepts "all" or an inclusive pair such as "3-7".
func ParsePageRange(s string) (PageRange, error) {
	s = strings.TrimSpace(s)
	if s == "all" {
		return PageRange{All: true}, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return PageRange{}, ErrBadPageRange
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return PageRange{}, ErrBadPageRange
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return PageRange{}, ErrBadPageRange
	}
	if start < 1 || end < start {
		return PageRange{}, ErrBadPageRange
	}
	return PageRange{Start: start, End: end}, nil
}

// Result is the extracted text for one (document, page range) pair.
type Result struct {
	Text  string
	Pages int
}

// Extractor reads PDF text and caches results keyed by the document's
// content hash and the requested page range, so re-uploads of the same
// file skip the decode.
type Extractor struct {
	cache   *extractCache
	extract func(path string, pr PageRange) (Result, error)
}

func New(cacheSize int) *Extractor {
	return &Extractor{
		cache:   newExtractCache(cacheSize),
		extract: extractPages,
	}
}

func (e *Extractor) ExtractFile(path string, pr PageRange) (Result, error) {
	hash, err := fileHash(path)
	if err != nil {
		return Result{}, err
	}
	key := cacheKey{hash: hash, pages: pr.String()}
	if res, ok := e.cache.get(key); ok {
		return res, nil
	}
	res, err := e.extract(path, pr)
	if err != nil {
		return Result{}, err
	}
	e.cache.put(key, res)
	return res, nil
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()
	sum, err := util.SHA256HexFromReader(f)
	if err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return sum, nil
}

func extractPages(path string, pr PageRange) (res Result, err error) {
	// The decoder panics on some malformed files.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("decode pdf: %v", p)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	start, end := clampRange(pr, r.NumPage())
	var pages []string
	for i := start; i <= end; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText(p))
	}
	text := util.SanitizeText(strings.Join(pages, "\n"))
	return Result{Text: text, Pages: len(pages)}, nil
}

// clampRange maps a parsed range onto a document with total pages. A start
// past the end of the document yields an empty range rather than an error.
func clampRange(pr PageRange, total int) (start, end int) {
	if pr.All {
		return 1, total
	}
	start, end = pr.Start, pr.End
	if end > total {
		end = total
	}
	return start, end
}

// pageText extracts one page, treating undecodable pages as empty.
func pageText(p pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	txt, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return txt
}
