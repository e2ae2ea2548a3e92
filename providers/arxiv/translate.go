package arxiv

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed/atom"

	"research-desk/models"
)

// Translate reads an arXiv Atom response. Entries without an id or a title
// are skipped. When the document does not parse as a whole (a body cut off
// mid-entry, say) each complete <entry> block is parsed on its own and the
// ones that parse are returned together with the document's parse error.
func Translate(r io.Reader) ([]models.ArxivPaper, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return []models.ArxivPaper{}, err
	}

	feed, err := (&atom.Parser{}).Parse(bytes.NewReader(body))
	if err != nil {
		return recoverEntries(body), err
	}

	papers := make([]models.ArxivPaper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if p, ok := toPaper(e); ok {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

// recoverEntries parses every terminated <entry> block separately and drops
// the blocks that fail.
func recoverEntries(body []byte) []models.ArxivPaper {
	papers := []models.ArxivPaper{}
	for _, block := range entryBlocks(body) {
		doc := make([]byte, 0, len(atomOpen)+len(block)+len(atomClose))
		doc = append(append(append(doc, atomOpen...), block...), atomClose...)
		feed, err := (&atom.Parser{}).Parse(bytes.NewReader(doc))
		if err != nil {
			continue
		}
		for _, e := range feed.Entries {
			if p, ok := toPaper(e); ok {
				papers = append(papers, p)
			}
		}
	}
	return papers
}

const (
	atomOpen  = `<feed xmlns="http://www.w3.org/2005/Atom">`
	atomClose = `</feed>`
)

func entryBlocks(body []byte) [][]byte {
	var blocks [][]byte
	open, end := []byte("<entry"), []byte("</entry>")
	for {
		i := bytes.Index(body, open)
		if i < 0 {
			return blocks
		}
		body = body[i:]
		// The next <entry> before this one's end tag means this one is unterminated.
		j := bytes.Index(body, end)
		if j < 0 {
			return blocks
		}
		if k := bytes.Index(body[len(open):], open); k >= 0 && k+len(open) < j {
			body = body[k+len(open):]
			continue
		}
		blocks = append(blocks, body[:j+len(end)])
		body = body[j+len(end):]
	}
}

func toPaper(e *atom.Entry) (models.ArxivPaper, bool) {
	if e == nil {
		return models.ArxivPaper{}, false
	}
	id := strings.TrimSpace(e.ID)
	title := collapse(e.Title)
	if id == "" || title == "" {
		return models.ArxivPaper{}, false
	}
	return models.ArxivPaper{
		ID:         shortID(id),
		Title:      title,
		Summary:    collapse(e.Summary),
		Authors:    authors(e.Authors),
		Published:  strings.TrimSpace(e.Published),
		Updated:    strings.TrimSpace(e.Updated),
		Link:       alternateLink(e.Links, id),
		PDFLink:    pdfLink(e.Links),
		Categories: categories(e.Categories),
	}, true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// shortID turns http://arxiv.org/abs/2401.01234v2 into 2401.01234v2. Old-style
// ids such as hep-th/9901001v1 keep their archive prefix.
func shortID(raw string) string {
	if i := strings.Index(raw, "/abs/"); i >= 0 {
		if rest := strings.Trim(raw[i+len("/abs/"):], "/"); rest != "" {
			return rest
		}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return raw
	}
	return path[strings.LastIndex(path, "/")+1:]
}

func authors(people []*atom.Person) []string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		if p == nil {
			continue
		}
		if n := collapse(p.Name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func alternateLink(links []*atom.Link, fallback string) string {
	for _, l := range links {
		if l != nil && l.Href != "" && (l.Title == "" || l.Title == "alternate") {
			return l.Href
		}
	}
	return fallback
}

func pdfLink(links []*atom.Link) string {
	for _, l := range links {
		if l != nil && l.Title == "pdf" {
			return l.Href
		}
	}
	return ""
}

func categories(cats []*atom.Category) []string {
	terms := make([]string, 0, len(cats))
	for _, c := range cats {
		if c != nil && c.Term != "" {
			terms = append(terms, c.Term)
		}
	}
	return terms
}
