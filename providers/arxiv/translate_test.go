package arxiv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title type="html">ArXiv Query: search_query=all:transformers</title>
  <id>http://arxiv.org/api/abc</id>
  <updated>2024-05-02T00:00:00-04:00</updated>
  <entry>
    <id>http://arxiv.org/abs/2405.00001v1</id>
    <updated>2024-05-01T17:59:59Z</updated>
    <published>2024-05-01T17:59:59Z</published>
    <title>Attention
      Is  All You Need,   Again</title>
    <summary>  We revisit
  transformers.  </summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2405.00001v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2405.00001v1" rel="related" type="application/pdf"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v1</id>
    <updated>1999-01-01T00:00:00Z</updated>
    <published>1999-01-01T00:00:00Z</published>
    <title>No authors here</title>
    <summary>Old style id.</summary>
    <link href="http://arxiv.org/abs/hep-th/9901001v1" rel="alternate" type="text/html"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2405.00003v1</id>
    <summary>Entry without a title is skipped.</summary>
  </entry>
</feed>`

func TestTranslate(t *testing.T) {
	papers, err := Translate(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, papers, 2)

	first := papers[0]
	assert.Equal(t, "2405.00001v1", first.ID)
	assert.Equal(t, "Attention Is All You Need, Again", first.Title)
	assert.Equal(t, "We revisit transformers.", first.Summary)
	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, first.Authors)
	assert.Equal(t, "2024-05-01T17:59:59Z", first.Published)
	assert.Equal(t, "http://arxiv.org/abs/2405.00001v1", first.Link)
	assert.Equal(t, "http://arxiv.org/pdf/2405.00001v1", first.PDFLink)
	assert.Equal(t, []string{"cs.LG", "cs.CL"}, first.Categories)

	second := papers[1]
	assert.Equal(t, "hep-th/9901001v1", second.ID)
	assert.NotNil(t, second.Authors)
	assert.Empty(t, second.Authors)
	assert.Equal(t, "", second.PDFLink)
	assert.Empty(t, second.Categories)
}

const truncatedFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query</title>
  <entry>
    <id>http://arxiv.org/abs/2405.00001v1</id>
    <title>First</title>
    <author><name>Ada Lovelace</name></author>
    <link title="pdf" href="http://arxiv.org/pdf/2405.00001v1" rel="related"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2405.00002v1</id>
    <title>Broken</title>
    <2bad/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2405.00003v1</id>
    <title>Third</title>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2405.00004v1</id>
    <title>Cut off mid`

func TestTranslate_TruncatedKeepsCompleteEntries(t *testing.T) {
	papers, err := Translate(strings.NewReader(truncatedFeed))
	assert.Error(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "2405.00001v1", papers[0].ID)
	assert.Equal(t, []string{"Ada Lovelace"}, papers[0].Authors)
	assert.Equal(t, "http://arxiv.org/pdf/2405.00001v1", papers[0].PDFLink)
	assert.Equal(t, "2405.00003v1", papers[1].ID)
	assert.Equal(t, "Third", papers[1].Title)
}

func TestEntryBlocks_SkipsUnterminated(t *testing.T) {
	blocks := entryBlocks([]byte(`<entry><id>a</id><entry><id>b</id></entry><entry><id>c`))
	require.Len(t, blocks, 1)
	assert.Equal(t, `<entry><id>b</id></entry>`, string(blocks[0]))
}

func TestTranslate_Unparseable(t *testing.T) {
	papers, err := Translate(strings.NewReader("<html><body>rate limited</body></html>"))
	assert.Error(t, err)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "2401.01234v2", shortID("http://arxiv.org/abs/2401.01234v2"))
	assert.Equal(t, "abc", shortID("http://example.org/papers/abc/"))
	assert.Equal(t, "plain-id", shortID("plain-id"))
}
