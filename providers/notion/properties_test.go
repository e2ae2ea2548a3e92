package notion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyMarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		prop Property
		want string
	}{
		{"title", TitleValue("Attention"), `{"title":[{"text":{"content":"Attention"}}]}`},
		{"empty rich text clears", RichTextValue(""), `{"rich_text":[]}`},
		{"select", SelectValue("High"), `{"select":{"name":"High"}}`},
		{"empty select clears", SelectValue(""), `{"select":null}`},
		{"multi select drops blanks", MultiSelectValue([]string{"json", " ", " csv "}), `{"multi_select":[{"name":"json"},{"name":"csv"}]}`},
		{"url", URLValue("https://x.org"), `{"url":"https://x.org"}`},
		{"empty url clears", URLValue(""), `{"url":null}`},
		{"checkbox false", CheckboxValue(false), `{"checkbox":false}`},
		{"date", DateValueOf("2024-05-01"), `{"date":{"start":"2024-05-01"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.prop)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(raw))
		})
	}
}

func TestPropertyMarshalJSON_UnknownType(t *testing.T) {
	_, err := json.Marshal(Property{Type: "formula"})
	assert.Error(t, err)
}

const samplePage = `{
  "id": "p1",
  "url": "https://www.notion.so/p1",
  "created_time": "2024-03-02T10:00:00.000Z",
  "archived": false,
  "properties": {
    "Paper": {"type": "title", "title": [{"plain_text": "Deep "}, {"plain_text": "Nets"}]},
    "Description": {"type": "rich_text", "rich_text": []},
    "Content": {"type": "rich_text", "rich_text": [{"plain_text": "fallback"}]},
    "Status": {"type": "select", "select": {"name": "Testing"}},
    "Category": {"type": "select", "select": null},
    "Tags": {"type": "multi_select", "multi_select": [{"name": "a"}, {"name": "b"}]},
    "pdf Link": {"type": "url", "url": "https://x.org/p.pdf"},
    "Active": {"type": "checkbox", "checkbox": false},
    "Submission": {"type": "date", "date": {"start": "2024-01-31"}}
  }
}`

func TestPageReaders(t *testing.T) {
	var pg Page
	require.NoError(t, json.Unmarshal([]byte(samplePage), &pg))

	assert.Equal(t, "Deep Nets", pg.Title())
	assert.Equal(t, "fallback", pg.Text("Description", "Content"))
	assert.Nil(t, pg.OptionalText("Description"))
	assert.Equal(t, "https://x.org/p.pdf", pg.Text("pdf Link"))
	assert.Equal(t, "Testing", pg.Properties["Status"].SelectName())
	assert.Equal(t, "", pg.Properties["Category"].SelectName())
	assert.Equal(t, []string{"a", "b"}, pg.Properties["Tags"].Names())
	assert.Equal(t, []string{}, pg.Properties["Missing"].Names())
	assert.Equal(t, "2024-01-31", pg.Properties["Submission"].DateStart())

	v, ok := pg.Properties["Active"].Checked()
	assert.True(t, ok)
	assert.False(t, v)
	_, ok = pg.Properties["active"].Checked()
	assert.False(t, ok)
}

func TestAnd(t *testing.T) {
	assert.Nil(t, And())

	raw, err := json.Marshal(Query{Filter: And(SelectEquals("Status", "Pending"), CheckboxEquals("Is Free", true))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"filter":{"and":[
		{"property":"Status","select":{"equals":"Pending"}},
		{"property":"Is Free","checkbox":{"equals":true}}
	]}}`, string(raw))
}
