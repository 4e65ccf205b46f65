package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{
			input:    "&lt;p&gt;Mid term&lt;/p&gt;&lt;p&gt;exams   start&amp;nbsp;Monday&lt;/p&gt;",
			expected: "Mid term exams start Monday",
		},
		{
			input:    "<div>Fee <b>due</b>\n\n\ttoday</div>",
			expected: "Fee due today",
		},
		{
			input:    "plain text",
			expected: "plain text",
		},
		{
			input:    "",
			expected: "",
		},
	}

	for _, row := range table {
		require.Equal(t, row.expected, CleanText(row.input), row.input)
	}
}

func TestNextElement(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div id="section">
			<h4>CSE101</h4>
			<div><table id="first"></table></div>
			<h4>MTH201</h4>
		</div>
		<table id="second"></table>
	`))
	require.NoError(t, err)

	headers := doc.Find("h4")
	require.Equal(t, 2, headers.Length())

	first := NextElement(headers.Get(0), "table")
	require.NotNil(t, first)
	require.Equal(t, "first", goquery.NewDocumentFromNode(first).Selection.AttrOr("id", ""))

	second := NextElement(headers.Get(1), "table")
	require.NotNil(t, second)
	require.Equal(t, "second", goquery.NewDocumentFromNode(second).Selection.AttrOr("id", ""))

	require.Nil(t, NextElement(second, "table"))
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a \n b\t\tc  "))
}
