package styler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/conneroisu/leaderboard/pkg/dataset"
	"golang.org/x/net/html"
)

// ErrNoTable is returned when the HTML document contains no table.
var ErrNoTable = errors.New("no table element found")

// ParseHTML reads a styled HTML table, such as the output of a dataframe
// styler's to_html, into a Styler. Rules come from <style> blocks; the table
// id prefix ("T_<uuid>_") is stripped from selectors so they match cell ids.
// Column values are typed from the cell text, and the text itself is kept as
// the display value.
func ParseHTML(r io.Reader) (*Styler, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	table := findElement(doc, "table")
	if table == nil {
		return nil, ErrNoTable
	}
	prefix := ""
	if id := attr(table, "id"); id != "" {
		prefix = id + "_"
	}

	headers := tableHeaders(table)
	body, err := tableBody(table, len(headers))
	if err != nil {
		return nil, err
	}

	cols := make([]dataset.Column, len(headers))
	for c, name := range headers {
		raw := make([]string, len(body))
		for r := range body {
			raw[r] = body[r][c]
		}
		col, err := dataset.NewColumn(name, dataset.ParseColumn(raw)...)
		if err != nil {
			return nil, err
		}
		cols[c] = col
	}

	ds, err := dataset.FromColumns(cols...)
	if err != nil {
		return nil, err
	}

	s := New(ds)
	for r, row := range body {
		for c, text := range row {
			s.display[cellKey{r, c}] = text
		}
	}

	for _, style := range findAll(doc, "style") {
		for _, rule := range parseCSS(textContent(style), prefix) {
			s.AddRule(rule.Selectors, rule.Declarations...)
		}
	}

	return s, nil
}

func tableHeaders(table *html.Node) []string {
	var row *html.Node
	if thead := findElement(table, "thead"); thead != nil {
		rows := findAll(thead, "tr")
		if len(rows) > 0 {
			row = rows[len(rows)-1]
		}
	} else if rows := findAll(table, "tr"); len(rows) > 0 {
		row = rows[0]
	}
	if row == nil {
		return nil
	}

	var headers []string
	for _, th := range childElements(row, "th") {
		classes := attr(th, "class")
		if strings.Contains(classes, "blank") || strings.Contains(classes, "index_name") {
			continue
		}
		headers = append(headers, textContent(th))
	}
	return headers
}

func tableBody(table *html.Node, width int) ([][]string, error) {
	container := findElement(table, "tbody")
	if container == nil {
		container = table
	}

	var body [][]string
	for _, tr := range findAll(container, "tr") {
		cells := childElements(tr, "td")
		if len(cells) == 0 {
			continue
		}
		if len(cells) != width {
			return nil, fmt.Errorf("%w: table row %d has %d cells, expected %d", dataset.ErrRaggedRow, len(body), len(cells), width)
		}
		row := make([]string, len(cells))
		for i, td := range cells {
			row[i] = textContent(td)
		}
		body = append(body, row)
	}
	return body, nil
}

// parseCSS reads "sel, sel { prop: value; ... }" blocks. It handles the flat
// rule lists styler output produces, not general CSS.
func parseCSS(css, prefix string) []Rule {
	var rules []Rule

	for _, block := range strings.Split(css, "}") {
		open := strings.Index(block, "{")
		if open < 0 {
			continue
		}

		var selectors []string
		for _, sel := range strings.Split(block[:open], ",") {
			sel = strings.TrimSpace(sel)
			sel = strings.TrimPrefix(sel, "#")
			sel = strings.TrimPrefix(sel, prefix)
			if sel != "" {
				selectors = append(selectors, sel)
			}
		}

		var decls []Declaration
		for _, decl := range strings.Split(block[open+1:], ";") {
			prop, value, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			prop, value = strings.TrimSpace(prop), strings.TrimSpace(value)
			if prop == "" {
				continue
			}
			decls = append(decls, Decl(prop, value))
		}

		if len(selectors) > 0 && len(decls) > 0 {
			rules = append(rules, Rule{Selectors: selectors, Declarations: decls})
		}
	}

	return rules
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func childElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Trim(b.String(), " \t\r\n\u00a0")
}
