package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"DocStructurer/internal/domain"
)

const minTextBlockLen = 15

var candidateAtoms = map[atom.Atom]bool{
	atom.Table: true, atom.Ol: true, atom.Ul: true, atom.P: true, atom.Div: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

var blockAtoms = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true, atom.Td: true,
	atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// Linearize flattens the subtrees in root into reading-order text, keeping
// tables, lists and headings as bracketed blocks. Every node is emitted at
// most once: consumed subtrees are recorded in a visited set keyed by node.
func Linearize(root *goquery.Selection) string {
	if root == nil || root.Length() == 0 {
		return ""
	}

	l := &linearizer{visited: make(map[*html.Node]struct{})}
	for _, node := range root.Nodes {
		l.walk(node)
	}

	return strings.Join(l.blocks, "\n\n")
}

type linearizer struct {
	visited map[*html.Node]struct{}
	blocks  []string
}

// walk handles node and its subtree in document order.
func (l *linearizer) walk(node *html.Node) {
	if node == nil || node.Type != html.ElementNode {
		return
	}
	if _, done := l.visited[node]; done {
		return
	}

	switch node.DataAtom {
	case atom.Table:
		l.consume(node)
		l.emit(serializeTable(selectionOf(node), node))
	case atom.Ol, atom.Ul:
		l.consume(node)
		l.emit(serializeList(selectionOf(node), node.DataAtom == atom.Ol))
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		l.consume(node)
		if text := nodeText(node); text != "" {
			l.emit(domain.HeadingOpen + " " + text + " " + domain.HeadingClose)
		}
	case atom.P, atom.Div:
		isDiv := node.DataAtom == atom.Div
		if !containsBlock(node, isDiv) {
			l.consume(node)
			l.emitText(nodeText(node))
			return
		}
		if isDiv {
			l.walkContainer(node)
			return
		}
		l.visited[node] = struct{}{}
		l.walkChildren(node)
	default:
		l.walkChildren(node)
	}
}

func (l *linearizer) walkChildren(node *html.Node) {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		l.walk(c)
	}
}

// walkContainer emits the div's own text runs that sit between its block
// children, each run in place, and descends into the block children.
func (l *linearizer) walkContainer(node *html.Node) {
	l.visited[node] = struct{}{}

	var run []*html.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		for _, n := range run {
			l.consume(n)
		}
		l.emitText(nodeText(run...))
		run = nil
	}

	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if holdsCandidate(c) {
			flush()
			l.walk(c)
			continue
		}
		run = append(run, c)
	}
	flush()
}

func (l *linearizer) emitText(text string) {
	if utf8.RuneCountInString(text) > minTextBlockLen {
		l.emit(text)
	}
}

func (l *linearizer) emit(block string) {
	if block != "" {
		l.blocks = append(l.blocks, block)
	}
}

// consume marks node and all of its descendants as visited.
func (l *linearizer) consume(node *html.Node) {
	l.visited[node] = struct{}{}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		l.consume(c)
	}
}

func serializeTable(table *goquery.Selection, node *html.Node) string {
	var rows []string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Closest("table").Get(0) != node {
			return
		}

		var (
			cells    []string
			nonEmpty bool
		)
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			text := nodeText(cell.Get(0))
			if text != "" {
				nonEmpty = true
			}
			cells = append(cells, text)
		})
		if nonEmpty {
			rows = append(rows, strings.Join(cells, " | "))
		}
	})

	if len(rows) == 0 {
		return ""
	}
	return domain.TableOpen + "\n" + strings.Join(rows, "\n") + "\n" + domain.TableClose
}

func serializeList(list *goquery.Selection, ordered bool) string {
	var items []string
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		text := nodeText(li.Get(0))
		if text == "" {
			return
		}
		if ordered {
			items = append(items, fmt.Sprintf("%d. %s", len(items)+1, text))
		} else {
			items = append(items, "• "+text)
		}
	})

	if len(items) == 0 {
		return ""
	}
	return domain.ListOpen + "\n" + strings.Join(items, "\n") + "\n" + domain.ListClose
}

// containsBlock reports nested tables or lists, and for divs also nested
// paragraphs, headings and divs.
func containsBlock(node *html.Node, anyCandidate bool) bool {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.Table, atom.Ol, atom.Ul:
				return true
			case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if anyCandidate {
					return true
				}
			}
		}
		if containsBlock(c, anyCandidate) {
			return true
		}
	}
	return false
}

// holdsCandidate reports whether n is, or contains, a table, list, heading,
// paragraph or div.
func holdsCandidate(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return candidateAtoms[n.DataAtom] || containsBlock(n, true)
}

func selectionOf(node *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(node).Selection
}

// nodeText returns the whitespace-collapsed text of nodes, separating block
// elements with a space.
func nodeText(nodes ...*html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		}
		block := n.Type == html.ElementNode && blockAtoms[n.DataAtom]
		if block {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte(' ')
		}
	}
	for _, n := range nodes {
		if n != nil {
			walk(n)
		}
	}
	return collapseSpace(b.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
