package grammar

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/stickymd/pkg/offset"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// Org node types. They follow the tree-sitter-org vocabulary.
const (
	OrgDocument  = "document"
	OrgSection   = "section"
	OrgHeadline  = "headline"
	OrgStars     = "stars"
	OrgItem      = "item"
	OrgBody      = "body"
	OrgParagraph = "paragraph"
	OrgBlock     = "block"
	OrgExpr      = "expr"
	OrgContents  = "contents"
	OrgList      = "list"
	OrgListItem  = "listitem"
	OrgBullet    = "bullet"
)

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	orgHeadlineRe   = regexp.MustCompile(`^(\*+)(?:[ \t]+(.*?))?[ \t]*$`)
	orgBlockBeginRe = regexp.MustCompile(`^[ \t]*#\+(?i:begin)_(\S+)(?:[ \t]+(.*?))?[ \t]*$`)
	orgBlockEndRe   = regexp.MustCompile(`^[ \t]*#\+(?i:end)_(\S+)[ \t]*$`)
	orgBulletRe     = regexp.MustCompile(`^([ \t]*)([-+]|[0-9]+[.)]|\*)(?:[ \t]+|$)`)
	orgParamRe      = regexp.MustCompile(`\S+`)
)

// orgGrammar parses the structural subset of Org that highlighting needs:
// headlines and their sections, blocks, plain lists and paragraphs.
// Offsets follow the UTF-16LE byte convention of the tree-sitter grammars.
type orgGrammar struct{}

// NewOrg returns the Org grammar.
func NewOrg() Grammar {
	return orgGrammar{}
}

func (orgGrammar) Name() string {
	return Org
}

func (orgGrammar) Parse(ctx context.Context, src syntax.Source) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", Org, ErrNoTree, err)
	}

	p := &orgParser{
		src:   src,
		lines: syntax.BuildLines(src),
		root:  syntax.NewNode(OrgDocument, 0, toByte(src.Len())),
	}
	p.run()

	return syntax.NewTree(src, p.root), nil
}

func toByte(unit int) uint32 {
	return uint32(unit * syntax.BytesPerUnit) //nolint:gosec // Unit indexes are non-negative.
}

type orgSection struct {
	level int
	node  *syntax.Node
	body  *syntax.Node
}

type orgParser struct {
	src      syntax.Source
	lines    []syntax.Line
	root     *syntax.Node
	rootBody *syntax.Node
	sections []*orgSection

	paragraph *syntax.Node
	list      *syntax.Node
}

func (p *orgParser) run() {
	for idx := 0; idx < len(p.lines); idx++ {
		line := p.lines[idx]
		text := p.src.Text(line.Start, line.NewlineStart)

		if m := orgHeadlineRe.FindStringSubmatchIndex(text); m != nil {
			p.closeOpen()
			p.headline(line, text, m)
			continue
		}

		if strings.TrimSpace(text) == "" {
			p.closeOpen()
			continue
		}

		if m := orgBlockBeginRe.FindStringSubmatchIndex(text); m != nil {
			if end := p.findBlockEnd(idx+1, text[m[2]:m[3]]); end >= 0 {
				p.closeOpen()
				p.block(idx, end, text, m)
				idx = end
				continue
			}
		}

		if m := orgBulletRe.FindStringSubmatchIndex(text); m != nil && isBullet(text, m) {
			p.paragraph = nil
			p.listItem(line, text, m)
			continue
		}

		p.list = nil
		p.paragraphLine(line)
	}

	end := toByte(p.src.Len())
	for _, section := range p.sections {
		section.node.End = end
	}
}

// isBullet rejects a column-zero star, which only ever starts a headline.
func isBullet(text string, m []int) bool {
	return text[m[4]:m[5]] != "*" || m[3] > 0
}

func (p *orgParser) closeOpen() {
	p.paragraph = nil
	p.list = nil
}

func (p *orgParser) headline(line syntax.Line, text string, m []int) {
	idx := offset.NewUnitIndex(text)
	level := m[3] - m[2]
	start := toByte(line.Start)

	for len(p.sections) > 0 && p.sections[len(p.sections)-1].level >= level {
		p.sections[len(p.sections)-1].node.End = start
		p.sections = p.sections[:len(p.sections)-1]
	}

	section := syntax.NewNode(OrgSection, start, toByte(p.src.Len()))
	p.container().appendTo(section)

	headline := syntax.NewNode(OrgHeadline, start, toByte(line.NewlineStart))
	syntax.AppendChild(headline, syntax.NewNode(OrgStars, start, toByte(line.Start+level)))
	if m[4] >= 0 && m[5] > m[4] {
		syntax.AppendChild(headline, syntax.NewNode(OrgItem,
			toByte(line.Start+idx.Unit(m[4])), toByte(line.Start+idx.Unit(m[5]))))
	}
	syntax.AppendChild(section, headline)

	p.sections = append(p.sections, &orgSection{level: level, node: section})
}

func (p *orgParser) findBlockEnd(from int, name string) int {
	for idx := from; idx < len(p.lines); idx++ {
		line := p.lines[idx]
		text := p.src.Text(line.Start, line.NewlineStart)
		if orgHeadlineRe.MatchString(text) {
			return -1
		}
		if m := orgBlockEndRe.FindStringSubmatch(text); m != nil && strings.EqualFold(m[1], name) {
			return idx
		}
	}
	return -1
}

func (p *orgParser) block(beginIdx, endIdx int, text string, m []int) {
	begin := p.lines[beginIdx]
	end := p.lines[endIdx]
	idx := offset.NewUnitIndex(text)

	block := syntax.NewNode(OrgBlock, toByte(begin.Start), toByte(end.NewlineStart))
	syntax.AppendChild(block, syntax.NewNode(OrgExpr,
		toByte(begin.Start+idx.Unit(m[2])), toByte(begin.Start+idx.Unit(m[3]))))

	if m[4] >= 0 {
		params := text[m[4]:m[5]]
		for _, loc := range orgParamRe.FindAllStringIndex(params, -1) {
			syntax.AppendChild(block, syntax.NewNode(OrgExpr,
				toByte(begin.Start+idx.Unit(m[4]+loc[0])), toByte(begin.Start+idx.Unit(m[4]+loc[1]))))
		}
	}

	if end.Start > begin.End {
		syntax.AppendChild(block, syntax.NewNode(OrgContents, toByte(begin.End), toByte(end.Start)))
	}

	p.body().appendTo(block)
}

func (p *orgParser) listItem(line syntax.Line, text string, m []int) {
	idx := offset.NewUnitIndex(text)
	start := toByte(line.Start)
	end := toByte(line.NewlineStart)

	if p.list == nil {
		p.list = syntax.NewNode(OrgList, start, end)
		p.body().appendTo(p.list)
	}
	p.list.End = end

	item := syntax.NewNode(OrgListItem, start, end)
	syntax.AppendChild(item, syntax.NewNode(OrgBullet,
		toByte(line.Start+idx.Unit(m[4])), toByte(line.Start+idx.Unit(m[5]))))
	if rest := line.Start + idx.Unit(m[1]); rest < line.NewlineStart {
		syntax.AppendChild(item, syntax.NewNode(OrgParagraph, toByte(rest), end))
	}
	syntax.AppendChild(p.list, item)
}

func (p *orgParser) paragraphLine(line syntax.Line) {
	end := toByte(line.NewlineStart)
	if p.paragraph == nil {
		p.paragraph = syntax.NewNode(OrgParagraph, toByte(line.Start), end)
		p.body().appendTo(p.paragraph)
	}
	p.paragraph.End = end
}

// nodeRef appends children and widens the node to cover them.
type nodeRef struct{ node *syntax.Node }

func (r nodeRef) appendTo(child *syntax.Node) {
	if r.node.ChildCount() == 0 && r.node.Type == OrgBody {
		r.node.Start = child.Start
	}
	syntax.AppendChild(r.node, child)
	if child.End > r.node.End {
		r.node.End = child.End
	}
}

// container returns the innermost open section or the document.
func (p *orgParser) container() nodeRef {
	if len(p.sections) == 0 {
		return nodeRef{p.root}
	}
	return nodeRef{p.sections[len(p.sections)-1].node}
}

// body returns the body node of the innermost container, creating it on
// first use.
func (p *orgParser) body() nodeRef {
	if len(p.sections) == 0 {
		if p.rootBody == nil {
			p.rootBody = syntax.NewNode(OrgBody, 0, 0)
			syntax.AppendChild(p.root, p.rootBody)
		}
		return nodeRef{p.rootBody}
	}

	section := p.sections[len(p.sections)-1]
	if section.body == nil {
		section.body = syntax.NewNode(OrgBody, 0, 0)
		syntax.AppendChild(section.node, section.body)
	}
	return nodeRef{section.body}
}
